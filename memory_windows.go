//go:build windows

package winjector

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Region is a bump-allocated arena reserved in another process's address
// space: (owning process handle, base address in that process, total
// reserved size), plus a bump offset used to carve aligned sub-ranges
// (spec.md §3, §4.2).
type Region struct {
	proc   windows.Handle
	base   uintptr
	size   uintptr
	offset uintptr
	owned  bool
}

// NewRegion reserves and commits size bytes in process, with read/write or
// read/write/execute protection. size == 0 is rejected.
func NewRegion(process windows.Handle, size uintptr, executable bool) (*Region, error) {
	if size == 0 {
		return nil, newError("NewRegion", KindIO, fmt.Errorf("zero-sized region"))
	}
	protect := uint32(windows.PAGE_READWRITE)
	if executable {
		protect = windows.PAGE_EXECUTE_READWRITE
	}
	addr, err := windows.VirtualAllocEx(process, 0, size, windows.MEM_COMMIT|windows.MEM_RESERVE, protect)
	if err != nil {
		return nil, newError("VirtualAllocEx", KindIO, err)
	}
	return &Region{proc: process, base: addr, size: size, owned: true}, nil
}

// FromRaw adopts an existing foreign pointer without owning it -- used only
// when the thunk has handed the injector a pointer it allocated itself
// (spec.md §4.2, §4.7's read-back of the init-failure payload).
func FromRaw(process windows.Handle, address uintptr) *Region {
	return &Region{proc: process, base: address, owned: false}
}

// Base returns the foreign base address of the region.
func (r *Region) Base() uintptr { return r.base }

func (r *Region) alloc(size, alignment uintptr) (uintptr, error) {
	off := align(r.offset, alignment)
	if r.size != 0 && off+size > r.size {
		return 0, newError("Region.alloc", KindIO, fmt.Errorf("arena exhausted: need %d bytes at offset %d, have %d", size, off, r.size))
	}
	r.offset = off + size
	return r.base + off, nil
}

// WriteBytes bump-allocates a byte-aligned sub-range and copies b into it.
func WriteBytes(r *Region, b []byte) (uintptr, error) {
	if len(b) == 0 {
		return 0, nil
	}
	addr, err := r.alloc(uintptr(len(b)), 1)
	if err != nil {
		return 0, err
	}
	var n uintptr
	if err := windows.WriteProcessMemory(r.proc, addr, &b[0], uintptr(len(b)), &n); err != nil {
		return 0, newError("WriteProcessMemory", KindIO, err)
	}
	return addr, nil
}

// Write bump-allocates an aligned sub-range sized and aligned for T, copies
// value's bytes into it, and returns the foreign pointer (spec.md §4.2).
func Write[T any](r *Region, value T) (uintptr, error) {
	size := unsafe.Sizeof(value)
	addr, err := r.alloc(size, unsafe.Alignof(value))
	if err != nil {
		return 0, err
	}
	var n uintptr
	if err := windows.WriteProcessMemory(r.proc, addr, (*byte)(unsafe.Pointer(&value)), size, &n); err != nil {
		return 0, newError("WriteProcessMemory", KindIO, err)
	}
	return addr, nil
}

// ReadBytes copies n bytes back from the target at foreignPtr.
func ReadBytes(r *Region, foreignPtr uintptr, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	var read uintptr
	if err := windows.ReadProcessMemory(r.proc, foreignPtr, &buf[0], uintptr(n), &read); err != nil {
		return nil, newError("ReadProcessMemory", KindIO, err)
	}
	return buf[:read], nil
}

// Read copies a single T back from the target at foreignPtr.
func Read[T any](r *Region, foreignPtr uintptr) (T, error) {
	var value T
	size := unsafe.Sizeof(value)
	var n uintptr
	if err := windows.ReadProcessMemory(r.proc, foreignPtr, (*byte)(unsafe.Pointer(&value)), size, &n); err != nil {
		return value, newError("ReadProcessMemory", KindIO, err)
	}
	return value, nil
}

// Close releases the entire region in the owning process, regardless of
// which process created the wrapper. Closing a non-owning (FromRaw) region
// is a no-op.
func (r *Region) Close() error {
	if r == nil || !r.owned || r.base == 0 {
		return nil
	}
	base := r.base
	r.base = 0
	if err := windows.VirtualFreeEx(r.proc, base, 0, windows.MEM_RELEASE); err != nil {
		return newError("VirtualFreeEx", KindIO, err)
	}
	return nil
}
