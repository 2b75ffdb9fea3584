//go:build windows

package trampoline

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// allocErrorPayload copies b into a freshly committed read/write page in the
// current (target) address space, sized to b, and returns its address and
// length. Per spec.md §4.5 and the Open Question resolution in DESIGN.md,
// this must use the OS virtual-memory allocator directly, never the Go
// heap, because the injector reads these bytes from outside the process and
// must not assume any heap invariants. Allocation failure degrades to
// (0, 0, false) rather than panicking -- the caller still returns failure,
// just without a decodable payload (spec.md §4.5 step 8, §7 "Init
// failed(None)").
func allocErrorPayload(b []byte) (addr uintptr, size uintptr, ok bool) {
	if len(b) == 0 {
		return 0, 0, false
	}
	n := uintptr(len(b))
	a, err := windows.VirtualAlloc(0, n, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil || a == 0 {
		return 0, 0, false
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(a)), n)
	copy(dst, b)
	return a, n, true
}
