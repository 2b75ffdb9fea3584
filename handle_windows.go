//go:build windows

package winjector

import (
	"time"

	"golang.org/x/sys/windows"
)

// Handle is an owning wrapper around a Win32 kernel object handle: closing
// it happens exactly once, in Close, and duplicating it produces a fresh,
// independently owned handle that may target either the current process or
// a foreign one (spec.md §4.1). Per spec.md §9, a raw windows.Handle never
// escapes this package except through Raw, and Raw never transfers ownership.
type Handle struct {
	h windows.Handle
}

// WrapHandle adopts raw as the sole owner of the referenced kernel object.
func WrapHandle(raw windows.Handle) *Handle { return &Handle{h: raw} }

// Valid reports whether h still refers to an open kernel object.
func (h *Handle) Valid() bool { return h != nil && h.h != 0 && h.h != windows.InvalidHandle }

// Raw exposes the underlying handle value for FFI calls, without
// transferring ownership.
func (h *Handle) Raw() windows.Handle { return h.h }

// Close releases the kernel object. Close is idempotent: closing an
// already-closed or nil Handle is a no-op.
func (h *Handle) Close() error {
	if h == nil || h.h == 0 {
		return nil
	}
	raw := h.h
	h.h = 0
	return windows.CloseHandle(raw)
}

func duplicateHandle(srcProc, raw, dstProc windows.Handle, inheritable bool) (windows.Handle, error) {
	var out windows.Handle
	if err := windows.DuplicateHandle(srcProc, raw, dstProc, &out, windows.DUPLICATE_SAME_ACCESS, inheritable, 0); err != nil {
		return 0, newError("DuplicateHandle", KindIO, err)
	}
	return out, nil
}

// DuplicateHandle duplicates raw (owned by the current process) within the
// current process, with an explicit inheritable flag, producing a fresh
// owning Handle whose kernel object is distinct from raw's.
func DuplicateHandle(raw windows.Handle, inheritable bool) (*Handle, error) {
	out, err := duplicateHandle(windows.CurrentProcess(), raw, windows.CurrentProcess(), inheritable)
	if err != nil {
		return nil, err
	}
	return &Handle{h: out}, nil
}

// DuplicateTo duplicates raw (owned by the current process) into target,
// returning the target-process handle value. The result is only meaningful
// inside target's address space -- it is not locally openable.
func DuplicateTo(target windows.Handle, raw windows.Handle, inheritable bool) (windows.Handle, error) {
	return duplicateHandle(windows.CurrentProcess(), raw, target, inheritable)
}

// Clone duplicates this handle within the current process, non-inheritable
// (original_source/src/handle.rs's try_clone; spec.md "Supplemented features").
func (h *Handle) Clone() (*Handle, error) {
	out, err := duplicateHandle(windows.CurrentProcess(), h.h, windows.CurrentProcess(), false)
	if err != nil {
		return nil, err
	}
	return &Handle{h: out}, nil
}

// Wait blocks until the referenced kernel object is signaled, or timeout
// elapses (timeout < 0 blocks indefinitely). It returns (true, nil) if the
// object signaled, (false, nil) on timeout, and (false, err) on OS failure --
// callers must be able to distinguish "not yet signaled" from "wait failed".
func (h *Handle) Wait(timeout time.Duration) (bool, error) {
	ms := uint32(windows.INFINITE)
	if timeout >= 0 {
		ms = uint32(timeout.Milliseconds())
	}
	ev, err := windows.WaitForSingleObject(h.h, ms)
	switch ev {
	case windows.WAIT_OBJECT_0:
		return true, nil
	case uint32(windows.WAIT_TIMEOUT):
		return false, nil
	default:
		return false, newError("WaitForSingleObject", KindIO, err)
	}
}
