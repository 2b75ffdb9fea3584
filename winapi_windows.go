//go:build windows

package winjector

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// CreateRemoteThread and GetExitCodeThread are not exposed by
// golang.org/x/sys/windows's typed wrappers. Following the teacher's own
// precedent for APIs it has to reach via a raw LazyDLL/Proc
// (prompt/reader_windows.go's GetNumberOfConsoleInputEvents), these two are
// resolved once as package-level lazy procs.
var (
	modkernel32 = syscall.NewLazyDLL("kernel32.dll")

	procCreateRemoteThread = modkernel32.NewProc("CreateRemoteThread")
	procGetExitCodeThread  = modkernel32.NewProc("GetExitCodeThread")
)

func createRemoteThread(process windows.Handle, entry, arg uintptr) (windows.Handle, error) {
	r0, _, err := procCreateRemoteThread.Call(
		uintptr(process), 0, 0, entry, arg, 0, 0,
	)
	if r0 == 0 {
		return 0, err
	}
	return windows.Handle(r0), nil
}

func getThreadExitCode(thread windows.Handle) (uint32, error) {
	var code uint32
	r0, _, err := procGetExitCodeThread.Call(uintptr(thread), uintptr(unsafe.Pointer(&code)))
	if r0 == 0 {
		return 0, err
	}
	return code, nil
}

// newInheritListAttribute builds a proc-thread attribute list containing
// exactly the given handles as the inheritable-handle whitelist, so that
// unrelated inheritable handles open in the parent are not leaked into the
// child (spec.md §4.8 step 2). The returned container must be released after
// CreateProcess returns, success or failure.
func newInheritListAttribute(handles []windows.Handle) (*windows.ProcThreadAttributeListContainer, error) {
	list, err := windows.NewProcThreadAttributeList(1)
	if err != nil {
		return nil, newError("NewProcThreadAttributeList", KindIO, err)
	}
	hs := make([]windows.Handle, len(handles))
	copy(hs, handles)

	if err := list.Update(
		windows.PROC_THREAD_ATTRIBUTE_HANDLE_LIST,
		unsafe.Pointer(&hs[0]),
		uintptr(len(hs))*unsafe.Sizeof(hs[0]),
	); err != nil {
		list.Delete()
		return nil, newError("UpdateProcThreadAttribute", KindIO, err)
	}
	return list, nil
}
