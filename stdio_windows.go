//go:build windows

package winjector

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// StdioMode selects how one child stream is wired (spec.md §4.8, §6 "Stdio
// fallbacks").
type StdioMode int

const (
	// StdioInherit duplicates the parent's corresponding standard handle as
	// inheritable.
	StdioInherit StdioMode = iota
	// StdioPipe creates an anonymous pipe and hands the appropriate end to
	// the child, keeping the other end for the parent.
	StdioPipe
	// StdioNull opens the platform null device with the access the stream
	// needs and inheritable security.
	StdioNull
	// StdioRaw hands the child an explicit, already-open handle.
	StdioRaw
)

type streamKind int

const (
	streamStdin streamKind = iota
	streamStdout
	streamStderr
)

// Stdio configures one of a Command's three standard streams.
type Stdio struct {
	mode StdioMode
	raw  windows.Handle
}

// Inherit duplicates the parent's handle for this stream into the child.
func Inherit() Stdio { return Stdio{mode: StdioInherit} }

// MakePipe creates an anonymous pipe for this stream.
func MakePipe() Stdio { return Stdio{mode: StdioPipe} }

// Null redirects this stream to the platform null device.
func Null() Stdio { return Stdio{mode: StdioNull} }

// RawHandle hands the child an explicit, already-open, inheritable handle
// (original_source/src/process.rs's Stdio::Raw; spec.md "Supplemented
// features").
func RawHandle(h *Handle) Stdio { return Stdio{mode: StdioRaw, raw: h.Raw()} }

// stdioEndpoint is the resolved result of one Stdio configuration: the
// handle the child inherits, plus (for StdioPipe) the parent-side handle the
// caller reads from or writes to, and a close list of handles this package
// opened and must clean up on a failed spawn.
type stdioEndpoint struct {
	childSide  windows.Handle
	parentSide windows.Handle // INVALID_HANDLE_VALUE unless mode == StdioPipe
	ownedByUs  []windows.Handle
}

func resolveStdio(kind streamKind, s Stdio) (stdioEndpoint, error) {
	switch s.mode {
	case StdioInherit:
		return inheritStd(kind)
	case StdioPipe:
		return pipeStd(kind)
	case StdioNull:
		return nullStd(kind)
	case StdioRaw:
		return stdioEndpoint{childSide: s.raw, parentSide: windows.InvalidHandle}, nil
	default:
		return stdioEndpoint{}, newError("resolveStdio", KindIO, errUnknownStdioMode)
	}
}

var errUnknownStdioMode = errString("unknown stdio mode")

type errString string

func (e errString) Error() string { return string(e) }

func stdHandleConst(kind streamKind) uint32 {
	switch kind {
	case streamStdin:
		return windows.STD_INPUT_HANDLE
	case streamStdout:
		return windows.STD_OUTPUT_HANDLE
	default:
		return windows.STD_ERROR_HANDLE
	}
}

func inheritStd(kind streamKind) (stdioEndpoint, error) {
	parent, err := windows.GetStdHandle(stdHandleConst(kind))
	if err != nil {
		return stdioEndpoint{}, newError("GetStdHandle", KindIO, err)
	}
	dup, err := duplicateHandle(windows.CurrentProcess(), parent, windows.CurrentProcess(), true)
	if err != nil {
		return stdioEndpoint{}, err
	}
	return stdioEndpoint{childSide: dup, parentSide: windows.InvalidHandle, ownedByUs: []windows.Handle{dup}}, nil
}

func nullStd(kind streamKind) (stdioEndpoint, error) {
	access := uint32(windows.GENERIC_WRITE)
	if kind == streamStdin {
		access = windows.GENERIC_READ
	}
	sa := &windows.SecurityAttributes{
		Length:        uint32(unsafe.Sizeof(windows.SecurityAttributes{})),
		InheritHandle: 1,
	}
	pathPtr, err := windows.UTF16PtrFromString("NUL")
	if err != nil {
		return stdioEndpoint{}, newError("nullStd", KindIO, err)
	}
	h, err := windows.CreateFile(pathPtr, access, windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE, sa, windows.OPEN_EXISTING, 0, 0)
	if err != nil {
		return stdioEndpoint{}, newError("CreateFile(NUL)", KindIO, err)
	}
	return stdioEndpoint{childSide: h, parentSide: windows.InvalidHandle, ownedByUs: []windows.Handle{h}}, nil
}

func pipeStd(kind streamKind) (stdioEndpoint, error) {
	sa := &windows.SecurityAttributes{
		Length:        uint32(unsafe.Sizeof(windows.SecurityAttributes{})),
		InheritHandle: 1,
	}
	var r, w windows.Handle
	if err := windows.CreatePipe(&r, &w, sa, 0); err != nil {
		return stdioEndpoint{}, newError("CreatePipe", KindIO, err)
	}

	// Only the end the child inherits should be inheritable; the parent-side
	// end must not be, or it would leak into unrelated child processes.
	var childEnd, parentEnd windows.Handle
	if kind == streamStdin {
		childEnd, parentEnd = r, w
	} else {
		childEnd, parentEnd = w, r
	}
	if err := windows.SetHandleInformation(parentEnd, windows.HANDLE_FLAG_INHERIT, 0); err != nil {
		windows.CloseHandle(r)
		windows.CloseHandle(w)
		return stdioEndpoint{}, newError("SetHandleInformation", KindIO, err)
	}
	return stdioEndpoint{childSide: childEnd, parentSide: parentEnd, ownedByUs: []windows.Handle{childEnd}}, nil
}
