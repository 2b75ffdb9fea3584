//go:build windows

package winjector

import (
	"strconv"

	"golang.org/x/sys/windows"

	"github.com/winjector/winjector/wire"
)

// Injector drives repeated module injection against one target process: it
// owns the executable remote region holding the thunk image for the whole
// lifetime of the Injector (spec.md §4.7, §5 "memory across address spaces").
type Injector struct {
	target     windows.Handle
	codeRegion *Region
	entry      uintptr
}

// NewInjector constructs an Injector against target: checks bitness, builds
// (or reuses) the process-wide thunk image, copies it into an executable
// remote region, and remembers the entry point.
func NewInjector(target windows.Handle) (*Injector, error) {
	if err := checkBitness(target); err != nil {
		return nil, err
	}

	img, err := thunkImage()
	if err != nil {
		return nil, err
	}

	region, err := NewRegion(target, uintptr(len(img)), true)
	if err != nil {
		return nil, err
	}
	entry, err := WriteBytes(region, img)
	if err != nil {
		region.Close()
		return nil, err
	}

	currentLogger().Debug("injector: thunk image copied to target", "bytes", len(img), "entry", entry)

	return &Injector{target: target, codeRegion: region, entry: entry}, nil
}

// Close releases the code region. Calling Inject after Close is an error.
func (in *Injector) Close() error {
	if in == nil || in.codeRegion == nil {
		return nil
	}
	err := in.codeRegion.Close()
	in.codeRegion = nil
	return err
}

// Inject copies m into the target and runs the thunk once, blocking until
// the remote thread completes (spec.md §4.7).
func (in *Injector) Inject(m *BuiltModule) error {
	if in.codeRegion == nil {
		return newError("Inject", KindIO, errString("injector is closed"))
	}
	dataRegion, blockPtr, err := m.copyToProcess(in.target)
	if err != nil {
		return err
	}
	defer dataRegion.Close()

	thread, err := createRemoteThread(in.target, in.entry, blockPtr)
	if err != nil {
		return newError("Inject", KindIO, err)
	}
	defer windows.CloseHandle(thread)

	if _, err := windows.WaitForSingleObject(thread, windows.INFINITE); err != nil {
		return newError("Inject", KindIO, err)
	}

	code, err := getThreadExitCode(thread)
	if err != nil {
		return newError("Inject", KindIO, err)
	}

	block, err := Read[paramBlock](dataRegion, blockPtr)
	if err != nil {
		return newError("Inject", KindIO, err)
	}

	return in.dispatch(statusCode(code), block)
}

// dispatch implements spec.md §4.7 step 6. The init-failure payload, if any,
// was allocated by the initializer itself inside the target's address space
// (spec.md §4.5 step 8) -- a region distinct from the caller's data region,
// read back here as a non-owning view.
func (in *Injector) dispatch(status statusCode, block paramBlock) error {
	switch status {
	case statusSuccess:
		return nil
	case statusLoadFailed:
		return newError("Inject", KindLoadFailed, osErrno(block.LastError))
	case statusInitNotFound:
		return newError("Inject", KindInitNotFound, osErrno(block.LastError))
	case statusInitFailed:
		if block.UserDataPtr == 0 || block.UserDataLen == 0 {
			return &Error{Op: "Inject", Kind: KindInitFailed}
		}
		payload, err := ReadBytes(FromRaw(in.target, block.UserDataPtr), block.UserDataPtr, int(block.UserDataLen))
		if err != nil {
			return newError("Inject", KindIO, err)
		}
		initErr, err := wire.DecodeInitError(payload)
		if err != nil {
			return newError("Inject", KindDeserialize, err)
		}
		return &Error{Op: "Inject", Kind: KindInitFailed, InitError: initErr}
	default:
		return newError("Inject", KindUnexpectedExitCode, errUnexpectedExitCode(status))
	}
}

// osErrno wraps a Win32 error number as the error produced by calling that
// API locally, so callers see the same message golang.org/x/sys/windows
// would surface for the equivalent failure.
func osErrno(code uint32) error {
	if code == 0 {
		return nil
	}
	return windows.Errno(code)
}

type unexpectedExitCodeError statusCode

func (e unexpectedExitCodeError) Error() string {
	return "remote thread returned an undefined status code: " + strconv.FormatUint(uint64(e), 10)
}

func errUnexpectedExitCode(status statusCode) error {
	return unexpectedExitCodeError(status)
}
