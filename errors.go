package winjector

import (
	"errors"
	"fmt"

	"github.com/winjector/winjector/wire"
)

// Kind identifies the category of an Error returned by this package. See
// spec.md §7 for the full enumeration and propagation rules.
type Kind int

const (
	_ Kind = iota
	// KindBitness means the injector's and target's pointer widths differ.
	// Terminal: the caller must retarget.
	KindBitness
	// KindIO wraps a failed OS call at a layer boundary.
	KindIO
	// KindLoadFailed means the target's loader refused the module.
	KindLoadFailed
	// KindInitNotFound means the named initializer symbol was not found
	// in the loaded module.
	KindInitNotFound
	// KindInitFailed means the initializer returned failure. InitError may
	// be nil (failure without a payload) or populated.
	KindInitFailed
	// KindDeserialize means an init-failure payload could not be decoded,
	// or a Module.Arg value could not be encoded with the wire codec.
	KindDeserialize
	// KindUnexpectedExitCode means the remote thread's exit code fell
	// outside the defined status-code set -- treat as a remote crash.
	KindUnexpectedExitCode
)

func (k Kind) String() string {
	switch k {
	case KindBitness:
		return "bitness mismatch"
	case KindIO:
		return "i/o"
	case KindLoadFailed:
		return "load failed"
	case KindInitNotFound:
		return "init symbol not found"
	case KindInitFailed:
		return "init failed"
	case KindDeserialize:
		return "deserialize"
	case KindUnexpectedExitCode:
		return "unexpected exit code"
	default:
		return "unknown"
	}
}

// Error is the error type surfaced by every fallible operation in this
// package.
type Error struct {
	Kind Kind
	Op   string
	Err  error

	// InitError is populated only when Kind == KindInitFailed and the
	// initializer returned a structured payload (spec.md §7).
	InitError *wire.InitError
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindInitFailed && e.InitError != nil:
		return fmt.Sprintf("winjector: %s: %s: %s", e.Op, e.Kind, e.InitError.Error())
	case e.Err != nil:
		return fmt.Sprintf("winjector: %s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("winjector: %s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports equality by Kind, so callers can write errors.Is(err, &Error{Kind: KindBitness}).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

func newError(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}
