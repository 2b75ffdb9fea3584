package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// InitErrorKind tags which variant of the initializer-error tagged union a
// value holds (spec.md §6, §7).
type InitErrorKind int

const (
	_ InitErrorKind = iota
	KindPanic
	KindArgument
	KindTooManyArguments
)

// InitError is the codec-encoded tagged union the trampoline serializes on
// its error path and the injector decodes out of the target's parameter
// block (spec.md §6: variants Panic(string), Argument(name, detail),
// TooManyArguments).
type InitError struct {
	Kind    InitErrorKind
	Panic   string // set iff Kind == KindPanic
	ArgName string // set iff Kind == KindArgument
	Detail  string // set iff Kind == KindArgument
}

func (e *InitError) Error() string {
	switch e.Kind {
	case KindPanic:
		return fmt.Sprintf("panic: %s", e.Panic)
	case KindArgument:
		return fmt.Sprintf("argument %s: %s", e.ArgName, e.Detail)
	case KindTooManyArguments:
		return "too many arguments"
	default:
		return "unknown init error"
	}
}

// wireInitError is the flat struct actually placed on the wire, keyed by
// small integers to keep the encoding compact.
type wireInitError struct {
	Kind    InitErrorKind `cbor:"1,keyasint"`
	Panic   string        `cbor:"2,keyasint,omitempty"`
	ArgName string        `cbor:"3,keyasint,omitempty"`
	Detail  string        `cbor:"4,keyasint,omitempty"`
}

// EncodeInitError serializes an InitError for the trampoline's error path.
func EncodeInitError(e *InitError) ([]byte, error) {
	w := wireInitError{Kind: e.Kind, Panic: e.Panic, ArgName: e.ArgName, Detail: e.Detail}
	b, err := cbor.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("wire: encode init error: %w", err)
	}
	return b, nil
}

// DecodeInitError deserializes an InitError payload read out of the target
// process. A decode failure here indicates ABI skew or corruption (spec.md §7).
func DecodeInitError(buf []byte) (*InitError, error) {
	var w wireInitError
	if err := cbor.Unmarshal(buf, &w); err != nil {
		return nil, fmt.Errorf("wire: decode init error: %w", err)
	}
	return &InitError{Kind: w.Kind, Panic: w.Panic, ArgName: w.ArgName, Detail: w.Detail}, nil
}

// NewPanicError constructs a Panic-variant InitError.
func NewPanicError(msg string) *InitError { return &InitError{Kind: KindPanic, Panic: msg} }

// NewArgumentError constructs an Argument-variant InitError.
func NewArgumentError(name, detail string) *InitError {
	return &InitError{Kind: KindArgument, ArgName: name, Detail: detail}
}

// NewTooManyArgumentsError constructs a TooManyArguments-variant InitError.
func NewTooManyArgumentsError() *InitError { return &InitError{Kind: KindTooManyArguments} }
