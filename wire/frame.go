// Package wire implements the on-wire framing shared between the injector
// (host process) and the trampoline (target process): a length-delimited,
// schema-free, self-describing binary encoding, built on CBOR. This is the
// concrete codec spec.md §1 treats as an external collaborator.
package wire

import (
	"bytes"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// EncodeArg serializes a single initializer argument as one CBOR frame.
func EncodeArg(v any) ([]byte, error) {
	b, err := cbor.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("wire: encode arg: %w", err)
	}
	return b, nil
}

// DecodeArg reads exactly one CBOR frame from the front of buf into dest,
// returning the number of bytes consumed. Frames are concatenated with no
// extra framing between them (spec.md §6): the trampoline knows arity and
// types statically, so the decoder just reads frames off the stream in order.
func DecodeArg(buf []byte, dest any) (int, error) {
	dec := cbor.NewDecoder(bytes.NewReader(buf))
	if err := dec.Decode(dest); err != nil {
		return 0, fmt.Errorf("wire: decode arg: %w", err)
	}
	return dec.NumBytesRead(), nil
}

// EncodeHandle renders a duplicated target-process handle value as the
// target-width unsigned integer the thunk-callable ABI expects (spec.md §6).
func EncodeHandle(v uint64) []byte {
	b, _ := cbor.Marshal(v) // uint64 always marshals
	return b
}

// DecodeHandle reads one target-width handle value, returning bytes consumed.
func DecodeHandle(buf []byte) (uint64, int, error) {
	var v uint64
	dec := cbor.NewDecoder(bytes.NewReader(buf))
	if err := dec.Decode(&v); err != nil {
		return 0, 0, fmt.Errorf("wire: decode handle: %w", err)
	}
	return v, dec.NumBytesRead(), nil
}
