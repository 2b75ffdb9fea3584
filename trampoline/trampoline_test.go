//go:build windows

package trampoline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/winjector/winjector/wire"
)

func encodeAll(t *testing.T, values ...any) []byte {
	t.Helper()
	var buf []byte
	for _, v := range values {
		b, err := wire.EncodeArg(v)
		require.NoError(t, err)
		buf = append(buf, b...)
	}
	return buf
}

// Scenario 3 of spec.md §8: argument round-trip (u32, string, []int16).
func TestDispatcher_ArgumentRoundTrip(t *testing.T) {
	var gotN uint32
	var gotS string
	var gotV []int16

	d, err := Build(func(n uint32, s string, v []int16) {
		gotN, gotS, gotV = n, s, v
	})
	require.NoError(t, err)

	buf := encodeAll(t, uint32(42), "hi", []int16{-1, 0, 1})
	payload, ok := d.Run(buf)
	require.True(t, ok)
	require.Nil(t, payload)

	require.Equal(t, uint32(42), gotN)
	require.Equal(t, "hi", gotS)
	require.Equal(t, []int16{-1, 0, 1}, gotV)
}

// Scenario 4 of spec.md §8: too many arguments.
func TestDispatcher_TooManyArguments(t *testing.T) {
	d, err := Build(func(n uint32) {})
	require.NoError(t, err)

	buf := encodeAll(t, uint32(1), uint32(2))
	payload, ok := d.Run(buf)
	require.False(t, ok)
	require.NotNil(t, payload)

	initErr, err := wire.DecodeInitError(payload)
	require.NoError(t, err)
	require.Equal(t, wire.KindTooManyArguments, initErr.Kind)
}

// Scenario 2 of spec.md §8: panicking initializer.
func TestDispatcher_Panic(t *testing.T) {
	d, err := Build(func() { panic("boom") })
	require.NoError(t, err)

	payload, ok := d.Run(nil)
	require.False(t, ok)

	initErr, err := wire.DecodeInitError(payload)
	require.NoError(t, err)
	require.Equal(t, wire.KindPanic, initErr.Kind)
	require.Equal(t, "boom", initErr.Panic)
}

func TestDispatcher_NonStringPanic(t *testing.T) {
	d, err := Build(func() { panic(42) })
	require.NoError(t, err)

	payload, ok := d.Run(nil)
	require.False(t, ok)

	initErr, err := wire.DecodeInitError(payload)
	require.NoError(t, err)
	require.Equal(t, "<non-string panic>", initErr.Panic)
}

func TestDispatcher_ArgumentDecodeFailure(t *testing.T) {
	d, err := Build(func(n uint32) {})
	require.NoError(t, err)

	// A malformed CBOR frame.
	payload, ok := d.Run([]byte{0xff, 0xff, 0xff})
	require.False(t, ok)

	initErr, err := wire.DecodeInitError(payload)
	require.NoError(t, err)
	require.Equal(t, wire.KindArgument, initErr.Kind)
}

func TestDispatcher_OptionalTrailing(t *testing.T) {
	var gotOpt uint32
	d, err := Build(func(n uint32, opt uint32) {
		gotOpt = opt
	})
	require.NoError(t, err)
	d.WithOptionalTrailing(1)

	buf := encodeAll(t, uint32(7))
	_, ok := d.Run(buf)
	require.True(t, ok)
	require.Equal(t, uint32(0), gotOpt)
}
