package wire

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeArg_RoundTrip(t *testing.T) {
	cases := []any{
		uint32(42),
		"hi",
		[]int16{-1, 0, 1},
	}
	for _, v := range cases {
		b, err := EncodeArg(v)
		require.NoError(t, err)

		switch v.(type) {
		case uint32:
			var got uint32
			n, err := DecodeArg(b, &got)
			require.NoError(t, err)
			require.Equal(t, len(b), n)
			require.Equal(t, v, got)
		case string:
			var got string
			_, err := DecodeArg(b, &got)
			require.NoError(t, err)
			require.Equal(t, v, got)
		case []int16:
			var got []int16
			_, err := DecodeArg(b, &got)
			require.NoError(t, err)
			if diff := cmp.Diff(v, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		}
	}
}

func TestArgumentStream_Concatenation(t *testing.T) {
	// No framing is required between arguments: the decoder knows arity and
	// types statically and just consumes frames off the stream in order
	// (spec.md §6).
	a, err := EncodeArg(uint32(42))
	require.NoError(t, err)
	b, err := EncodeArg("hi")
	require.NoError(t, err)
	c, err := EncodeArg([]int16{-1, 0, 1})
	require.NoError(t, err)

	stream := append(append(append([]byte{}, a...), b...), c...)

	var n uint32
	var s string
	var v []int16

	off := 0
	consumed, err := DecodeArg(stream[off:], &n)
	require.NoError(t, err)
	off += consumed

	consumed, err = DecodeArg(stream[off:], &s)
	require.NoError(t, err)
	off += consumed

	consumed, err = DecodeArg(stream[off:], &v)
	require.NoError(t, err)
	off += consumed

	require.Equal(t, len(stream), off)
	require.Equal(t, uint32(42), n)
	require.Equal(t, "hi", s)
	require.Equal(t, []int16{-1, 0, 1}, v)
}

func TestDecodeHandle_RoundTrip(t *testing.T) {
	b := EncodeHandle(0xdeadbeef)
	v, n, err := DecodeHandle(b)
	require.NoError(t, err)
	require.Equal(t, uint64(0xdeadbeef), v)
	require.Equal(t, len(b), n)
}
