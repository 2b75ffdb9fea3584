package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitError_RoundTrip(t *testing.T) {
	cases := []*InitError{
		NewPanicError("boom"),
		NewArgumentError("arg1", "expected uint32, got string"),
		NewTooManyArgumentsError(),
	}
	for _, want := range cases {
		b, err := EncodeInitError(want)
		require.NoError(t, err)

		got, err := DecodeInitError(b)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestInitError_DecodeGarbage(t *testing.T) {
	_, err := DecodeInitError([]byte{0xff, 0xff, 0xff})
	require.Error(t, err)
}

func TestInitError_Error(t *testing.T) {
	require.Equal(t, "panic: boom", NewPanicError("boom").Error())
	require.Equal(t, "argument n: bad", NewArgumentError("n", "bad").Error())
	require.Equal(t, "too many arguments", NewTooManyArgumentsError().Error())
}
