package winjector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/winjector/winjector/wire"
)

func TestError_IsMatchesByKind(t *testing.T) {
	a := newError("op1", KindIO, errors.New("boom"))
	b := newError("op2", KindIO, errors.New("different boom"))
	c := newError("op3", KindLoadFailed, errors.New("boom"))

	require.True(t, errors.Is(a, b))
	require.False(t, errors.Is(a, c))
}

func TestError_UnwrapExposesUnderlyingErr(t *testing.T) {
	underlying := errors.New("underlying")
	e := newError("op", KindIO, underlying)
	require.Same(t, underlying, errors.Unwrap(e))
}

func TestError_MessageIncludesInitError(t *testing.T) {
	e := &Error{Op: "Inject", Kind: KindInitFailed, InitError: wire.NewPanicError("boom")}
	require.Contains(t, e.Error(), "boom")
	require.Contains(t, e.Error(), "Inject")
}

func TestError_MessageWithoutDetail(t *testing.T) {
	e := &Error{Op: "Inject", Kind: KindBitness}
	require.Equal(t, "winjector: Inject: bitness mismatch", e.Error())
}
