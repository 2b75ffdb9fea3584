package winjector

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlign(t *testing.T) {
	cases := []struct {
		offset, a, want uintptr
	}{
		{0, 8, 0},
		{1, 8, 8},
		{7, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{3, 4, 4},
		{5, 1, 5},
		{5, 0, 5},
	}
	for _, c := range cases {
		require.Equal(t, c.want, align(c.offset, c.a), "align(%d, %d)", c.offset, c.a)
	}
}

func TestBuildThunkImage_AppendsLoaderTable(t *testing.T) {
	prims := loaderPrimitives{loadLibraryW: 0x1000, freeLibrary: 0x2000, getProcAddr: 0x3000, getLastError: 0x4000}

	img, err := buildThunkImage(prims)
	require.NoError(t, err)

	code := thunkCode()
	ptrSize := pointerSize()
	tableOffset := align(uintptr(len(code)), ptrSize)

	require.Equal(t, code, img[:len(code)])
	require.Equal(t, int(tableOffset)+int(ptrSize)*4, len(img))

	readPtr := func(off int) uint64 {
		if ptrSize == 8 {
			return binary.LittleEndian.Uint64(img[off:])
		}
		return uint64(binary.LittleEndian.Uint32(img[off:]))
	}
	require.EqualValues(t, prims.loadLibraryW, readPtr(int(tableOffset)))
	require.EqualValues(t, prims.freeLibrary, readPtr(int(tableOffset)+int(ptrSize)))
	require.EqualValues(t, prims.getProcAddr, readPtr(int(tableOffset)+2*int(ptrSize)))
	require.EqualValues(t, prims.getLastError, readPtr(int(tableOffset)+3*int(ptrSize)))
}
