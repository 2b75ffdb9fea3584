package winjector

import (
	"encoding/binary"
	"unsafe"
)

// loaderPrimitives names the four Win32 loader primitives the thunk needs
// resolved in the injector's address space, in wire order (spec.md §6):
// module-load-wide, module-free, symbol-address, last-error.
type loaderPrimitives struct {
	loadLibraryW uintptr
	freeLibrary  uintptr
	getProcAddr  uintptr
	getLastError uintptr
}

func pointerSize() uintptr { return unsafe.Sizeof(uintptr(0)) }

// align rounds offset up to the next multiple of a (a must be a power of two).
func align(offset, a uintptr) uintptr {
	if a == 0 {
		return offset
	}
	return (offset + a - 1) &^ (a - 1)
}

func buildThunkImage(p loaderPrimitives) ([]byte, error) {
	code := thunkCode()
	ptrSize := pointerSize()
	tableOffset := align(uintptr(len(code)), ptrSize)
	buf := make([]byte, int(tableOffset)+int(ptrSize)*4)
	copy(buf, code)

	values := [4]uintptr{p.loadLibraryW, p.freeLibrary, p.getProcAddr, p.getLastError}
	for i, v := range values {
		off := int(tableOffset) + i*int(ptrSize)
		if ptrSize == 8 {
			binary.LittleEndian.PutUint64(buf[off:], uint64(v))
		} else {
			binary.LittleEndian.PutUint32(buf[off:], uint32(v))
		}
	}
	return buf, nil
}
