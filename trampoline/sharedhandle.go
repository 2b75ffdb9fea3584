//go:build windows

package trampoline

import (
	"fmt"
	"reflect"

	"golang.org/x/sys/windows"

	"github.com/winjector/winjector/wire"
)

// SharedHandle is the argument type for a handle duplicated into the target
// by the module builder (spec.md §4.5 "Special argument type"): it
// deserializes a target-width integer off the argument stream and
// reconstitutes it as an owning kernel-handle value in the target process.
type SharedHandle struct {
	windows.Handle
}

var sharedHandleType = reflect.TypeOf(SharedHandle{})

func decodeSharedHandle(buf []byte) (SharedHandle, int, error) {
	v, n, err := wire.DecodeHandle(buf)
	if err != nil {
		return SharedHandle{}, 0, fmt.Errorf("shared handle: %w", err)
	}
	return SharedHandle{Handle: windows.Handle(v)}, n, nil
}

// Close releases the kernel object this value owns inside the target
// process. The initializer is responsible for calling Close exactly once.
func (h SharedHandle) Close() error {
	return windows.CloseHandle(h.Handle)
}
