//go:build windows

package winjector

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// kernel32Lazy resolves the loader module (kernel32.dll) by its well-known
// name, matching prompt/reader_windows.go's syscall.NewLazyDLL idiom but
// using the typed x/sys/windows lazy-DLL wrapper since these four symbols
// are all plain exports.
var kernel32Lazy = windows.NewLazySystemDLL("kernel32.dll")

// resolveLoaderPrimitives looks up the four loader-primitive symbols by name
// in the current process (spec.md §4.3 steps 1-2). Because the loader module
// is mapped at the same base in parent and target, the addresses resolved
// here are valid in the target without further fix-up -- the reason
// checkBitness must run first.
func resolveLoaderPrimitives() (loaderPrimitives, error) {
	names := [4]string{"LoadLibraryW", "FreeLibrary", "GetProcAddress", "GetLastError"}
	var addrs [4]uintptr
	for i, name := range names {
		proc := kernel32Lazy.NewProc(name)
		if err := proc.Find(); err != nil {
			return loaderPrimitives{}, newError("resolveLoaderPrimitives", KindIO, fmt.Errorf("%s: %w", name, err))
		}
		addrs[i] = proc.Addr()
	}
	return loaderPrimitives{
		loadLibraryW: addrs[0],
		freeLibrary:  addrs[1],
		getProcAddr:  addrs[2],
		getLastError: addrs[3],
	}, nil
}
