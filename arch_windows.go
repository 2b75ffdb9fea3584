//go:build windows

package winjector

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// checkBitness refuses mismatched-bitness injection before any state is
// mutated (spec.md §4.4): a 32-bit injector may only target a 32-bit process
// (a WOW64 process, on a 64-bit host); a 64-bit injector may only target a
// native 64-bit process. The thunk embeds native-width pointers resolved in
// the injector's own address space, valid in the target only when both
// share the same loader mapping.
func checkBitness(target windows.Handle) error {
	self64 := pointerSize() == 8

	var targetIs32 bool
	if err := windows.IsWow64Process(target, &targetIs32); err != nil {
		return newError("checkBitness", KindBitness, err)
	}

	if self64 && targetIs32 {
		return newError("checkBitness", KindBitness, fmt.Errorf("64-bit injector cannot target a 32-bit (WOW64) process"))
	}
	if !self64 && !targetIs32 {
		// A non-WOW64 target is native 64-bit only on a 64-bit host, which
		// is exactly when this 32-bit injector itself runs under WOW64.
		var selfIs32 bool
		if err := windows.IsWow64Process(windows.CurrentProcess(), &selfIs32); err != nil {
			return newError("checkBitness", KindBitness, err)
		}
		if selfIs32 {
			return newError("checkBitness", KindBitness, fmt.Errorf("32-bit injector cannot target a native 64-bit process"))
		}
	}
	return nil
}
