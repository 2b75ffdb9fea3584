//go:build 386

package winjector

import _ "embed"

// thunk_386.bin is the position-independent x86 bootstrap payload, built the
// same way as thunk_amd64.bin but targeting 32-bit pointer widths -- needed
// only when the injector itself is a 32-bit process targeting a WOW64 target
// (spec.md §4.4).
//
//go:embed thunk_386.bin
var thunkBytes386 []byte

func thunkCode() []byte { return thunkBytes386 }
