package winjector

import _ "embed"

// thunk_amd64.bin is the position-independent x86-64 bootstrap payload
// (spec.md §6): its first byte is the thread-procedure entry point, and it
// references the trailing loader-primitive table via PC-relative offsets
// fixed at assembly time. The real payload is produced by an external
// assembler at build time and is out of scope for this repository (spec.md
// §1, "Out of scope"); the embedded asset here is the documented stub that a
// real build pipeline replaces.
//
//go:embed thunk_amd64.bin
var thunkBytesAMD64 []byte

func thunkCode() []byte { return thunkBytesAMD64 }
