package winjector

// statusCode enumerates the remote thread's possible exit codes (spec.md §3, §6).
type statusCode uint32

const (
	statusSuccess statusCode = iota
	statusLoadFailed
	statusInitNotFound
	statusInitFailed
)

// paramBlock mirrors the packed, target-endian parameter block written into
// the target's address space and passed as the thunk's single thread
// argument (spec.md §3). Field order and width must exactly match what
// thunk_amd64.bin/thunk_386.bin were assembled against -- do not reorder.
type paramBlock struct {
	ModulePathPtr uintptr // pointer-in-target: zero-terminated wide module path
	InitNamePtr   uintptr // pointer-in-target or 0: zero-terminated wide initializer name
	UserDataPtr   uintptr // pointer-in-target or 0: argument stream / init-error payload
	UserDataLen   uintptr // length in bytes of *UserDataPtr
	LastError     uint32  // written by the thunk on LoadFailed/InitNotFound
}
