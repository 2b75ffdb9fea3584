//go:build windows

package winjector

import (
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/winjector/winjector/wire"
)

// argEntry is one queued Module argument: either a pre-serialized blob or a
// handle awaiting cross-process duplication at copy time (spec.md §4.6).
type argEntry struct {
	blob   []byte
	handle *Handle
}

// Module is a fluent descriptor of one injectable unit: an absolute module
// path, an optional initializer name, and an ordered argument list. Modules
// are immutable once built and may be injected multiple times (spec.md §3).
type Module struct {
	path     string
	initName string
	hasInit  bool
	args     []argEntry
	err      error
}

// NewModule starts a Module descriptor for the module file at path.
func NewModule(path string) *Module {
	return &Module{path: path}
}

// Init names the exported initializer symbol to call after load.
func (m *Module) Init(name string) *Module {
	m.initName = name
	m.hasInit = true
	return m
}

// Arg serializes value with the wire codec and queues it as the next
// argument. Serialization errors are deferred to Build.
func (m *Module) Arg(value any) *Module {
	b, err := wire.EncodeArg(value)
	if err != nil {
		if m.err == nil {
			m.err = newError("Module.Arg", KindDeserialize, err)
		}
		return m
	}
	m.args = append(m.args, argEntry{blob: b})
	return m
}

// Handle queues h for cross-process duplication into the target at copy
// time; its duplicated value is appended to the argument stream as a
// target-width unsigned integer (spec.md §4.6 step 1).
func (m *Module) Handle(h *Handle) *Module {
	m.args = append(m.args, argEntry{handle: h})
	return m
}

// BuiltModule is an immutable, injection-ready Module.
type BuiltModule struct {
	path     string
	initName string
	hasInit  bool
	args     []argEntry
}

// Build finalizes the descriptor. A deferred Arg encoding error surfaces here.
func (m *Module) Build() (*BuiltModule, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &BuiltModule{path: m.path, initName: m.initName, hasInit: m.hasInit, args: m.args}, nil
}

func utf16ToBytes(s string) []byte {
	u := utf16.Encode([]rune(s))
	u = append(u, 0)
	b := make([]byte, len(u)*2)
	for i, v := range u {
		b[2*i] = byte(v)
		b[2*i+1] = byte(v >> 8)
	}
	return b
}

// copyToProcess materializes the parameter block in target and returns the
// owning remote-memory region plus the foreign address of the block
// (spec.md §4.6 steps 1-6).
func (m *BuiltModule) copyToProcess(target windows.Handle) (*Region, uintptr, error) {
	pathBytes := utf16ToBytes(m.path)

	var initBytes []byte
	if m.hasInit {
		initBytes = utf16ToBytes(m.initName)
	}

	argBytes, err := m.serializeArgs(target)
	if err != nil {
		return nil, 0, err
	}

	// Write aligns the parameter block to its natural alignment, so leave
	// room for the padding that may precede it.
	total := uintptr(len(pathBytes)) + uintptr(len(initBytes)) + uintptr(len(argBytes)) +
		unsafe.Sizeof(paramBlock{}) + unsafe.Alignof(paramBlock{}) - 1

	region, err := NewRegion(target, total, false)
	if err != nil {
		return nil, 0, err
	}

	pathPtr, err := WriteBytes(region, pathBytes)
	if err != nil {
		region.Close()
		return nil, 0, err
	}

	var initPtr uintptr
	if m.hasInit {
		initPtr, err = WriteBytes(region, initBytes)
		if err != nil {
			region.Close()
			return nil, 0, err
		}
	}

	var userDataPtr uintptr
	var userDataLen uintptr
	if len(argBytes) > 0 {
		userDataPtr, err = WriteBytes(region, argBytes)
		if err != nil {
			region.Close()
			return nil, 0, err
		}
		userDataLen = uintptr(len(argBytes))
	}

	block := paramBlock{
		ModulePathPtr: pathPtr,
		InitNamePtr:   initPtr,
		UserDataPtr:   userDataPtr,
		UserDataLen:   userDataLen,
	}
	blockPtr, err := Write(region, block)
	if err != nil {
		region.Close()
		return nil, 0, err
	}

	return region, blockPtr, nil
}

// serializeArgs appends the queued arguments in declared order: blobs
// verbatim, handles duplicated into target and appended as a target-width
// unsigned integer (spec.md §4.6 step 1, §6 "Argument stream").
func (m *BuiltModule) serializeArgs(target windows.Handle) ([]byte, error) {
	var out []byte
	for _, a := range m.args {
		if a.handle != nil {
			dup, err := DuplicateTo(target, a.handle.Raw(), false)
			if err != nil {
				return nil, err
			}
			out = append(out, wire.EncodeHandle(uint64(dup))...)
			continue
		}
		out = append(out, a.blob...)
	}
	return out, nil
}
