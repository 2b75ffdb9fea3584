//go:build windows

// Package trampoline implements the target-side half of initializer
// marshalling (spec.md §4.5): adapting a user-supplied Go function to the
// thunk-callable ABI `(data **byte, size *usize) -> u32` via a single
// runtime dispatcher fed by a per-argument decode table built once by
// reflection, rather than per-function code generation.
package trampoline

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/winjector/winjector/wire"
)

// fieldPlan is the decode instruction for one argument position, built once
// per target function signature.
type fieldPlan struct {
	name     string
	typ      reflect.Type
	optional bool
}

// Dispatcher is a built-once, reusable decode table plus the user function
// it invokes. Build it during package init; call Invoke from the exported
// trampoline symbol.
type Dispatcher struct {
	fn   reflect.Value
	plan []fieldPlan
}

// Build inspects fn's signature and constructs the per-argument decode
// table (spec.md §9 "Metaprogrammed trampoline", option (c)). fn may take
// any number of arguments, including none, and must return nothing; SharedHandle-typed parameters
// are handled via the SharedHandle decode path instead of the generic codec.
func Build(fn any) (*Dispatcher, error) {
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("trampoline: Build: not a function: %T", fn)
	}
	if t.NumOut() != 0 {
		return nil, fmt.Errorf("trampoline: Build: initializer must return nothing")
	}

	plan := make([]fieldPlan, t.NumIn())
	for i := range plan {
		in := t.In(i)
		plan[i] = fieldPlan{
			name:     fmt.Sprintf("arg%d", i),
			typ:      in,
			optional: false,
		}
	}
	return &Dispatcher{fn: v, plan: plan}, nil
}

// WithOptionalTrailing marks the last n parameters as optional (spec.md
// "Supplemented features" / original_source's init.rs #[skip] marker): an
// argument stream that runs out of frames before one of these is read
// leaves it zero-valued rather than failing.
func (d *Dispatcher) WithOptionalTrailing(n int) *Dispatcher {
	start := len(d.plan) - n
	if start < 0 {
		start = 0
	}
	for i := start; i < len(d.plan); i++ {
		d.plan[i].optional = true
	}
	return d
}

// Run executes spec.md §4.5 steps 2-6 (panic capture, ordered decode, arity
// check, invoke) against a raw argument buffer, returning the encoded
// InitError payload on failure (nil on success). Invoke adds the
// out-parameter handling of steps 1, 7 and 8.
func (d *Dispatcher) Run(buf []byte) (errPayload []byte, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			msg, isString := r.(string)
			if !isString {
				msg = "<non-string panic>"
			}
			errPayload, _ = wire.EncodeInitError(wire.NewPanicError(msg))
			ok = false
		}
	}()

	args := make([]reflect.Value, len(d.plan))
	cursor := 0
	for i, f := range d.plan {
		if cursor >= len(buf) {
			if f.optional {
				args[i] = reflect.Zero(f.typ)
				continue
			}
			payload, _ := wire.EncodeInitError(wire.NewArgumentError(f.name, "argument stream ended early"))
			return payload, false
		}

		if f.typ == sharedHandleType {
			v, n, err := decodeSharedHandle(buf[cursor:])
			if err != nil {
				payload, _ := wire.EncodeInitError(wire.NewArgumentError(f.name, err.Error()))
				return payload, false
			}
			cursor += n
			args[i] = reflect.ValueOf(v)
			continue
		}

		dest := reflect.New(f.typ)
		n, err := wire.DecodeArg(buf[cursor:], dest.Interface())
		if err != nil {
			payload, _ := wire.EncodeInitError(wire.NewArgumentError(f.name, err.Error()))
			return payload, false
		}
		cursor += n
		args[i] = dest.Elem()
	}

	if cursor != len(buf) {
		payload, _ := wire.EncodeInitError(wire.NewTooManyArgumentsError())
		return payload, false
	}

	d.fn.Call(args)
	return nil, true
}

// Invoke is the actual thunk-callable ABI entry point (spec.md §4.5 steps
// 1, 7, 8): data and size are the target-process addresses of the thunk's
// user_data_ptr and user_data_len fields. A real build exposes this, or a
// thin per-module wrapper around it, as the module's named initializer
// export.
func (d *Dispatcher) Invoke(data *uintptr, size *uintptr) uint32 {
	if data == nil || size == nil {
		return 0
	}

	var buf []byte
	if *data != 0 && *size != 0 {
		buf = unsafe.Slice((*byte)(unsafe.Pointer(*data)), int(*size))
	}

	payload, ok := d.Run(buf)
	if ok {
		*data, *size = 0, 0
		return 1
	}

	if addr, n, allocated := allocErrorPayload(payload); allocated {
		*data, *size = addr, n
	} else {
		*data, *size = 0, 0
	}
	return 0
}
