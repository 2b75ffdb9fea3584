// Package winjector injects a loadable module into a foreign Win32 process
// and, optionally, calls a named exported initializer inside that module
// with a serialized argument list and/or duplicated kernel handles.
//
// Three subsystems do the work: the remote-thread bootstrap
// (handle_windows.go, memory_windows.go, thunk.go, thunk_windows.go,
// injector_windows.go), the initializer trampoline and argument marshalling
// consumed by the injected module itself (package trampoline), and the
// suspended-spawn pipeline that guarantees injected modules load before a
// freshly spawned child's own entry point runs (command_windows.go,
// child_windows.go, stdio_windows.go).
//
// This package is Win32-only: injecting across architectures, across OSes,
// or into a process of different bitness than the caller is not supported.
package winjector
