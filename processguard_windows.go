//go:build windows

package winjector

import (
	"golang.org/x/sys/windows"
)

// processGuard terminates a suspended child on any failure between creation
// and a successful resume, so injection can never leave a half-initialized
// process alive (spec.md §4.8, §9 "Process guard"). Its termination path
// must be infallible: disarmOrKill never returns an error it expects the
// caller to act on.
type processGuard struct {
	process windows.Handle
	armed   bool
}

func newProcessGuard(process windows.Handle) *processGuard {
	return &processGuard{process: process, armed: true}
}

// release disarms the guard: the child survives past this point.
func (g *processGuard) release() {
	g.armed = false
}

// disarmOrKill must be called exactly once, typically via defer, after the
// resume attempt. If the guard is still armed it terminates the child;
// errors from TerminateProcess are logged, not returned, since there is no
// meaningful recovery left to attempt.
func (g *processGuard) disarmOrKill() {
	if !g.armed {
		return
	}
	g.armed = false
	if err := windows.TerminateProcess(g.process, 1); err != nil {
		currentLogger().Warn("process guard: failed to terminate half-initialized child", "err", err)
	}
}
