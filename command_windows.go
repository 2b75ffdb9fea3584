//go:build windows

package winjector

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// Command mirrors a familiar process builder: program path, argument
// vector, optional environment, optional working directory, ordered list of
// modules to inject, and per-stream stdio configuration (spec.md §4.8).
type Command struct {
	program string
	args    []string
	env     *Env
	dir     string

	modules []*BuiltModule

	stdin  Stdio
	stdout Stdio
	stderr Stdio
}

// NewCommand starts a Command for program.
func NewCommand(program string, args ...string) *Command {
	return &Command{
		program: program,
		args:    args,
		stdin:   Inherit(),
		stdout:  Inherit(),
		stderr:  Inherit(),
	}
}

// Env sets the child's environment block. A nil Env (the default) inherits
// the parent's environment, per CreateProcess semantics.
func (c *Command) Env(env *Env) *Command {
	c.env = env
	return c
}

// Dir sets the child's working directory. Empty inherits the parent's.
func (c *Command) Dir(dir string) *Command {
	c.dir = dir
	return c
}

// Module queues a built module for injection, in call order, once the child
// has been created suspended.
func (c *Command) Module(m *BuiltModule) *Command {
	c.modules = append(c.modules, m)
	return c
}

// Stdin configures the child's standard input stream.
func (c *Command) Stdin(s Stdio) *Command { c.stdin = s; return c }

// Stdout configures the child's standard output stream.
func (c *Command) Stdout(s Stdio) *Command { c.stdout = s; return c }

// Stderr configures the child's standard error stream.
func (c *Command) Stderr(s Stdio) *Command { c.stderr = s; return c }

// Spawn implements the suspended-spawn pipeline (spec.md §4.8): create the
// child with its primary thread suspended, inject every queued module, then
// resume. Any failure between process creation and successful resume
// terminates the child -- callers never observe a half-initialized process.
func (c *Command) Spawn() (*Child, error) {
	stdinEP, err := resolveStdio(streamStdin, c.stdin)
	if err != nil {
		return nil, err
	}
	stdoutEP, err := resolveStdio(streamStdout, c.stdout)
	if err != nil {
		closeEndpoints(stdinEP)
		closeParentSides(stdinEP)
		return nil, err
	}
	stderrEP, err := resolveStdio(streamStderr, c.stderr)
	if err != nil {
		closeEndpoints(stdinEP, stdoutEP)
		closeParentSides(stdinEP, stdoutEP)
		return nil, err
	}

	attrList, err := newInheritListAttribute([]windows.Handle{stdinEP.childSide, stdoutEP.childSide, stderrEP.childSide})
	if err != nil {
		closeEndpoints(stdinEP, stdoutEP, stderrEP)
		closeParentSides(stdinEP, stdoutEP, stderrEP)
		return nil, err
	}
	defer attrList.Delete()

	cmdLine := buildCommandLine(c.program, c.args)
	cmdLinePtr, err := windows.UTF16PtrFromString(cmdLine)
	if err != nil {
		closeEndpoints(stdinEP, stdoutEP, stderrEP)
		closeParentSides(stdinEP, stdoutEP, stderrEP)
		return nil, newError("Spawn", KindIO, err)
	}

	var dirPtr *uint16
	if c.dir != "" {
		dirPtr, err = windows.UTF16PtrFromString(c.dir)
		if err != nil {
			closeEndpoints(stdinEP, stdoutEP, stderrEP)
			closeParentSides(stdinEP, stdoutEP, stderrEP)
			return nil, newError("Spawn", KindIO, err)
		}
	}

	var envBlock *uint16
	if c.env != nil {
		blk := c.env.encode()
		if len(blk) > 0 {
			envBlock = &blk[0]
		}
	}

	si := &windows.StartupInfoEx{}
	si.Cb = uint32(unsafe.Sizeof(*si))
	si.Flags = windows.STARTF_USESTDHANDLES
	si.StdInput = stdinEP.childSide
	si.StdOutput = stdoutEP.childSide
	si.StdErr = stderrEP.childSide
	si.ProcThreadAttributeList = attrList.List()

	var pi windows.ProcessInformation
	flags := uint32(windows.CREATE_UNICODE_ENVIRONMENT | windows.CREATE_SUSPENDED | windows.EXTENDED_STARTUPINFO_PRESENT)

	err = windows.CreateProcess(
		nil, cmdLinePtr, nil, nil, true, flags, envBlock, dirPtr,
		(*windows.StartupInfo)(unsafe.Pointer(si)), &pi,
	)
	closeEndpoints(stdinEP, stdoutEP, stderrEP)
	if err != nil {
		closeParentSides(stdinEP, stdoutEP, stderrEP)
		return nil, newError("CreateProcess", KindIO, err)
	}

	guard := newProcessGuard(pi.Process)
	defer guard.disarmOrKill()
	defer windows.CloseHandle(pi.Thread)

	if len(c.modules) > 0 {
		in, err := NewInjector(pi.Process)
		if err != nil {
			closeParentSides(stdinEP, stdoutEP, stderrEP)
			return nil, err
		}
		for _, m := range c.modules {
			if err := in.Inject(m); err != nil {
				in.Close()
				closeParentSides(stdinEP, stdoutEP, stderrEP)
				return nil, err
			}
		}
		if err := in.Close(); err != nil {
			closeParentSides(stdinEP, stdoutEP, stderrEP)
			return nil, err
		}
	}

	if _, err := windows.ResumeThread(pi.Thread); err != nil {
		closeParentSides(stdinEP, stdoutEP, stderrEP)
		return nil, newError("ResumeThread", KindIO, err)
	}

	guard.release()

	child := &Child{proc: pi.Process, pid: pi.ProcessId}
	if stdinEP.parentSide != windows.InvalidHandle && stdinEP.parentSide != 0 {
		child.stdin = pipeFile(stdinEP.parentSide, "stdin")
	}
	if stdoutEP.parentSide != windows.InvalidHandle && stdoutEP.parentSide != 0 {
		child.stdout = pipeFile(stdoutEP.parentSide, "stdout")
	}
	if stderrEP.parentSide != windows.InvalidHandle && stderrEP.parentSide != 0 {
		child.stderr = pipeFile(stderrEP.parentSide, "stderr")
	}

	currentLogger().Info("spawned child", "pid", child.pid, "modules", len(c.modules))
	return child, nil
}

func closeEndpoints(eps ...stdioEndpoint) {
	for _, ep := range eps {
		for _, h := range ep.ownedByUs {
			windows.CloseHandle(h)
		}
	}
}

// closeParentSides closes the parent-side halves of any piped endpoints.
// Used on failure paths after CreateProcess has already consumed (and
// closeEndpoints has already released) the child-side handles: without this,
// a failed injection or resume would leak the pipe ends the caller never got
// a chance to adopt into a Child.
func closeParentSides(eps ...stdioEndpoint) {
	for _, ep := range eps {
		if ep.parentSide != windows.InvalidHandle && ep.parentSide != 0 {
			windows.CloseHandle(ep.parentSide)
		}
	}
}
