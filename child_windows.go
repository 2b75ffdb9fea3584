//go:build windows

package winjector

import (
	"bytes"
	"io"
	"os"
	"sync"

	"golang.org/x/sys/windows"
)

// Child wraps a live, resumed process: its handle, OS-assigned id, a cached
// terminal exit status set after the first successful wait, and up to three
// optional stdio endpoints (spec.md §3 "Child").
type Child struct {
	proc windows.Handle
	pid  uint32

	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	mu       sync.Mutex
	exited   bool
	exitCode uint32
}

// Pid returns the OS-assigned process id.
func (c *Child) Pid() uint32 { return c.pid }

// Stdin returns the parent-side write end, or nil if stdin was not piped.
func (c *Child) Stdin() io.WriteCloser { return c.stdin }

// Stdout returns the parent-side read end, or nil if stdout was not piped.
func (c *Child) Stdout() io.ReadCloser { return c.stdout }

// Stderr returns the parent-side read end, or nil if stderr was not piped.
func (c *Child) Stderr() io.ReadCloser { return c.stderr }

// Wait blocks until the child exits and returns its exit code. Calling Wait
// more than once returns the cached result of the first call.
func (c *Child) Wait() (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.exited {
		return c.exitCode, nil
	}
	if _, err := windows.WaitForSingleObject(c.proc, windows.INFINITE); err != nil {
		return 0, newError("Child.Wait", KindIO, err)
	}
	var code uint32
	if err := windows.GetExitCodeProcess(c.proc, &code); err != nil {
		return 0, newError("Child.Wait", KindIO, err)
	}
	c.exited = true
	c.exitCode = code
	return code, nil
}

// Kill forcibly terminates the child with exit code 1.
func (c *Child) Kill() error {
	if err := windows.TerminateProcess(c.proc, 1); err != nil {
		return newError("Child.Kill", KindIO, err)
	}
	return nil
}

// Output runs the child to completion, collecting stdout; stdin and stderr
// must not be piped for this to make sense -- callers wanting both streams
// should use WaitWithOutput.
func (c *Child) Output() ([]byte, error) {
	var buf bytes.Buffer
	if c.stdout != nil {
		if _, err := io.Copy(&buf, c.stdout); err != nil {
			return nil, newError("Child.Output", KindIO, err)
		}
	}
	if _, err := c.Wait(); err != nil {
		return buf.Bytes(), err
	}
	return buf.Bytes(), nil
}

// WaitWithOutput drains stdout and stderr concurrently with the wait, so a
// child that fills one pipe's buffer cannot deadlock against the other
// (spec.md §5 "it may also spin a helper thread per captured output pipe").
func (c *Child) WaitWithOutput() (stdout, stderr []byte, err error) {
	var wg sync.WaitGroup
	var outBuf, errBuf bytes.Buffer

	if c.stdout != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			io.Copy(&outBuf, c.stdout)
		}()
	}
	if c.stderr != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			io.Copy(&errBuf, c.stderr)
		}()
	}

	_, waitErr := c.Wait()
	wg.Wait()
	return outBuf.Bytes(), errBuf.Bytes(), waitErr
}

// pipeFile wraps a raw Win32 pipe handle as an *os.File so callers get the
// familiar io.Reader/io.Writer/io.Closer surface.
func pipeFile(h windows.Handle, name string) *os.File {
	return os.NewFile(uintptr(h), name)
}
