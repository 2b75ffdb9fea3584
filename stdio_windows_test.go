//go:build windows

package winjector

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows"
)

func TestResolveStdio_Null(t *testing.T) {
	ep, err := resolveStdio(streamStdout, Null())
	require.NoError(t, err)
	defer closeEndpoints(ep)

	require.NotEqual(t, windows.InvalidHandle, ep.childSide)
	require.Equal(t, windows.InvalidHandle, ep.parentSide)
	require.Len(t, ep.ownedByUs, 1)
}

func TestResolveStdio_PipeGivesDistinctChildAndParentEnds(t *testing.T) {
	ep, err := resolveStdio(streamStdout, MakePipe())
	require.NoError(t, err)
	defer windows.CloseHandle(ep.parentSide)
	defer closeEndpoints(ep)

	require.NotEqual(t, ep.childSide, ep.parentSide)

	// for stdout the child writes, so the child side must be the pipe's
	// write end and the parent side the read end.
	msg := []byte("pong")
	var written uint32
	require.NoError(t, windows.WriteFile(ep.childSide, msg, &written, nil))

	buf := make([]byte, len(msg))
	var read uint32
	require.NoError(t, windows.ReadFile(ep.parentSide, buf, &read, nil))
	require.Equal(t, msg, buf[:read])
}

func TestResolveStdio_StdinPipeOrientation(t *testing.T) {
	ep, err := resolveStdio(streamStdin, MakePipe())
	require.NoError(t, err)
	defer windows.CloseHandle(ep.parentSide)
	defer closeEndpoints(ep)

	// for stdin the child reads, so the child side must be the pipe's read
	// end and the parent side the write end; writing to the parent side must
	// be visible to a read from the child side.
	msg := []byte("ping")
	var written uint32
	require.NoError(t, windows.WriteFile(ep.parentSide, msg, &written, nil))
	require.EqualValues(t, len(msg), written)

	buf := make([]byte, len(msg))
	var read uint32
	require.NoError(t, windows.ReadFile(ep.childSide, buf, &read, nil))
	require.Equal(t, msg, buf[:read])
}

func TestResolveStdio_RawHandlePassesThrough(t *testing.T) {
	ev, err := windows.CreateEvent(nil, 1, 0, nil)
	require.NoError(t, err)
	defer windows.CloseHandle(ev)

	ep, err := resolveStdio(streamStdout, RawHandle(WrapHandle(ev)))
	require.NoError(t, err)
	require.Equal(t, ev, ep.childSide)
	require.Empty(t, ep.ownedByUs) // RawHandle callers retain ownership
}

func TestResolveStdio_UnknownModeErrors(t *testing.T) {
	_, err := resolveStdio(streamStdout, Stdio{mode: StdioMode(99)})
	require.Error(t, err)
}
