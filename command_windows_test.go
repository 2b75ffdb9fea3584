//go:build windows

package winjector

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows"
)

// Scenario 1 of spec.md §8 (minus the injected module, which needs a real
// compiled DLL asset this repository does not ship): a suspended spawn with
// no modules queued resumes and exits with the child's own status.
func TestCommand_SpawnNoModulesPropagatesExitCode(t *testing.T) {
	c := NewCommand("cmd.exe", "/C", "exit", "7")
	child, err := c.Spawn()
	require.NoError(t, err)

	code, err := child.Wait()
	require.NoError(t, err)
	require.EqualValues(t, 7, code)
}

func TestCommand_StdoutPipeCapturesChildOutput(t *testing.T) {
	c := NewCommand("cmd.exe", "/C", "echo", "hello").Stdout(MakePipe())
	child, err := c.Spawn()
	require.NoError(t, err)

	scanner := bufio.NewScanner(child.Stdout())
	require.True(t, scanner.Scan())
	require.True(t, strings.Contains(scanner.Text(), "hello"))

	_, err = child.Wait()
	require.NoError(t, err)
}

func TestCommand_EnvIsVisibleToChild(t *testing.T) {
	env := NewEnv().Set("WINJECTOR_TEST_VAR", "sentinel")
	c := NewCommand("cmd.exe", "/C", "echo", "%WINJECTOR_TEST_VAR%").
		Env(env).
		Stdout(MakePipe())
	child, err := c.Spawn()
	require.NoError(t, err)

	scanner := bufio.NewScanner(child.Stdout())
	require.True(t, scanner.Scan())
	require.Equal(t, "sentinel", strings.TrimSpace(scanner.Text()))

	_, err = child.Wait()
	require.NoError(t, err)
}

// Scenario 6 of spec.md §8: a bitness check against the current process (by
// construction, bitness-matched) never errors.
func TestCheckBitness_SelfProcessMatches(t *testing.T) {
	require.NoError(t, checkBitness(windows.CurrentProcess()))
}
