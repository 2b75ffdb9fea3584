//go:build windows

// Command winjector is a CLI front-end over Command/Module/Injector: spawn a
// suspended child process, inject one or more modules into it, then resume,
// matching spec.md §4.8 end to end.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/winjector/winjector"
)

var (
	modulePaths []string
	initName    string
	initArgs    []string
	workDir     string
	quiet       bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "winjector [flags] -- program [args...]",
	Short: "Spawn a process suspended, inject modules, then resume it",
	Long: `winjector creates a child process with its primary thread suspended,
injects zero or more dynamic modules into it, then resumes the child so
injected code runs before the child's own entry point.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSpawn,
}

func init() {
	rootCmd.Flags().StringArrayVarP(&modulePaths, "module", "m", nil, "path to a module to inject (repeatable)")
	rootCmd.Flags().StringVar(&initName, "init", "", "initializer symbol name shared by every --module")
	rootCmd.Flags().StringArrayVar(&initArgs, "arg", nil, "string argument passed to the initializer (repeatable)")
	rootCmd.Flags().StringVar(&workDir, "dir", "", "working directory for the child process")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress winjector's own logging")
}

func runSpawn(cmd *cobra.Command, args []string) error {
	if !quiet {
		winjector.SetLogger(winjector.NewTextLogger())
	}

	program := args[0]
	progArgs := args[1:]

	c := winjector.NewCommand(program, progArgs...)
	if workDir != "" {
		c.Dir(workDir)
	}

	for _, path := range modulePaths {
		mb := winjector.NewModule(path)
		if initName != "" {
			mb.Init(initName)
			for _, a := range initArgs {
				mb.Arg(a)
			}
		}
		built, err := mb.Build()
		if err != nil {
			return fmt.Errorf("winjector: building module %s: %w", path, err)
		}
		c.Module(built)
	}

	child, err := c.Spawn()
	if err != nil {
		return fmt.Errorf("winjector: spawn: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "spawned pid %d\n", child.Pid())

	code, err := child.Wait()
	if err != nil {
		return fmt.Errorf("winjector: wait: %w", err)
	}
	if code != 0 {
		os.Exit(int(code))
	}
	return nil
}
