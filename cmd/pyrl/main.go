// Command pyrl runs Pyrl source from a file, from an inline `-c` string,
// or interactively from a REPL when given neither, all built on the
// internal/vm embedding surface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	inline     string
	configPath string
)

// NewRootCmd builds the `pyrl` root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pyrl [path]",
		Short: "Run Pyrl scripts",
		Long: `pyrl executes Pyrl source: a file given as an argument, an inline
program via -c, or an interactive REPL when given neither.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInterp,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML runtime-limits file")
	cmd.Flags().StringVarP(&inline, "c", "c", "", "execute the given source inline instead of a file")
	cmd.AddCommand(NewTestCmd())
	return cmd
}
