package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pyrl-lang/pyrl/internal/config"
	"github.com/pyrl-lang/pyrl/internal/vm"
)

// runInterp dispatches to file mode, inline mode, or the REPL depending on
// what the command line gave it.
func runInterp(cmd *cobra.Command, args []string) error {
	limits, err := config.Load(configPath)
	if err != nil {
		return err
	}
	v := vm.NewWithLimits(limits)

	switch {
	case inline != "":
		return runSource(v, inline, "-c")
	case len(args) == 1:
		src, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		return runSource(v, string(src), args[0])
	default:
		return runREPL(v)
	}
}

// runSource executes one program to completion and reports its kind,
// message, and source location on failure.
func runSource(v *vm.VM, source, label string) error {
	res := v.Execute(source)
	if res.Stdout != "" {
		fmt.Print(res.Stdout)
	}
	if !res.OK {
		fmt.Fprintf(os.Stderr, "%s: %s at %s:%d:%d\n",
			color.RedString(res.Error.Kind), res.Error.Message, label, res.Error.Line, res.Error.Col)
		return fmt.Errorf("%s failed", label)
	}
	return nil
}

// runREPL implements the no-argument interactive mode: each line is
// executed against the same accumulated VM state, so a variable bound on
// one line is visible on the next.
func runREPL(v *vm.VM) error {
	fmt.Println("pyrl", vm.Version())
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(">>> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		res := v.Execute(line)
		if res.Stdout != "" {
			fmt.Print(res.Stdout)
		}
		if !res.OK {
			fmt.Fprintf(os.Stderr, "%s: %s\n", color.RedString(res.Error.Kind), res.Error.Message)
			continue
		}
		if res.Value != "None" {
			fmt.Println(res.Value)
		}
	}
}
