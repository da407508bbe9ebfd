package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pyrl-lang/pyrl/internal/config"
	"github.com/pyrl-lang/pyrl/internal/vm"
)

// summaryWidth is the column width of the pass/fail table's divider.
const summaryWidth = 80

// NewTestCmd adds `pyrl test <path>`: loads a file, runs every registered
// `test` block, and prints a single-column pass/fail table with a final
// totals line.
func NewTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <path>",
		Short: "Run a Pyrl file's test blocks and report pass/fail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(args[0])
		},
	}
}

func runTests(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	limits, err := config.Load(configPath)
	if err != nil {
		return err
	}
	v := vm.NewWithLimits(limits)

	res := v.Execute(string(src))
	if !res.OK {
		fmt.Fprintf(os.Stderr, "%s: %s\n", color.RedString(res.Error.Kind), res.Error.Message)
		return fmt.Errorf("%s failed before any test ran", path)
	}

	summary := v.RunTests()
	messages := make(map[string]string, len(summary.Failures))
	for _, f := range summary.Failures {
		messages[f.Label] = f.Message
	}

	divider := strings.Repeat("-", summaryWidth)
	fmt.Println(divider)
	for _, r := range summary.Results {
		printVerdict(r.Label, r.Passed, messages[r.Label])
	}
	fmt.Println(divider)
	fmt.Printf("%d total, %d passed, %d failed\n", summary.Total, summary.Passed, summary.Failed)

	if summary.Failed > 0 {
		return fmt.Errorf("%d test(s) failed", summary.Failed)
	}
	return nil
}

func printVerdict(label string, passed bool, message string) {
	verdict := color.GreenString("passed")
	if !passed {
		verdict = color.RedString("failed")
	}
	spacing := strings.Repeat(" ", max(1, summaryWidth-len("  [passed] ")-len(label)))
	fmt.Printf("  [%s] %s%s\n", verdict, label, spacing)
	if message != "" {
		fmt.Println("   ", message)
	}
}
