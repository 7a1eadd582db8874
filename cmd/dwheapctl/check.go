package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpaquette/dwheap"
)

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <trace>",
		Short: "Replay a trace, validating invariants after every operation",
		Long: `The check command replays an allocation trace the same way run does,
but calls the invariant checker after every single operation rather than
only at the end, and reports the first violation found along with the
trace line that produced it.

Example:
  dwheapctl check workload.trace
  dwheapctl check --json workload.trace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args)
		},
	}
	return cmd
}

func runCheck(args []string) error {
	tracePath := args[0]

	f, err := os.Open(tracePath)
	if err != nil {
		return fmt.Errorf("opening trace: %w", err)
	}
	defer f.Close()

	ops, err := parseTrace(f)
	if err != nil {
		return err
	}

	a, err := newArena(heapPages)
	if err != nil {
		return fmt.Errorf("reserving arena: %w", err)
	}
	h, err := dwheap.New(a)
	if err != nil {
		return fmt.Errorf("creating heap: %w", err)
	}

	var firstViolationLine int
	var findings []*findingView

	check := func(afterLine int) error {
		fs := h.Check(false)
		if len(fs) == 0 {
			return nil
		}
		if firstViolationLine == 0 {
			firstViolationLine = afterLine
			for _, violation := range fs {
				findings = append(findings, &findingView{
					Type:    violation.Type,
					Message: violation.Message,
					Offset:  violation.Offset,
				})
			}
		}
		return fmt.Errorf("invariant violated after line %d: %s", afterLine, fs[0].Error())
	}

	stats, replayErr := replayTrace(h, ops, check)

	result := checkResult{
		Trace:              tracePath,
		OperationsReplayed: stats.Allocs + stats.ZeroAllocs + stats.Reallocs + stats.Frees,
		Valid:              replayErr == nil,
		FirstViolationLine: firstViolationLine,
		Findings:           findings,
	}
	if replayErr != nil {
		result.Error = replayErr.Error()
	}

	if jsonOut {
		if err := printJSON(result); err != nil {
			return err
		}
		if !result.Valid {
			os.Exit(1)
		}
		return nil
	}

	printInfo("\nChecking %s...\n\n", tracePath)
	printInfo("Operations replayed: %d\n", result.OperationsReplayed)
	if result.Valid {
		printInfo("  all invariants held after every operation\n")
		printInfo("\nResult: VALID\n")
		return nil
	}

	printInfo("  first violation after line %d:\n", firstViolationLine)
	for _, finding := range findings {
		printInfo("    [%s] %s (offset %d)\n", finding.Type, finding.Message, finding.Offset)
	}
	printInfo("\nResult: INVALID\n")
	os.Exit(1)
	return nil
}

type findingView struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Offset  int32  `json:"offset"`
}

type checkResult struct {
	Trace              string         `json:"trace"`
	OperationsReplayed int            `json:"operations_replayed"`
	Valid              bool           `json:"valid"`
	FirstViolationLine int            `json:"first_violation_line,omitempty"`
	Findings           []*findingView `json:"findings,omitempty"`
	Error              string         `json:"error,omitempty"`
}
