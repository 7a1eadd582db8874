package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpaquette/dwheap"
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <trace>",
		Short: "Replay an allocation trace against a fresh heap",
		Long: `The run command replays an allocation trace file against a freshly
constructed heap and reports how many of each operation kind executed.

Example:
  dwheapctl run workload.trace
  dwheapctl run --heap-pages 64 workload.trace --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}
	return cmd
}

func runRun(args []string) error {
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
	printVerbose("parsed %d operations from %s\n", len(ops), tracePath)

	a, err := newArena(heapPages)
	if err != nil {
		return fmt.Errorf("reserving arena: %w", err)
	}
	h, err := dwheap.New(a)
	if err != nil {
		return fmt.Errorf("creating heap: %w", err)
	}

	stats, err := replayTrace(h, ops, nil)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(stats)
	}

	printInfo("Replayed %s\n", tracePath)
	printInfo("  allocate:        %d\n", stats.Allocs)
	printInfo("  zeroed_allocate: %d\n", stats.ZeroAllocs)
	printInfo("  reallocate:      %d\n", stats.Reallocs)
	printInfo("  free:            %d\n", stats.Frees)
	printInfo("  live at end:     %d (%d bytes)\n", stats.LiveAtEnd, stats.BytesLiveAt)
	return nil
}
