package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpaquette/dwheap"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <trace>",
		Short: "Replay a trace and report free-list occupancy",
		Long: `The stats command replays an allocation trace the same way run does,
then reports how the resulting heap's space is divided between live and
free blocks, and how fragmented the free list is.

Example:
  dwheapctl stats workload.trace
  dwheapctl stats workload.trace --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
	return cmd
}

func runStats(args []string) error {
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

	if _, err := replayTrace(h, ops, nil); err != nil {
		return err
	}

	s := h.Stats()

	if jsonOut {
		return printJSON(s)
	}

	printInfo("\nHeap Statistics: %s\n", tracePath)
	printInfo("========================================\n\n")
	printInfo("Heap size:        %s\n", formatBytes(int64(s.HeapBytes)))
	printInfo("Allocated bytes:  %s\n", formatBytes(int64(s.AllocatedBytes)))
	printInfo("Free bytes:       %s\n", formatBytes(int64(s.FreeBytes)))
	printInfo("Free blocks:      %d\n", s.FreeBlocks)
	printInfo("Largest free run: %s\n", formatBytes(int64(s.LargestFree)))
	if s.FreeBlocks > 0 {
		avg := float64(s.FreeBytes) / float64(s.FreeBlocks)
		printInfo("Average free run: %.1f bytes\n", avg)
	}
	return nil
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
