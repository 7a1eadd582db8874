package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpaquette/dwheap"
)

var (
	benchOps        int
	benchSeed       int64
	benchLiveBudget int
	benchCheck      bool
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().IntVar(&benchOps, "ops", 100000, "Number of interleaved operations to run")
	cmd.Flags().Int64Var(&benchSeed, "seed", 42, "PRNG seed")
	cmd.Flags().
		IntVar(&benchLiveBudget, "live-budget", 1<<20, "Approximate cap on live bytes, in bytes")
	cmd.Flags().
		BoolVar(&benchCheck, "check", false, "Validate invariants after every operation (slow)")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Stress-test the allocator with random interleaved operations",
		Long: `The bench command drives a heap through a fixed-seed sequence of random
allocate/free/reallocate calls, the same shape as the allocator's own
stress test, and reports throughput. Pass --check to also validate
invariants after every operation, which is much slower but catches any
invariant regression along the way. The bench arena reserves 64 times
--heap-pages pages.

Example:
  dwheapctl bench --ops 500000
  dwheapctl bench --ops 10000 --check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
}

type benchResult struct {
	Operations   int           `json:"operations"`
	Elapsed      time.Duration `json:"elapsed_ns"`
	OpsPerSecond float64       `json:"ops_per_second"`
	FinalStats   dwheap.Stats  `json:"final_stats"`
}

func runBench() error {
	a, err := newArena(heapPages * 64)
	if err != nil {
		return fmt.Errorf("reserving arena: %w", err)
	}
	h, err := dwheap.New(a)
	if err != nil {
		return fmt.Errorf("creating heap: %w", err)
	}

	rng := rand.New(rand.NewSource(benchSeed))
	live := make(map[dwheap.Ptr]uint32)
	var liveBytes int

	start := time.Now()
	for i := 0; i < benchOps; i++ {
		switch {
		case liveBytes < benchLiveBudget && (len(live) == 0 || rng.Intn(3) < 2):
			n := uint32(8 + rng.Intn(256))
			p, _, allocErr := h.Allocate(n)
			if allocErr != nil {
				return fmt.Errorf("op %d: %w", i, allocErr)
			}
			live[p] = n
			liveBytes += int(n)

		default:
			var victim dwheap.Ptr
			for p := range live {
				victim = p
				break
			}
			if rng.Intn(2) == 0 {
				if err := h.Free(victim); err != nil {
					return fmt.Errorf("op %d: %w", i, err)
				}
				liveBytes -= int(live[victim])
				delete(live, victim)
			} else {
				newN := uint32(8 + rng.Intn(256))
				newP, _, reErr := h.Reallocate(victim, newN)
				if reErr != nil {
					return fmt.Errorf("op %d: %w", i, reErr)
				}
				liveBytes = liveBytes - int(live[victim]) + int(newN)
				delete(live, victim)
				live[newP] = newN
			}
		}

		if benchCheck {
			if findings := h.Check(false); len(findings) > 0 {
				return fmt.Errorf("op %d: invariant violated: %s", i, findings[0].Error())
			}
		}
	}
	elapsed := time.Since(start)

	result := benchResult{
		Operations:   benchOps,
		Elapsed:      elapsed,
		OpsPerSecond: float64(benchOps) / elapsed.Seconds(),
		FinalStats:   h.Stats(),
	}

	if jsonOut {
		return printJSON(result)
	}

	printInfo("\nBench: %d operations, seed=%d\n", benchOps, benchSeed)
	printInfo("  elapsed:     %s\n", elapsed)
	printInfo("  throughput:  %.0f ops/sec\n", result.OpsPerSecond)
	printInfo("  live at end: %d allocations (%d bytes)\n", len(live), liveBytes)
	printInfo("  free blocks: %d (%d bytes)\n", result.FinalStats.FreeBlocks, result.FinalStats.FreeBytes)
	return nil
}
