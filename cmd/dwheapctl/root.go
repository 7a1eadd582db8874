package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpaquette/dwheap/internal/dwlog"
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	jsonOut   bool
	heapPages int
)

var rootCmd = &cobra.Command{
	Use:   "dwheapctl",
	Short: "Drive and inspect a dwheap allocator from an allocation trace",
	Long: `dwheapctl replays allocation traces against an in-process dwheap.Heap,
reports invariant-checker findings, and benchmarks allocator throughput. It
does not persist any heap state between invocations: every subcommand builds
a fresh heap from an empty arena and drives it for the lifetime of the
process.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		IntVar(&heapPages, "heap-pages", 16, "Initial arena reservation, in 4KB pages")
}

func execute() {
	cobra.OnInitialize(func() {
		if verbose {
			dwlog.Init(dwlog.Options{Writer: os.Stderr, Level: slog.LevelDebug})
		}
	})
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printInfo prints an info message if not in quiet mode.
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON.
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
