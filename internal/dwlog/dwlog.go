// Package dwlog is the allocator's structured logger: discarded by default,
// enabled with Init, and gated at debug level behind the DWHEAP_LOG_ALLOC
// environment variable so per-allocation tracing never costs anything
// unless explicitly asked for.
//
// Grounded on the teacher's cmd/hiveexplorer/logger package: a package
// global wrapping log/slog, swappable via Init, with thin per-level
// wrapper functions.
package dwlog

import (
	"io"
	"log/slog"
	"os"
)

// L is the package logger. It discards all output until Init is called.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

// Options configures Init.
type Options struct {
	Writer io.Writer  // defaults to os.Stderr
	Level  slog.Level // defaults to slog.LevelInfo
}

// Init installs a text handler writing to opts.Writer at opts.Level.
func Init(opts Options) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	L = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: opts.Level}))
}

// AllocTracingEnabled reports whether DWHEAP_LOG_ALLOC is set, the toggle
// that turns on per-allocate/free/realloc debug tracing in the heap.
func AllocTracingEnabled() bool {
	_, ok := os.LookupEnv("DWHEAP_LOG_ALLOC")
	return ok
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
