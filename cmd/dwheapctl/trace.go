package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mpaquette/dwheap"
)

// op is one line of a trace file. Traces drive a Heap from a list of
// allocate/free/reallocate/zeroed_allocate calls keyed by an arbitrary
// label, so a trace can free or resize something a previous line
// allocated without knowing its Ptr ahead of time.
//
//	a <label> <size>          allocate
//	z <label> <count> <size>  zeroed_allocate
//	r <label> <size>          reallocate (label must already be live)
//	f <label>                 free (label must already be live)
//
// Blank lines and lines starting with # are ignored.
type op struct {
	kind  byte
	label string
	a, b  uint32
	line  int
}

func parseTrace(r io.Reader) ([]op, error) {
	var ops []op
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		o, err := parseOp(fields, lineNo)
		if err != nil {
			return nil, err
		}
		ops = append(ops, o)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return ops, nil
}

func parseOp(fields []string, lineNo int) (op, error) {
	if len(fields) == 0 {
		return op{}, fmt.Errorf("line %d: empty operation", lineNo)
	}
	switch fields[0] {
	case "a":
		if len(fields) != 3 {
			return op{}, fmt.Errorf("line %d: want 'a <label> <size>'", lineNo)
		}
		n, err := parseUint(fields[2], lineNo)
		if err != nil {
			return op{}, err
		}
		return op{kind: 'a', label: fields[1], a: n, line: lineNo}, nil
	case "z":
		if len(fields) != 4 {
			return op{}, fmt.Errorf("line %d: want 'z <label> <count> <size>'", lineNo)
		}
		count, err := parseUint(fields[2], lineNo)
		if err != nil {
			return op{}, err
		}
		size, err := parseUint(fields[3], lineNo)
		if err != nil {
			return op{}, err
		}
		return op{kind: 'z', label: fields[1], a: count, b: size, line: lineNo}, nil
	case "r":
		if len(fields) != 3 {
			return op{}, fmt.Errorf("line %d: want 'r <label> <size>'", lineNo)
		}
		n, err := parseUint(fields[2], lineNo)
		if err != nil {
			return op{}, err
		}
		return op{kind: 'r', label: fields[1], a: n, line: lineNo}, nil
	case "f":
		if len(fields) != 2 {
			return op{}, fmt.Errorf("line %d: want 'f <label>'", lineNo)
		}
		return op{kind: 'f', label: fields[1], line: lineNo}, nil
	default:
		return op{}, fmt.Errorf("line %d: unknown operation %q", lineNo, fields[0])
	}
}

func parseUint(s string, lineNo int) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("line %d: bad integer %q: %w", lineNo, s, err)
	}
	return uint32(n), nil
}

// replayStats tallies what happened while replaying a trace.
type replayStats struct {
	Allocs      int `json:"allocs"`
	ZeroAllocs  int `json:"zero_allocs"`
	Reallocs    int `json:"reallocs"`
	Frees       int `json:"frees"`
	LiveAtEnd   int `json:"live_at_end"`
	BytesLiveAt int `json:"bytes_live_at_end"`
}

// replayTrace drives h through ops in order, optionally invoking check after
// every single operation. check may be nil to skip per-step validation.
func replayTrace(h *dwheap.Heap, ops []op, check func(afterLine int) error) (replayStats, error) {
	live := make(map[string]dwheap.Ptr)
	liveBytes := make(map[string]uint32)
	var stats replayStats

	for _, o := range ops {
		switch o.kind {
		case 'a':
			p, _, err := opAllocate(h, o.a)
			if err != nil {
				return stats, fmt.Errorf("line %d: allocate %s: %w", o.line, o.label, err)
			}
			live[o.label] = p
			liveBytes[o.label] = o.a
			stats.Allocs++

		case 'z':
			p, _, err := opZeroedAllocate(h, o.a, o.b)
			if err != nil {
				return stats, fmt.Errorf("line %d: zeroed_allocate %s: %w", o.line, o.label, err)
			}
			live[o.label] = p
			liveBytes[o.label] = o.a * o.b
			stats.ZeroAllocs++

		case 'r':
			p, ok := live[o.label]
			if !ok {
				return stats, fmt.Errorf("line %d: reallocate %s: no such live label", o.line, o.label)
			}
			newP, _, err := opReallocate(h, p, o.a)
			if err != nil {
				return stats, fmt.Errorf("line %d: reallocate %s: %w", o.line, o.label, err)
			}
			if newP == dwheap.Nil {
				delete(live, o.label)
				delete(liveBytes, o.label)
			} else {
				live[o.label] = newP
				liveBytes[o.label] = o.a
			}
			stats.Reallocs++

		case 'f':
			p, ok := live[o.label]
			if !ok {
				return stats, fmt.Errorf("line %d: free %s: no such live label", o.line, o.label)
			}
			if err := opFree(h, p); err != nil {
				return stats, fmt.Errorf("line %d: free %s: %w", o.line, o.label, err)
			}
			delete(live, o.label)
			delete(liveBytes, o.label)
			stats.Frees++
		}

		if check != nil {
			if err := check(o.line); err != nil {
				return stats, err
			}
		}
	}

	stats.LiveAtEnd = len(live)
	for _, n := range liveBytes {
		stats.BytesLiveAt += int(n)
	}
	return stats, nil
}
