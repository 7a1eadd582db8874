// Package verify walks a heap's physical block chain and free list,
// checking every invariant spec.md promises the allocator maintains, and
// reports what it finds rather than failing fast.
//
// Grounded on the teacher's hive/verify package: a typed ValidationError
// carrying a check type, a message, a byte offset, and an optional details
// map, collected into a slice instead of returning on the first error, so a
// caller sees the whole picture of a corrupted or suspect heap in one pass.
package verify

import (
	"fmt"

	"github.com/mpaquette/dwheap/internal/block"
)

// ValidationError describes one invariant violation discovered during a
// Check. Offset is -1 when the violation is heap-wide rather than tied to a
// specific block.
type ValidationError struct {
	Type    string
	Message string
	Offset  int32
	Details map[string]any
}

func (e *ValidationError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s at offset %d: %s", e.Type, e.Offset, e.Message)
}

// Check walks every physical block between base and epilogueBP, then the
// free list headed by head, and cross-checks the two. Unless built with the
// dwheap_strict tag (see strict.go), it never panics on a malformed heap;
// a heap corrupted badly enough to make further walking
// unsafe stops early and reports what it found up to that point.
//
// When verbose is false, only violations are reported. When true, Check
// also emits informational entries summarizing block and free-list counts,
// useful for `dwheapctl stats`-style tooling.
func Check(data []byte, base, head, epilogueBP int32, verbose bool) []*ValidationError {
	var findings []*ValidationError
	report := func(typ, format string, offset int32, args ...any) {
		e := &ValidationError{Type: typ, Message: fmt.Sprintf(format, args...), Offset: offset}
		findings = append(findings, e)
		if strictMode && typ != "block" && typ != "summary" {
			panic(e)
		}
	}

	freeByOffset := make(map[int32]bool)
	var physicalFreeCount, physicalFreeBytes int32

	bp := base
	for bp < epilogueBP {
		if bp+block.FooterSize > int32(len(data)) || bp < 0 {
			report("bounds", "block at %d runs past the arena", bp)
			break
		}

		size := block.ReadSize(data, bp)
		allocated := block.ReadAllocated(data, bp)

		if size < block.MinBlockSize {
			report("min-size", "block size %d below MinBlockSize", bp, size)
			break
		}
		if size-block.HeaderSize > int32(len(data))-bp {
			report("bounds", "block size %d runs past the arena", bp, size)
			break
		}
		if size%block.DWordSize != 0 {
			report("alignment", "block size %d is not 8-byte aligned", bp, size)
		}

		headerWord := block.ReadWord(data, block.HeaderOffset(bp))
		footerWord := block.ReadWord(data, block.FooterOffset(bp, size))
		if headerWord != footerWord {
			report("boundary-tag", "header/footer mismatch (0x%x != 0x%x)", bp, headerWord, footerWord)
		}

		if !allocated {
			freeByOffset[bp] = true
			physicalFreeCount++
			physicalFreeBytes += size

			next := block.NextPhysical(bp, size)
			if next < epilogueBP && !block.ReadAllocated(data, next) {
				report("coalescing", "adjacent free blocks at %d and %d were not merged", bp, next)
			}
		}

		if verbose {
			report("block", "%s block, size %d", bp, allocatedLabel(allocated), size)
		}

		bp = block.NextPhysical(bp, size)
	}

	if bp != epilogueBP {
		report("heap-walk", "block walk ended at %d, expected epilogue at %d", bp, epilogueBP)
	} else {
		epWord := block.ReadWord(data, block.HeaderOffset(epilogueBP))
		if block.SizeOf(epWord) != 0 || !block.IsAllocated(epWord) {
			report("epilogue", "epilogue sentinel is not a zero-size allocated block", epilogueBP)
		}
	}

	var listCount int32
	seen := make(map[int32]bool)
	maxLink := int32(len(data)) - 2*block.WordSize - base
	for cur := head; cur != 0; {
		if cur < 0 || cur > maxLink {
			report("bounds", "free list link %d points outside the arena", -1, cur)
			break
		}
		nodeBP := base + cur
		if seen[nodeBP] {
			report("free-list-cycle", "free list revisits block at %d", nodeBP)
			break
		}
		seen[nodeBP] = true

		if !freeByOffset[nodeBP] {
			report("free-list-consistency", "free list references block at %d which is not free", nodeBP)
		}
		listCount++

		succ := block.ReadWord(data, nodeBP+block.WordSize)
		if succ > 0 && succ <= maxLink {
			succBP := base + succ
			pred := block.ReadWord(data, succBP)
			if base+pred != nodeBP {
				report("free-list-consistency", "successor of %d does not link back", nodeBP)
			}
		}
		cur = succ
	}

	if listCount != physicalFreeCount {
		report("free-list-count", "free list has %d nodes but heap walk found %d free blocks", -1,
			listCount, physicalFreeCount)
		findings[len(findings)-1].Details = map[string]any{
			"listCount":         listCount,
			"physicalFreeCount": physicalFreeCount,
		}
	}

	if verbose {
		report("summary", "free blocks: %d, free bytes: %d", -1, physicalFreeCount, physicalFreeBytes)
	}

	return findings
}

func allocatedLabel(allocated bool) string {
	if allocated {
		return "allocated"
	}
	return "free"
}
