// Package coalesce implements the four-case boundary-tag merge with physical
// neighbours, grounded on the forward/backward merge branches of the
// teacher's FastAllocator.Free (hive/alloc/fastalloc.go): a freed cell is
// merged with a free neighbour on either side, removing the absorbed
// neighbour from the free list as it goes.
//
// The prologue and epilogue sentinels (always allocated) mean every
// physical neighbour read here is always in-bounds: there is never a need
// to special-case the first or last real block.
package coalesce

import (
	"github.com/mpaquette/dwheap/internal/block"
	"github.com/mpaquette/dwheap/internal/freelist"
)

// Merge coalesces bp (whose header/footer already mark it free, size bytes
// total) with any free physical neighbours, unlinking absorbed neighbours
// from the free list. It returns the possibly-moved block offset, its new
// total size, and the updated free-list head. The caller is responsible for
// inserting the returned block into the free list.
func Merge(data []byte, base, head, bp, size int32) (newHead, newBP, newSize int32) {
	nextBP := block.NextPhysical(bp, size)
	nextWord := block.ReadWord(data, block.HeaderOffset(nextBP))
	nextFree := !block.IsAllocated(nextWord)
	nextSize := block.SizeOf(nextWord)

	prevFooterOff := bp - block.FooterSize - block.HeaderSize
	prevWord := block.ReadWord(data, prevFooterOff)
	prevFree := !block.IsAllocated(prevWord)
	prevSize := block.SizeOf(prevWord)

	newHead, newBP, newSize = head, bp, size

	switch {
	case !prevFree && !nextFree:
		// Both physical neighbours allocated: nothing to merge.
		return newHead, newBP, newSize

	case !prevFree && nextFree:
		newHead = freelist.Unlink(data, base, newHead, nextBP)
		newSize += nextSize

	case prevFree && !nextFree:
		prevBP := bp - prevSize
		newHead = freelist.Unlink(data, base, newHead, prevBP)
		newBP = prevBP
		newSize += prevSize

	default: // prevFree && nextFree
		newHead = freelist.Unlink(data, base, newHead, nextBP)
		prevBP := bp - prevSize
		newHead = freelist.Unlink(data, base, newHead, prevBP)
		newBP = prevBP
		newSize += prevSize + nextSize
	}

	block.WriteHeaderFooter(data, newBP, newSize, false)
	return newHead, newBP, newSize
}
