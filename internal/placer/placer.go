// Package placer implements the split-or-consume decision made once a free
// block has been chosen to satisfy an allocation request, grounded on the
// placement half of the teacher's FastAllocator.Allocate (hive/alloc/fastalloc.go):
// a candidate free block is either split into a used prefix and a smaller
// free remainder, or consumed whole when the remainder would be too small
// to host a block of its own.
package placer

import (
	"github.com/mpaquette/dwheap/internal/block"
	"github.com/mpaquette/dwheap/internal/freelist"
)

// Place carves need bytes out of the free block at bp (whose total size is
// blockSize), unlinking it from the free list headed by head. If the
// leftover is large enough to form its own free block (>= MinBlockSize), it
// is split off, written back as a free block, and reinserted into the free
// list; otherwise the entire block is handed to the caller as allocated.
//
// Returns the updated free-list head. bp is marked allocated with size need
// (or blockSize, if the split didn't happen) by the time Place returns.
func Place(data []byte, base, head, bp, blockSize, need int32) (newHead int32) {
	newHead = freelist.Unlink(data, base, head, bp)

	remainder := blockSize - need
	if remainder < block.MinBlockSize {
		block.WriteHeaderFooter(data, bp, blockSize, true)
		return newHead
	}

	block.WriteHeaderFooter(data, bp, need, true)

	freeBP := block.NextPhysical(bp, need)
	block.WriteHeaderFooter(data, freeBP, remainder, false)
	newHead = freelist.Insert(data, base, newHead, freeBP)
	return newHead
}
