// Package extend implements heap growth: requesting fresh pages from an
// Arena and reformatting the tail of the heap so the new space becomes one
// large free block followed by a fresh epilogue sentinel.
//
// Grounded on the teacher's Append (hive/loader_unix.go), which grows the
// backing file and remaps it; here growth never remaps since the arena
// guarantees a stable backing array, so only the boundary tags at the old
// and new ends of the heap need to be rewritten.
package extend

import (
	"github.com/mpaquette/dwheap/internal/arena"
	"github.com/mpaquette/dwheap/internal/block"
	"github.com/mpaquette/dwheap/internal/coalesce"
	"github.com/mpaquette/dwheap/internal/freelist"
)

// Grow asks a for enough fresh pages to satisfy a block of at least
// needTotal bytes, reusing the current epilogue's header word as the new
// free block's header and writing a fresh zero-size epilogue at the new
// end of the heap. The new block is coalesced with the heap's previous
// physical tail block when that block is free, exactly as Free does for a
// newly-freed block, since growth always lands immediately after whatever
// used to sit at the old epilogue.
//
// epilogueBP is the payload offset of the current epilogue sentinel (which
// is always arena.Hi()). Returns the arena's backing slice, the updated
// free-list head with the new block inserted, and the new epilogue's
// payload offset.
func Grow(a arena.Arena, base, head, epilogueBP, needTotal int32) (data []byte, newHead, newEpilogueBP int32, err error) {
	chunk := arena.RoundUpPage(needTotal)

	offset, err := a.Grow(chunk)
	if err != nil {
		return nil, head, epilogueBP, err
	}

	data = a.Bytes()
	newBP := offset // reuses the old epilogue's header slot as this block's header
	newSize := chunk

	block.WriteHeaderFooter(data, newBP, newSize, false)

	newEpilogueBP = block.NextPhysical(newBP, newSize)
	block.WriteWord(data, block.HeaderOffset(newEpilogueBP), block.Pack(0, true))

	mergedHead, mergedBP, _ := coalesce.Merge(data, base, head, newBP, newSize)
	newHead = freelist.Insert(data, base, mergedHead, mergedBP)
	return data, newHead, newEpilogueBP, nil
}
