package dwheap

import (
	"fmt"
	"math"

	"github.com/mpaquette/dwheap/internal/arena"
	"github.com/mpaquette/dwheap/internal/block"
	"github.com/mpaquette/dwheap/internal/coalesce"
	"github.com/mpaquette/dwheap/internal/dwlog"
	"github.com/mpaquette/dwheap/internal/extend"
	"github.com/mpaquette/dwheap/internal/fit"
	"github.com/mpaquette/dwheap/internal/freelist"
	"github.com/mpaquette/dwheap/internal/placer"
	"github.com/mpaquette/dwheap/internal/verify"
)

// maxPayload bounds a single request so that SizeForRequest's internal
// alignment arithmetic never overflows int32.
const maxPayload = math.MaxInt32 - 64

// Heap is a boundary-tag allocator growing into an Arena. It is not safe
// for concurrent use: callers needing concurrent access must serialize
// their own calls, the same contract the teacher's allocators document
// rather than enforce with a mutex.
type Heap struct {
	arena      arena.Arena
	base       int32 // payload offset of the prologue block; free-list anchor
	head       int32 // free-list head, relative to base; 0 == empty
	epilogueBP int32 // payload offset of the current epilogue sentinel
}

// New creates a Heap over a freshly constructed, empty Arena. The arena
// must not have been grown before being passed to New.
func New(a arena.Arena) (*Heap, error) {
	if a.Hi() != a.Lo() {
		return nil, fmt.Errorf("dwheap: arena already has %d bytes committed", a.Hi()-a.Lo())
	}

	offset, err := a.Grow(arena.PageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArenaExhausted, err)
	}

	data := a.Bytes()

	// The initial commit opens with one padding word, then a minimum-size
	// allocated prologue block whose payload offset is base, the anchor all
	// free-list links are measured from. The prologue is never free, so a
	// relative offset of 0 never names a real free block. The first real
	// block follows the prologue and runs up to the epilogue header in the
	// last word of the commit.
	base := offset + 2*block.HeaderSize
	block.WriteHeaderFooter(data, base, block.MinBlockSize, true) // prologue sentinel
	freeBP := block.NextPhysical(base, block.MinBlockSize)
	epilogueBP := a.Hi()
	freeSize := epilogueBP - freeBP

	block.WriteHeaderFooter(data, freeBP, freeSize, false)
	block.WriteWord(data, block.HeaderOffset(epilogueBP), block.Pack(0, true))

	head := freelist.Insert(data, base, 0, freeBP)

	return &Heap{arena: a, base: base, head: head, epilogueBP: epilogueBP}, nil
}

func sizeForPayload(n uint32) (int32, error) {
	if n > maxPayload {
		return 0, ErrOverflow
	}
	return block.SizeForRequest(int32(n)), nil
}

// growBy extends the arena by enough pages to satisfy a block of at least
// needTotal bytes, updating head and epilogueBP in place.
func (h *Heap) growBy(needTotal int32) error {
	data, newHead, newEpilogueBP, err := extend.Grow(h.arena, h.base, h.head, h.epilogueBP, needTotal)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArenaExhausted, err)
	}
	_ = data
	h.head = newHead
	h.epilogueBP = newEpilogueBP
	return nil
}

// Allocate reserves a block able to hold n payload bytes and returns its
// Ptr together with a slice view onto the live payload. The payload's
// contents are not zeroed.
func (h *Heap) Allocate(n uint32) (Ptr, []byte, error) {
	if n == 0 {
		return Nil, nil, ErrZeroSize
	}

	need, err := sizeForPayload(n)
	if err != nil {
		return Nil, nil, err
	}

	data := h.arena.Bytes()
	bp, ok := fit.Find(data, h.base, h.head, need)
	if !ok {
		if err := h.growBy(need); err != nil {
			return Nil, nil, err
		}
		data = h.arena.Bytes()
		bp, ok = fit.Find(data, h.base, h.head, need)
		if !ok {
			return Nil, nil, ErrArenaExhausted
		}
	}

	blockSize := block.ReadSize(data, bp)
	h.head = placer.Place(data, h.base, h.head, bp, blockSize, need)

	if dwlog.AllocTracingEnabled() {
		dwlog.Debug("allocate", "bp", bp, "requested", n, "block_size", need)
	}

	return Ptr(bp), h.payload(bp), nil
}

// ZeroedAllocate is Allocate(count*size) with the payload zero-filled
// before it is returned, the allocator's analogue of calloc.
func (h *Heap) ZeroedAllocate(count, size uint32) (Ptr, []byte, error) {
	if count == 0 || size == 0 {
		return Nil, nil, ErrZeroSize
	}
	total := uint64(count) * uint64(size)
	if total > maxPayload {
		return Nil, nil, ErrOverflow
	}

	p, payload, err := h.Allocate(uint32(total))
	if err != nil {
		return Nil, nil, err
	}
	for i := range payload {
		payload[i] = 0
	}
	return p, payload, nil
}

// Free releases the block at p. Free(Nil) is a no-op. Freeing any pointer
// other than one returned by Allocate/Reallocate/ZeroedAllocate, or
// freeing it twice, is undefined behaviour, except for the
// gross-out-of-bounds case, which returns ErrInvalidPointer.
func (h *Heap) Free(p Ptr) error {
	if p == Nil {
		return nil
	}
	bp := int32(p)
	if err := h.validate(bp); err != nil {
		return err
	}

	data := h.arena.Bytes()
	size := block.ReadSize(data, bp)
	block.WriteHeaderFooter(data, bp, size, false)

	newHead, newBP, newSize := coalesce.Merge(data, h.base, h.head, bp, size)
	h.head = freelist.Insert(data, h.base, newHead, newBP)

	if dwlog.AllocTracingEnabled() {
		dwlog.Debug("free", "bp", bp, "merged_size", newSize)
	}
	return nil
}

// Reallocate resizes the block at p to hold n payload bytes, preserving its
// content up to the smaller of the old and new sizes. Reallocate(Nil, n)
// behaves like Allocate(n). Reallocate(p, 0) frees p and returns (Nil,
// nil, nil).
func (h *Heap) Reallocate(p Ptr, n uint32) (Ptr, []byte, error) {
	if p == Nil {
		return h.Allocate(n)
	}
	if n == 0 {
		if err := h.Free(p); err != nil {
			return Nil, nil, err
		}
		return Nil, nil, nil
	}

	bp := int32(p)
	if err := h.validate(bp); err != nil {
		return Nil, nil, err
	}

	need, err := sizeForPayload(n)
	if err != nil {
		return Nil, nil, err
	}

	data := h.arena.Bytes()
	oldSize := block.ReadSize(data, bp)

	if need <= oldSize {
		h.shrinkInPlace(data, bp, oldSize, need)
		return p, h.payload(bp), nil
	}

	// Relocate: allocate fresh, copy the preserved prefix, free the old
	// block. old_payload_size is size(p)-8, matching the header/footer
	// overhead exactly — not the raw block total size.
	oldPayload := oldSize - block.HeaderSize - block.FooterSize
	newP, newData, err := h.Allocate(n)
	if err != nil {
		return Nil, nil, err
	}
	toCopy := oldPayload
	if int32(n) < toCopy {
		toCopy = int32(n)
	}
	copy(newData[:toCopy], h.payload(bp)[:toCopy])

	if err := h.Free(p); err != nil {
		return Nil, nil, err
	}
	return newP, newData, nil
}

// shrinkInPlace splits a remainder free block off the tail of bp when it is
// large enough to stand on its own, otherwise leaves bp at its current size.
func (h *Heap) shrinkInPlace(data []byte, bp, oldSize, need int32) {
	remainder := oldSize - need
	if remainder < block.MinBlockSize {
		return
	}

	block.WriteHeaderFooter(data, bp, need, true)
	freeBP := block.NextPhysical(bp, need)
	block.WriteHeaderFooter(data, freeBP, remainder, false)

	newHead, mergedBP, _ := coalesce.Merge(data, h.base, h.head, freeBP, remainder)
	h.head = freelist.Insert(data, h.base, newHead, mergedBP)
}

// Check walks the heap's physical blocks and free list, reporting every
// invariant violation it finds rather than stopping at the first.
func (h *Heap) Check(verbose bool) []*verify.ValidationError {
	return verify.Check(h.arena.Bytes(), h.base, h.head, h.epilogueBP, verbose)
}

// Stats summarizes free-list occupancy, for tooling such as dwheapctl
// stats. It does not validate anything; use Check for that.
type Stats struct {
	HeapBytes      int32 `json:"heap_bytes"` // total bytes between base and the epilogue
	FreeBlocks     int32 `json:"free_blocks"`
	FreeBytes      int32 `json:"free_bytes"`
	LargestFree    int32 `json:"largest_free"`
	AllocatedBytes int32 `json:"allocated_bytes"`
}

// Stats walks the free list once, reporting occupancy without mutating
// anything. AllocatedBytes is HeapBytes minus the free bytes found on that
// walk; the physical block chain is not walked.
func (h *Heap) Stats() Stats {
	data := h.arena.Bytes()
	s := Stats{HeapBytes: h.epilogueBP - h.base}

	for cur := h.head; cur != 0; {
		nodeBP := h.base + cur
		size := block.ReadSize(data, nodeBP)
		s.FreeBlocks++
		s.FreeBytes += size
		if size > s.LargestFree {
			s.LargestFree = size
		}
		cur = freelist.SuccOffset(data, nodeBP)
	}

	s.AllocatedBytes = s.HeapBytes - s.FreeBytes
	return s
}

func (h *Heap) payload(bp int32) []byte {
	data := h.arena.Bytes()
	size := block.ReadSize(data, bp)
	return data[bp : bp+size-block.HeaderSize-block.FooterSize]
}

func (h *Heap) validate(bp int32) error {
	if bp < h.base || bp >= h.epilogueBP {
		return ErrInvalidPointer
	}
	return nil
}
