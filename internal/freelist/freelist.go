// Package freelist implements the explicit doubly-linked LIFO free list.
//
// Links are not Go pointers: they are stored as 32-bit offsets relative to a
// fixed anchor (base, the prologue's payload address) inside the first two
// words of a free block's own payload. This mirrors the segregated free
// lists the teacher allocator (hive/alloc) threads through cell payloads,
// collapsed down to the single explicit list this design commits to: a
// relative offset of 0 denotes "no link" since no real free block ever sits
// at the anchor itself.
//
// Every function here is stateless: callers (the root Heap type) own the
// list head and pass it in and get the updated head back, matching the
// "encapsulate heap-context, pass by reference" guidance for ports of this
// design to languages without global mutable state.
package freelist

import "github.com/mpaquette/dwheap/internal/block"

const (
	predWord = 0 // offset of the predecessor-offset word within a free payload
	succWord = block.WordSize
)

// PredOffset reads the stored predecessor link (relative to base, 0 = none).
func PredOffset(data []byte, bp int32) int32 {
	return block.ReadWord(data, bp+predWord)
}

// SuccOffset reads the stored successor link (relative to base, 0 = none).
func SuccOffset(data []byte, bp int32) int32 {
	return block.ReadWord(data, bp+succWord)
}

func setPredOffset(data []byte, bp, rel int32) {
	block.WriteWord(data, bp+predWord, rel)
}

func setSuccOffset(data []byte, bp, rel int32) {
	block.WriteWord(data, bp+succWord, rel)
}

// Insert links bp in at the head of the free list. Precondition: bp is free
// and not currently linked. Returns the new list head (relative offset).
func Insert(data []byte, base, head, bp int32) int32 {
	rel := bp - base
	setPredOffset(data, bp, 0)
	setSuccOffset(data, bp, head)
	if head != 0 {
		setPredOffset(data, base+head, rel)
	}
	return rel
}

// Unlink removes bp from the free list. Returns the new list head (relative
// offset). bp must currently be linked.
func Unlink(data []byte, base, head, bp int32) int32 {
	p := PredOffset(data, bp)
	n := SuccOffset(data, bp)

	switch {
	case p != 0 && n != 0:
		setSuccOffset(data, base+p, n)
		setPredOffset(data, base+n, p)
	case p == 0 && n != 0:
		head = n
		setPredOffset(data, base+n, 0)
	case p != 0 && n == 0:
		setSuccOffset(data, base+p, 0)
	default:
		head = 0
	}
	return head
}
