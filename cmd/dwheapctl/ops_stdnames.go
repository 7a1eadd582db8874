//go:build dwheap_stdnames

package main

import "github.com/mpaquette/dwheap"

// Malloc, Free, Realloc, and Calloc give the trace driver C-family names for
// traces ported from a C allocator's test corpus, the same deprecation-
// aliasing idea as hive/alloc's Grow/GrowByPages split: the underlying
// operation is identical, only the name at the call site changes.
func Malloc(h *dwheap.Heap, n uint32) (dwheap.Ptr, []byte, error) {
	return h.Allocate(n)
}

func Free(h *dwheap.Heap, p dwheap.Ptr) error {
	return h.Free(p)
}

func Realloc(h *dwheap.Heap, p dwheap.Ptr, n uint32) (dwheap.Ptr, []byte, error) {
	return h.Reallocate(p, n)
}

func Calloc(h *dwheap.Heap, count, size uint32) (dwheap.Ptr, []byte, error) {
	return h.ZeroedAllocate(count, size)
}

func opAllocate(h *dwheap.Heap, n uint32) (dwheap.Ptr, []byte, error) {
	return Malloc(h, n)
}

func opFree(h *dwheap.Heap, p dwheap.Ptr) error {
	return Free(h, p)
}

func opReallocate(h *dwheap.Heap, p dwheap.Ptr, n uint32) (dwheap.Ptr, []byte, error) {
	return Realloc(h, p, n)
}

func opZeroedAllocate(h *dwheap.Heap, count, size uint32) (dwheap.Ptr, []byte, error) {
	return Calloc(h, count, size)
}
