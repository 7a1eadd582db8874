//go:build !dwheap_stdnames

package main

import "github.com/mpaquette/dwheap"

// opAllocate, opFree, opReallocate, and opZeroedAllocate are the trace
// driver's indirection point onto the heap's four operations. Building with
// -tags dwheap_stdnames swaps this file for ops_stdnames.go, which routes
// through C-family-named wrappers instead; the trace replay logic in
// trace.go never changes.
func opAllocate(h *dwheap.Heap, n uint32) (dwheap.Ptr, []byte, error) {
	return h.Allocate(n)
}

func opFree(h *dwheap.Heap, p dwheap.Ptr) error {
	return h.Free(p)
}

func opReallocate(h *dwheap.Heap, p dwheap.Ptr, n uint32) (dwheap.Ptr, []byte, error) {
	return h.Reallocate(p, n)
}

func opZeroedAllocate(h *dwheap.Heap, count, size uint32) (dwheap.Ptr, []byte, error) {
	return h.ZeroedAllocate(count, size)
}
