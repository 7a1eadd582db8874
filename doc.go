// Package dwheap implements a general-purpose dynamic memory allocator over
// a growable byte arena: boundary-tag blocks, a single explicit
// doubly-linked free list threaded through heap-relative offsets, first-fit
// placement, and immediate coalescing on free.
//
// The heap never shrinks. It grows in whole pages, on demand, through the
// Arena it is constructed with; two Arena implementations are provided,
// one backed by an anonymous mmap reservation on unix platforms and a
// preallocated-slice fallback elsewhere.
//
// Payloads are addressed by Ptr, a heap-relative byte offset, rather than a
// raw pointer: every operation that hands back a live payload also hands
// back a []byte view over it, so callers never need unsafe.Pointer to read
// or write allocated memory.
package dwheap
