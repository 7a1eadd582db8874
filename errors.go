package dwheap

import "errors"

// Sentinel errors returned by Heap's public operations, grounded on the
// teacher's hive/alloc/errors.go style.
var (
	// ErrZeroSize indicates Allocate or ZeroedAllocate was asked for a
	// zero-byte payload. No allocation takes place.
	ErrZeroSize = errors.New("dwheap: zero-size allocation request")

	// ErrArenaExhausted indicates the arena could not grow to satisfy an
	// allocation or reallocation.
	ErrArenaExhausted = errors.New("dwheap: arena exhausted")

	// ErrInvalidPointer indicates Free or Reallocate was called with an
	// offset outside the live heap. Nil is not an error for either:
	// Free(Nil) is a no-op and Reallocate(Nil, n) allocates.
	ErrInvalidPointer = errors.New("dwheap: invalid pointer")

	// ErrOverflow indicates a requested size computation (count*size for
	// ZeroedAllocate, or an internal block-size computation) would exceed
	// the int32 range this allocator uses for all offsets and sizes.
	ErrOverflow = errors.New("dwheap: size overflow")
)
