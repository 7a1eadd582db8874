// Package arena provides the page-granularity backing-store abstraction the
// heap grows into. It is grounded on the teacher's mmap-backed hive loader
// (hive/loader_unix.go, hive/mmap_safety.go): reserve address space once,
// commit pages on demand, and never move or reallocate the backing array so
// that offsets handed out earlier stay valid for the lifetime of the heap.
package arena

// PageSize is the growth granularity an Arena commits on each Grow call.
const PageSize = 4096

// Arena is the backing store a Heap grows into. Implementations must
// guarantee that the address of the slice returned by Bytes never changes
// across Grow calls: only its length may increase.
type Arena interface {
	// Grow extends the committed region by at least bytes bytes (rounded up
	// to the implementation's granularity) and returns the offset at which
	// the newly committed region begins, which is always the prior Hi().
	Grow(bytes int32) (offset int32, err error)

	// Bytes returns the full committed backing slice, data[0:Hi()]. The
	// underlying array's address is stable across the arena's lifetime.
	Bytes() []byte

	// Lo returns the offset of the first byte made available to the heap
	// (after any implementation-reserved prefix). Most implementations
	// return 0.
	Lo() int32

	// Hi returns the current committed end of the arena.
	Hi() int32

	// Size returns Hi() - Lo(), the number of bytes currently usable.
	Size() int32
}

// RoundUpPage rounds n up to the next multiple of PageSize; n <= 0 yields
// PageSize.
func RoundUpPage(n int32) int32 {
	if n <= 0 {
		return PageSize
	}
	return (n + PageSize - 1) &^ (PageSize - 1)
}
