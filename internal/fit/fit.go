// Package fit implements first-fit search over the explicit free list, the
// placement policy spec.md commits to in place of the teacher's segregated
// best-fit search (hive/alloc/fastalloc.go's size-class min-heaps): a single
// list, walked head to tail, stopping at the first block large enough.
package fit

import (
	"github.com/mpaquette/dwheap/internal/block"
	"github.com/mpaquette/dwheap/internal/freelist"
)

// Find walks the free list starting at head (relative offset, 0 = empty)
// looking for the first block whose size is at least need. It returns the
// block's payload offset and true on success, or (0, false) if no block in
// the list is large enough.
func Find(data []byte, base, head, need int32) (bp int32, ok bool) {
	for cur := head; cur != 0; cur = freelist.SuccOffset(data, base+cur) {
		candidate := base + cur
		if block.ReadSize(data, candidate) >= need {
			return candidate, true
		}
	}
	return 0, false
}
