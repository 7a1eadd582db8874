package dwheap

// Ptr is a reference to a live allocation: the byte offset of the payload's
// first byte, relative to the heap's backing arena. The zero value is the
// null pointer and is never a valid payload offset, since the heap always
// reserves its first bytes for the prologue sentinel.
//
// Ptr plays the role the teacher's CellRef plays for hive cells: a stable,
// serializable handle that does not depend on Go's garbage collector or
// unsafe.Pointer arithmetic.
type Ptr int32

// Nil is the null Ptr value.
const Nil Ptr = 0
