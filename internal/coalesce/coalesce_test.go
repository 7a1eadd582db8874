package coalesce_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpaquette/dwheap/internal/block"
	"github.com/mpaquette/dwheap/internal/coalesce"
	"github.com/mpaquette/dwheap/internal/freelist"
)

const base = int32(8)

// layout builds a flat arena of back-to-back blocks per sizes, alternating
// allocation state as given, and returns the arena plus each block's payload
// offset. A zero-size allocated epilogue block follows the last real block,
// so Merge never needs to special-case the end of the heap.
func layout(sizes []int32, allocated []bool) ([]byte, []int32) {
	off := base
	offsets := make([]int32, len(sizes))
	for i, s := range sizes {
		offsets[i] = off
		off += s
	}
	// Reserve room for the epilogue header after the last real block.
	data := make([]byte, off+block.HeaderSize)

	for i, s := range sizes {
		block.WriteHeaderFooter(data, offsets[i], s, allocated[i])
	}
	block.WriteWord(data, block.HeaderOffset(off), block.Pack(0, true))
	return data, offsets
}

func TestMergeNoNeighboursFree(t *testing.T) {
	data, offs := layout([]int32{16, 16, 16}, []bool{true, true, true})
	head := int32(0)
	block.WriteHeaderFooter(data, offs[1], 16, false)

	newHead, bp, size := coalesce.Merge(data, base, head, offs[1], 16)

	require.Equal(t, offs[1], bp)
	require.Equal(t, int32(16), size)
	require.Equal(t, int32(0), newHead)
}

func TestMergeWithNextFree(t *testing.T) {
	data, offs := layout([]int32{16, 16, 16}, []bool{true, false, true})
	head := freelist.Insert(data, base, 0, offs[1])
	block.WriteHeaderFooter(data, offs[0], 16, false)

	newHead, bp, size := coalesce.Merge(data, base, head, offs[0], 16)

	require.Equal(t, offs[0], bp)
	require.Equal(t, int32(32), size)
	require.Equal(t, int32(0), newHead)
	require.Equal(t, int32(32), block.ReadSize(data, bp))
}

func TestMergeWithPrevFree(t *testing.T) {
	data, offs := layout([]int32{16, 16, 16}, []bool{false, true, true})
	head := freelist.Insert(data, base, 0, offs[0])
	block.WriteHeaderFooter(data, offs[1], 16, false)

	newHead, bp, size := coalesce.Merge(data, base, head, offs[1], 16)

	require.Equal(t, offs[0], bp)
	require.Equal(t, int32(32), size)
	require.Equal(t, int32(0), newHead)
}

func TestMergeWithBothFree(t *testing.T) {
	data, offs := layout([]int32{16, 16, 16}, []bool{false, true, false})
	head := freelist.Insert(data, base, 0, offs[0])
	head = freelist.Insert(data, base, head, offs[2])
	block.WriteHeaderFooter(data, offs[1], 16, false)

	newHead, bp, size := coalesce.Merge(data, base, head, offs[1], 16)

	require.Equal(t, offs[0], bp)
	require.Equal(t, int32(48), size)
	require.Equal(t, int32(0), newHead)
}
