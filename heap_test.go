package dwheap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpaquette/dwheap"
	"github.com/mpaquette/dwheap/internal/arena"
)

func newTestHeap(t *testing.T) *dwheap.Heap {
	t.Helper()
	a, err := arena.NewMemArena(64 * arena.PageSize)
	require.NoError(t, err)
	h, err := dwheap.New(a)
	require.NoError(t, err)
	return h
}

func assertClean(t *testing.T, h *dwheap.Heap) {
	t.Helper()
	findings := h.Check(false)
	require.Empty(t, findings, "%+v", findings)
}

// S1: a fresh allocation is non-null, 8-aligned, and leaves the heap clean.
func TestScenarioS1FreshAllocation(t *testing.T) {
	h := newTestHeap(t)

	p, payload, err := h.Allocate(24)
	require.NoError(t, err)
	require.NotEqual(t, dwheap.Nil, p)
	require.Equal(t, int32(0), int32(p)%8)
	require.Len(t, payload, 24)

	assertClean(t, h)
}

// S2: freeing two adjacent allocations coalesces them into one free block.
func TestScenarioS2CoalescingOnFree(t *testing.T) {
	h := newTestHeap(t)

	a, _, err := h.Allocate(40)
	require.NoError(t, err)
	b, _, err := h.Allocate(40)
	require.NoError(t, err)

	require.NoError(t, h.Free(a))
	require.NoError(t, h.Free(b))

	assertClean(t, h)
}

// S3: first-fit reuses the block freed by a, so c lands at the same offset.
func TestScenarioS3FirstFitReuse(t *testing.T) {
	h := newTestHeap(t)

	a, _, err := h.Allocate(64)
	require.NoError(t, err)
	_, _, err = h.Allocate(16)
	require.NoError(t, err)

	require.NoError(t, h.Free(a))

	c, _, err := h.Allocate(48)
	require.NoError(t, err)
	require.Equal(t, a, c)

	assertClean(t, h)
}

// S4: growing via reallocate preserves the original bytes.
func TestScenarioS4ReallocateGrowPreservesContent(t *testing.T) {
	h := newTestHeap(t)

	p, payload, err := h.Allocate(100)
	require.NoError(t, err)
	for i := range payload {
		payload[i] = 0xAB
	}

	q, grown, err := h.Reallocate(p, 200)
	require.NoError(t, err)
	require.Len(t, grown, 200)
	for i := 0; i < 100; i++ {
		require.Equal(t, byte(0xAB), grown[i], "byte %d", i)
	}

	assertClean(t, h)
	_ = q
}

// S5: shrinking via reallocate keeps the pointer stable and carves a free
// remainder immediately to its right.
func TestScenarioS5ReallocateShrinkInPlace(t *testing.T) {
	h := newTestHeap(t)

	p, _, err := h.Allocate(200)
	require.NoError(t, err)

	q, payload, err := h.Reallocate(p, 32)
	require.NoError(t, err)
	require.Equal(t, p, q)
	require.Len(t, payload, 32)

	assertClean(t, h)
}

// S6: zeroed_allocate returns a zero-filled region of the requested size.
func TestScenarioS6ZeroedAllocate(t *testing.T) {
	h := newTestHeap(t)

	p, payload, err := h.ZeroedAllocate(10, 8)
	require.NoError(t, err)
	require.NotEqual(t, dwheap.Nil, p)
	require.Len(t, payload, 80)
	for _, b := range payload {
		require.Equal(t, byte(0), b)
	}

	assertClean(t, h)
}

func TestAllocateZeroSizeReturnsErrZeroSize(t *testing.T) {
	h := newTestHeap(t)

	p, payload, err := h.Allocate(0)
	require.ErrorIs(t, err, dwheap.ErrZeroSize)
	require.Equal(t, dwheap.Nil, p)
	require.Nil(t, payload)
}

func TestFreeNilIsNoOp(t *testing.T) {
	h := newTestHeap(t)
	require.NoError(t, h.Free(dwheap.Nil))
	assertClean(t, h)
}

func TestFreeInvalidPointerIsRejected(t *testing.T) {
	h := newTestHeap(t)
	require.ErrorIs(t, h.Free(dwheap.Ptr(1<<20)), dwheap.ErrInvalidPointer)
}

func TestReallocateToZeroFreesAndReturnsNil(t *testing.T) {
	h := newTestHeap(t)

	p, _, err := h.Allocate(64)
	require.NoError(t, err)

	q, payload, err := h.Reallocate(p, 0)
	require.NoError(t, err)
	require.Equal(t, dwheap.Nil, q)
	require.Nil(t, payload)

	assertClean(t, h)
}

func TestReallocateNilBehavesLikeAllocate(t *testing.T) {
	h := newTestHeap(t)

	p, payload, err := h.Reallocate(dwheap.Nil, 48)
	require.NoError(t, err)
	require.NotEqual(t, dwheap.Nil, p)
	require.Len(t, payload, 48)

	assertClean(t, h)
}

func TestAllocationsDoNotOverlap(t *testing.T) {
	h := newTestHeap(t)

	type span struct{ lo, hi int32 }
	var spans []span

	for i := 0; i < 20; i++ {
		p, payload, err := h.Allocate(uint32(16 + i*4))
		require.NoError(t, err)
		lo := int32(p)
		spans = append(spans, span{lo, lo + int32(len(payload))})
	}

	for i := range spans {
		for j := range spans {
			if i == j {
				continue
			}
			overlap := spans[i].lo < spans[j].hi && spans[j].lo < spans[i].hi
			require.False(t, overlap, "spans %d and %d overlap", i, j)
		}
	}

	assertClean(t, h)
}

func TestHeapGrowsWhenFreeListExhausted(t *testing.T) {
	a, err := arena.NewMemArena(4096 * arena.PageSize)
	require.NoError(t, err)
	h, err := dwheap.New(a)
	require.NoError(t, err)

	var ptrs []dwheap.Ptr
	for i := 0; i < 2000; i++ {
		p, _, err := h.Allocate(256)
		require.NoError(t, err)
		ptrs = append(ptrs, p)
	}

	assertClean(t, h)

	for _, p := range ptrs {
		require.NoError(t, h.Free(p))
	}

	assertClean(t, h)
}
