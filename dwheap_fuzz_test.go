package dwheap_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpaquette/dwheap"
	"github.com/mpaquette/dwheap/internal/arena"
)

// TestScenarioS7StressInterleavedOperations interleaves 10,000 random
// allocate/free/reallocate operations bounded to roughly 1 MiB of live
// bytes, checking invariants throughout, then frees everything and
// confirms the free list collapses back to a single span.
//
// Grounded on the teacher's Test_Fuzz_RandomAllocFree_GuardInvariants
// (hive/alloc/fuzz_property_test.go): a fixed-seed PRNG drives a mix of
// operations against a map of live allocations, validating invariants
// after every step rather than only at the end.
func TestScenarioS7StressInterleavedOperations(t *testing.T) {
	a, err := arena.NewMemArena(16 * 1024 * 1024)
	require.NoError(t, err)
	h, err := dwheap.New(a)
	require.NoError(t, err)

	const liveBudget = 1 << 20 // 1 MiB

	rng := rand.New(rand.NewSource(42))
	live := make(map[dwheap.Ptr]uint32)
	var liveBytes uint32

	for i := 0; i < 10000; i++ {
		op := rng.Intn(3)

		switch op {
		case 0, 1: // allocate (weighted heavier to keep the heap busy)
			if liveBytes >= liveBudget {
				break
			}
			n := uint32(8 + rng.Intn(256))
			p, payload, allocErr := h.Allocate(n)
			if allocErr != nil {
				require.ErrorIs(t, allocErr, dwheap.ErrArenaExhausted)
				break
			}
			for j := range payload {
				payload[j] = byte(i)
			}
			live[p] = n
			liveBytes += n

		case 2: // free or reallocate a random live block
			if len(live) == 0 {
				break
			}
			var victim dwheap.Ptr
			for p := range live {
				victim = p
				break
			}

			if rng.Intn(2) == 0 {
				require.NoError(t, h.Free(victim))
				liveBytes -= live[victim]
				delete(live, victim)
			} else {
				newN := uint32(8 + rng.Intn(256))
				newP, _, reErr := h.Reallocate(victim, newN)
				require.NoError(t, reErr)
				liveBytes = liveBytes - live[victim] + newN
				delete(live, victim)
				live[newP] = newN
			}
		}

		findings := h.Check(false)
		require.Empty(t, findings, "step %d: %+v", i, findings)
	}

	for p := range live {
		require.NoError(t, h.Free(p))
	}

	findings := h.Check(false)
	require.Empty(t, findings, "%+v", findings)
}
