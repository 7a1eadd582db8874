//go:build dwheap_strict

package verify_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpaquette/dwheap/internal/freelist"
	"github.com/mpaquette/dwheap/internal/verify"
)

func TestCheckPanicsOnFirstViolationUnderStrictTag(t *testing.T) {
	data, offs, epilogueBP := heapOf([]int32{16, 16, 16}, []bool{false, false, true})
	head := freelist.Insert(data, base, 0, offs[0])
	head = freelist.Insert(data, base, head, offs[1])

	require.Panics(t, func() {
		verify.Check(data, base, head, epilogueBP, false)
	})
}
