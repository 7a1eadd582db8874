//go:build !linux && !darwin

package main

import "github.com/mpaquette/dwheap/internal/arena"

func newArena(reservePages int) (arena.Arena, error) {
	return arena.NewFallbackArena(int32(reservePages) * arena.PageSize)
}
