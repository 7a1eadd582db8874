//go:build linux || darwin

package arena

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// UnixArena reserves a large span of address space up front with
// mmap(PROT_NONE) and commits pages into it with mprotect as the heap
// grows, so the backing array's address never moves: every offset handed
// out by the heap stays valid for the arena's lifetime.
//
// Grounded on the teacher's mmap loader (hive/loader_unix.go), adapted from
// a single-shot file mapping to an incrementally committed anonymous one.
type UnixArena struct {
	reserved []byte // full PROT_NONE reservation, len == cap == reserveBytes
	hi       int32  // bytes currently committed (PROT_READ|PROT_WRITE)
}

// NewUnixArena reserves reserveBytes of address space for the arena to grow
// into. reserveBytes is rounded up to a page boundary. No physical memory
// is committed until Grow is called.
func NewUnixArena(reserveBytes int32) (*UnixArena, error) {
	n := RoundUpPage(reserveBytes)
	data, err := unix.Mmap(-1, 0, int(n), unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("arena: reserve %d bytes: %w", n, err)
	}
	return &UnixArena{reserved: data}, nil
}

// Grow implements Arena.
func (a *UnixArena) Grow(bytes int32) (int32, error) {
	n := RoundUpPage(bytes)
	if a.hi+n > int32(len(a.reserved)) {
		return 0, fmt.Errorf("arena: grow by %d exceeds reservation of %d bytes", n, len(a.reserved))
	}
	if err := unix.Mprotect(a.reserved[a.hi:a.hi+n], unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return 0, fmt.Errorf("arena: commit %d bytes: %w", n, err)
	}
	offset := a.hi
	a.hi += n
	return offset, nil
}

// Bytes implements Arena.
func (a *UnixArena) Bytes() []byte { return a.reserved[:a.hi] }

// Lo implements Arena.
func (a *UnixArena) Lo() int32 { return 0 }

// Hi implements Arena.
func (a *UnixArena) Hi() int32 { return a.hi }

// Size implements Arena.
func (a *UnixArena) Size() int32 { return a.hi }

// Close releases the reservation. The arena must not be used afterward.
func (a *UnixArena) Close() error {
	if a.reserved == nil {
		return nil
	}
	err := unix.Munmap(a.reserved)
	a.reserved = nil
	a.hi = 0
	return err
}
