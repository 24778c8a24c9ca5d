package matching

import (
	"math/bits"

	"github.com/cryptonstudio/ladder-matching-engine/types/list"
)

// Ref references an order slot inside the Allocator.
// Zero Ref is reserved and never returned by the Allocator so it is used as nil link.
type Ref uint32

// Allocator is a chunked pool of order slots.
// Chunks are allocated once and never moved so a Ref stays valid during the whole life of the allocator.
// Released slots are reused in unspecified order.
// NOTE: Not thread-safe.
type Allocator struct {
	chunks [][]Order
	shift  uint // log2 of the chunk size
	mask   Ref  // chunk size - 1

	// Free slots
	free []Ref
}

// NewAllocator creates and returns new Allocator instance.
// Chunk size is rounded up to the nearest power of two.
func NewAllocator(chunkSize int) *Allocator {
	if chunkSize < 2 {
		chunkSize = 2
	}
	shift := uint(bits.Len(uint(chunkSize - 1)))
	return &Allocator{
		shift: shift,
		mask:  Ref(1)<<shift - 1,
	}
}

////////////////////////////////////////////////////////////////
// Orders
////////////////////////////////////////////////////////////////

// Allocate takes free slot, initializes the order in it and returns the slot reference.
// Allocation never fails, new chunk is appended when there are no free slots.
func (a *Allocator) Allocate(order Order) Ref {
	if len(a.free) == 0 {
		a.grow()
	}
	ref := a.free[len(a.free)-1]
	a.free = a.free[:len(a.free)-1]
	*a.Order(ref) = order
	return ref
}

// Deallocate releases the slot. The slot is neither cleaned nor validated.
func (a *Allocator) Deallocate(ref Ref) {
	a.free = append(a.free, ref)
}

// Order returns the order stored in the slot.
func (a *Allocator) Order(ref Ref) *Order {
	return &a.chunks[ref>>a.shift][ref&a.mask]
}

// Links returns queue links of the order stored in the slot.
func (a *Allocator) Links(ref Ref) *list.Links[Ref] {
	return &a.chunks[ref>>a.shift][ref&a.mask].links
}

// grow appends new chunk and pushes all its slots to the free list.
// Slots are pushed in reverse order so lower references are used first.
func (a *Allocator) grow() {
	size := int(a.mask) + 1
	first := Ref(len(a.chunks)) << a.shift
	a.chunks = append(a.chunks, make([]Order, size))
	if cap(a.free)-len(a.free) < size {
		free := make([]Ref, len(a.free), len(a.free)+size)
		copy(free, a.free)
		a.free = free
	}
	for i := size - 1; i >= 0; i-- {
		ref := first + Ref(i)
		if ref == 0 {
			// reserved for nil link
			continue
		}
		a.free = append(a.free, ref)
	}
}

////////////////////////////////////////////////////////////////
// Statistics
////////////////////////////////////////////////////////////////

// Chunks returns amount of allocated chunks.
func (a *Allocator) Chunks() int {
	return len(a.chunks)
}

// ChunkSize returns amount of slots in every chunk.
func (a *Allocator) ChunkSize() int {
	return int(a.mask) + 1
}

// Capacity returns total amount of usable slots.
func (a *Allocator) Capacity() int {
	if len(a.chunks) == 0 {
		return 0
	}
	return len(a.chunks)*a.ChunkSize() - 1
}

// Available returns amount of free slots.
func (a *Allocator) Available() int {
	return len(a.free)
}

// InUse returns amount of allocated slots.
func (a *Allocator) InUse() int {
	return a.Capacity() - a.Available()
}
