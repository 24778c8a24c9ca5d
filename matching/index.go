package matching

// indexSlotState is a state of the order index slot.
type indexSlotState uint8

const (
	indexSlotEmpty indexSlotState = iota
	indexSlotOccupied
	indexSlotDeleted // tombstone
)

type indexSlot struct {
	key   uint64
	ref   Ref
	state indexSlotState
}

// OrderIndex maps order id to the order slot reference.
// It is an open addressing hash table with linear probing and tombstones.
// Table size is always a power of two, the table grows twice when more than half of slots are live.
// NOTE: Not thread-safe.
type OrderIndex struct {
	slots      []indexSlot
	mask       uint64
	live       int
	tombstones int
}

// NewOrderIndex creates and returns new OrderIndex instance able to hold capacity orders without growing.
func NewOrderIndex(capacity int) *OrderIndex {
	size := 8
	for size < capacity*2 {
		size <<= 1
	}
	return &OrderIndex{
		slots: make([]indexSlot, size),
		mask:  uint64(size - 1),
	}
}

// Len returns amount of live entries.
func (idx *OrderIndex) Len() int {
	return idx.live
}

// Capacity returns the table size.
func (idx *OrderIndex) Capacity() int {
	return len(idx.slots)
}

// Find returns reference stored for the key.
func (idx *OrderIndex) Find(key uint64) (Ref, bool) {
	if s := idx.lookup(key); s != nil {
		return s.ref, true
	}
	return 0, false
}

// Slot returns pointer to the reference stored for the key inserting new entry if the key is absent.
// The pointer stays valid until the next insertion.
func (idx *OrderIndex) Slot(key uint64) (*Ref, bool) {
	if s := idx.lookup(key); s != nil {
		return &s.ref, false
	}

	// Prepare the table before inserting
	switch {
	case (idx.live+1)*2 > len(idx.slots):
		idx.rehash(len(idx.slots) * 2)
	case (idx.live+idx.tombstones+1)*4 > len(idx.slots)*3:
		// too many tombstones, probes could become endless
		idx.rehash(len(idx.slots))
	}

	s := idx.insertSlot(key)
	if s.state == indexSlotDeleted {
		idx.tombstones--
	}
	s.key = key
	s.ref = 0
	s.state = indexSlotOccupied
	idx.live++
	return &s.ref, true
}

// Insert stores reference for the key replacing existing one.
func (idx *OrderIndex) Insert(key uint64, ref Ref) {
	p, _ := idx.Slot(key)
	*p = ref
}

// Erase removes the key. Returns false if the key is absent.
func (idx *OrderIndex) Erase(key uint64) bool {
	s := idx.lookup(key)
	if s == nil {
		return false
	}
	s.state = indexSlotDeleted
	s.ref = 0
	idx.live--
	idx.tombstones++
	return true
}

// Clean removes all entries keeping the table size.
func (idx *OrderIndex) Clean() {
	clear(idx.slots)
	idx.live = 0
	idx.tombstones = 0
}

// Iterate calls f for every live entry until f returns false.
func (idx *OrderIndex) Iterate(f func(key uint64, ref Ref) bool) {
	for i := range idx.slots {
		if idx.slots[i].state == indexSlotOccupied {
			if !f(idx.slots[i].key, idx.slots[i].ref) {
				return
			}
		}
	}
}

// lookup returns occupied slot with the key or nil.
func (idx *OrderIndex) lookup(key uint64) *indexSlot {
	for i := hashOrderID(key) & idx.mask; ; i = (i + 1) & idx.mask {
		s := &idx.slots[i]
		switch s.state {
		case indexSlotEmpty:
			return nil
		case indexSlotOccupied:
			if s.key == key {
				return s
			}
		}
	}
}

// insertSlot returns the first tombstone met on the probe path or the terminating empty slot.
// The key must be absent.
func (idx *OrderIndex) insertSlot(key uint64) *indexSlot {
	var tombstone *indexSlot
	for i := hashOrderID(key) & idx.mask; ; i = (i + 1) & idx.mask {
		s := &idx.slots[i]
		switch s.state {
		case indexSlotEmpty:
			if tombstone != nil {
				return tombstone
			}
			return s
		case indexSlotDeleted:
			if tombstone == nil {
				tombstone = s
			}
		}
	}
}

// rehash moves all live entries into the new table of the given size dropping tombstones.
func (idx *OrderIndex) rehash(size int) {
	old := idx.slots
	idx.slots = make([]indexSlot, size)
	idx.mask = uint64(size - 1)
	idx.tombstones = 0
	for i := range old {
		if old[i].state != indexSlotOccupied {
			continue
		}
		for j := hashOrderID(old[i].key) & idx.mask; ; j = (j + 1) & idx.mask {
			if idx.slots[j].state == indexSlotEmpty {
				idx.slots[j] = old[i]
				break
			}
		}
	}
}

// hashOrderID mixes bits of the order id (64-bit finalizer of MurmurHash3).
func hashOrderID(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}
