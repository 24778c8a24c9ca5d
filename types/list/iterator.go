package list

// Iterator with ability to stay valid when current element is removed from list.
type Iterator[R comparable] struct {
	list    *List[R]
	arena   Arena[R]
	current R
	next    R
	started bool
}

// Creates iterator. Iterator is not valid until Next() call.
func NewIterator[R comparable](list *List[R], arena Arena[R]) Iterator[R] {
	return Iterator[R]{
		list:  list,
		arena: arena,
	}
}

func (it *Iterator[R]) Current() R {
	return it.current
}

func (it *Iterator[R]) Next() bool {
	var zero R
	if !it.started {
		// 1. start iteration
		it.started = true
		it.current = it.list.Front()
	} else {
		// 2. next element is remembered before current one could be removed
		it.current = it.next
	}

	if it.current == zero {
		it.next = zero
		return false
	}
	it.next = it.arena.Links(it.current).next
	return true
}

func (it *Iterator[R]) Valid() bool {
	var zero R
	return it.current != zero
}
