package list

// Links contains references to the previous and the next elements of an intrusive list.
// Links are stored inside the elements themselves so the list never allocates.
type Links[R comparable] struct {
	prev R
	next R
}

// Prev returns reference to the previous element or zero reference if there is no one.
func (l *Links[R]) Prev() R {
	return l.prev
}

// Next returns reference to the next element or zero reference if there is no one.
func (l *Links[R]) Next() R {
	return l.next
}

// Arena resolves element references into their embedded links.
// Zero value of R is reserved and means "no element".
type Arena[R comparable] interface {
	Links(r R) *Links[R]
}

// List represents an intrusive doubly linked list.
//
// Elements live in an external arena and are addressed by references (usually slot indices)
// instead of pointers, so the list itself consists only of head/tail references and a length.
// An element can be a member of a single list at a time.
// NOTE: Not thread-safe.
type List[R comparable] struct {
	head R
	tail R
	len  int
}

// Front returns the first element of list l or zero reference if the list is empty.
func (l *List[R]) Front() R {
	return l.head
}

// Back returns the last element of list l or zero reference if the list is empty.
func (l *List[R]) Back() R {
	return l.tail
}

// Len returns the number of elements of list l.
func (l *List[R]) Len() int {
	return l.len
}

// IsEmpty returns true if list l has no elements.
func (l *List[R]) IsEmpty() bool {
	return l.len == 0
}

// PushBack links element r at the back of list l.
func (l *List[R]) PushBack(a Arena[R], r R) error {
	var zero R
	if r == zero {
		return ErrorListElementIsNil
	}
	e := a.Links(r)
	e.prev = l.tail
	e.next = zero
	if l.tail != zero {
		a.Links(l.tail).next = r
	} else {
		l.head = r
	}
	l.tail = r
	l.len++
	return nil
}

// PushFront links element r at the front of list l.
func (l *List[R]) PushFront(a Arena[R], r R) error {
	var zero R
	if r == zero {
		return ErrorListElementIsNil
	}
	e := a.Links(r)
	e.prev = zero
	e.next = l.head
	if l.head != zero {
		a.Links(l.head).prev = r
	} else {
		l.tail = r
	}
	l.head = r
	l.len++
	return nil
}

// Remove unlinks element r from list l.
// The element must be a member of list l, it's links are cleaned on return.
func (l *List[R]) Remove(a Arena[R], r R) error {
	var zero R
	if r == zero {
		return ErrorListElementIsNil
	}
	if l.len == 0 {
		return ErrorListElementIsNotInTheList
	}
	e := a.Links(r)
	if e.prev != zero {
		a.Links(e.prev).next = e.next
	} else {
		if l.head != r {
			return ErrorListElementIsNotInTheList
		}
		l.head = e.next
	}
	if e.next != zero {
		a.Links(e.next).prev = e.prev
	} else {
		l.tail = e.prev
	}
	e.prev, e.next = zero, zero
	l.len--
	return nil
}

// PopFront unlinks the first element of list l and returns it.
// Zero reference is returned if the list is empty.
func (l *List[R]) PopFront(a Arena[R]) R {
	r := l.head
	var zero R
	if r == zero {
		return zero
	}
	_ = l.Remove(a, r)
	return r
}

// Iterator returns iterator over list l elements from front to back.
func (l *List[R]) Iterator(a Arena[R]) Iterator[R] {
	return NewIterator(l, a)
}

// Clean forgets all list elements. Links of the elements are left untouched.
func (l *List[R]) Clean() {
	var zero R
	l.head, l.tail, l.len = zero, zero, 0
}
