package slab

// Iterator walks a slab's occupied slots in ascending index order, skipping
// empty ones. It is lazy and finite; obtain a fresh Iterator from Iter to
// restart. Mutating the slab while advancing an Iterator is a programmer
// error and leaves the iteration order undefined.
type Iterator[T any] struct {
	slab *Slab[T]
	next int
}

// Iter returns an iterator positioned before the first occupied slot.
func (s *Slab[T]) Iter() *Iterator[T] {
	return &Iterator[T]{slab: s}
}

// Next advances to the next occupied slot and returns a pointer to its
// value. It returns false once every occupied slot has been visited.
func (it *Iterator[T]) Next() (*T, bool) {
	for it.next < len(it.slab.slots) {
		i := it.next
		it.next++
		if it.slab.slots[i].occupied {
			return &it.slab.slots[i].value, true
		}
	}
	return nil, false
}
