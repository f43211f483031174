// Package slab implements a fixed-capacity slab allocator.
// It supports stable-index insertion, direct indexed lookup, removal and
// ordered iteration over a preallocated set of slots, without ever resizing.
package slab

import "fmt"

// slot is one addressable cell of the backing store.
// The occupied flag is the single source of truth for whether a value is
// present at an index.
type slot[T any] struct {
	value    T
	occupied bool
}

// Slab is a preallocated set of optional value slots. Capacity is fixed at
// construction; insertion reuses freed slots (most recently freed first)
// before touching never-used ones, so indices handed out by Insert stay
// valid until the slot is removed.
//
// A Slab is not safe for concurrent use without external synchronization,
// and must not be mutated while an Iterator over it is being advanced.
type Slab[T any] struct {
	slots []slot[T]

	// free holds previously freed indices, reused LIFO by Insert.
	// watermark is the lowest never-used index; together they satisfy
	// watermark == occupied + len(free).
	free      []int
	watermark int
	occupied  int
}

// New creates a slab with exactly capacity slots, all empty. A capacity of
// zero is legal and yields a slab that rejects every insertion.
// It will panic if capacity is negative.
func New[T any](capacity int) *Slab[T] {
	if capacity < 0 {
		panic("slab: negative capacity")
	}
	return &Slab[T]{
		slots: make([]slot[T], capacity),
		free:  make([]int, 0, capacity),
	}
}

// Insert stores value in the next available slot and returns its index.
// It fails with ErrCapacityExhausted when every slot is occupied, leaving
// the slab unchanged.
func (s *Slab[T]) Insert(value T) (index int, err error) {
	if s.occupied == len(s.slots) {
		return 0, ErrCapacityExhausted
	}
	if n := len(s.free); n > 0 {
		index = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		index = s.watermark
		s.watermark++
	}
	s.slots[index] = slot[T]{value: value, occupied: true}
	s.occupied++
	return index, nil
}

// Get retrieves the value stored at index.
// The ok result reports whether the slot is occupied; an in-range empty slot
// is a miss, not an error. An index outside [0, Len()) fails with
// ErrIndexOutOfBounds.
func (s *Slab[T]) Get(index int) (value T, ok bool, err error) {
	if index < 0 || index >= len(s.slots) {
		return value, false, s.boundsError(index)
	}
	if !s.slots[index].occupied {
		return value, false, nil
	}
	return s.slots[index].value, true, nil
}

// Ptr is the mutable variant of Get. The returned pointer aliases the
// backing store and is valid until the slot is removed or the slab cleared.
func (s *Slab[T]) Ptr(index int) (value *T, ok bool, err error) {
	if index < 0 || index >= len(s.slots) {
		return nil, false, s.boundsError(index)
	}
	if !s.slots[index].occupied {
		return nil, false, nil
	}
	return &s.slots[index].value, true, nil
}

// Has returns whether index is in range and its slot is occupied.
func (s *Slab[T]) Has(index int) bool {
	return index >= 0 && index < len(s.slots) && s.slots[index].occupied
}

// Remove empties the slot at index and returns the value it held. The freed
// index is the first one reused by a later Insert. Removing an in-range slot
// that is already empty is a no-op with ok=false. An index outside
// [0, Len()) fails with ErrIndexOutOfBounds.
func (s *Slab[T]) Remove(index int) (value T, ok bool, err error) {
	if index < 0 || index >= len(s.slots) {
		return value, false, s.boundsError(index)
	}
	if !s.slots[index].occupied {
		return value, false, nil
	}
	value = s.slots[index].value
	s.slots[index] = slot[T]{} // Zero the cell so no stale value is reachable.
	s.free = append(s.free, index)
	s.occupied--
	return value, true, nil
}

// Len returns the slab's capacity, the size of the addressable index space.
// This is deliberately not the number of stored values: the traversal
// pattern for a slab is to walk indices 0..Len() and check each slot with
// Get or Has. Use Count for the number of occupied slots.
func (s *Slab[T]) Len() int {
	return len(s.slots)
}

// Count returns the number of occupied slots.
func (s *Slab[T]) Count() int {
	return s.occupied
}

// Clear empties every slot, dropping all stored values and resetting slot
// reuse order to a fresh slab's.
func (s *Slab[T]) Clear() {
	clear(s.slots)
	s.free = s.free[:0]
	s.watermark = 0
	s.occupied = 0
}

// Clone returns a slab with the same capacity, occupancy and slot reuse
// order, holding shallow copies of the stored values.
func (s *Slab[T]) Clone() *Slab[T] {
	c := &Slab[T]{
		slots:     make([]slot[T], len(s.slots)),
		free:      make([]int, len(s.free), cap(s.free)),
		watermark: s.watermark,
		occupied:  s.occupied,
	}
	copy(c.slots, s.slots)
	copy(c.free, s.free)
	return c
}

func (s *Slab[T]) boundsError(index int) error {
	return fmt.Errorf("%w: index %d, capacity %d", ErrIndexOutOfBounds, index, len(s.slots))
}
