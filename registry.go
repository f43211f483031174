package slab

import "github.com/cespare/xxhash/v2"

// entry pairs a stored value with its key so lookups can reject hash
// collisions.
type entry[T any] struct {
	key   string
	value T
}

// Registry is a fixed-capacity string-keyed table built on a Slab. Keys are
// hashed to locate their slot, so registration and lookup cost one map
// access plus one indexed slab access. The slot index assigned to a key is
// stable until the key is deregistered, which makes it usable as a compact
// integer handle.
//
// Keys are distinguished by their 64-bit hash: in the unlikely event two
// distinct keys hash to the same value they contend for one slot, and the
// latest Register wins.
//
// A Registry is not safe for concurrent use without external
// synchronization.
type Registry[T any] struct {
	slab  *Slab[entry[T]]
	index map[uint64]int
}

// NewRegistry creates a registry holding at most capacity entries.
// It will panic if capacity is negative.
func NewRegistry[T any](capacity int) *Registry[T] {
	return &Registry[T]{
		slab:  New[entry[T]](capacity),
		index: make(map[uint64]int, capacity),
	}
}

// Register adds or updates an entry and returns its slot index. Updating an
// existing key keeps its index. It fails with ErrKeyEmpty for an empty key
// and with ErrCapacityExhausted when the registry is full.
func (r *Registry[T]) Register(key string, value T) (index int, err error) {
	if key == "" {
		return 0, ErrKeyEmpty
	}
	h := xxhash.Sum64String(key)
	if i, ok := r.index[h]; ok {
		e, _, err := r.slab.Ptr(i)
		if err != nil {
			return 0, err
		}
		e.key = key
		e.value = value
		return i, nil
	}
	index, err = r.slab.Insert(entry[T]{key: key, value: value})
	if err != nil {
		return 0, err
	}
	r.index[h] = index
	return index, nil
}

// Lookup retrieves the value registered under key.
// The ok result indicates whether the key was found.
func (r *Registry[T]) Lookup(key string) (value T, ok bool) {
	e, ok := r.entryFor(key)
	if !ok {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Index returns the slot index assigned to key.
func (r *Registry[T]) Index(key string) (index int, ok bool) {
	i, ok := r.index[xxhash.Sum64String(key)]
	if !ok {
		return 0, false
	}
	e, ok, _ := r.slab.Ptr(i)
	if !ok || e.key != key {
		return 0, false
	}
	return i, true
}

// At retrieves the value stored at a slot index previously returned by
// Register or Index, with the same contract as Slab.Get.
func (r *Registry[T]) At(index int) (value T, ok bool, err error) {
	e, ok, err := r.slab.Get(index)
	if !ok || err != nil {
		var zero T
		return zero, ok, err
	}
	return e.value, true, nil
}

// Deregister removes the entry registered under key, freeing its slot for
// reuse, and returns the removed value.
// The ok result indicates whether the key was found.
func (r *Registry[T]) Deregister(key string) (value T, ok bool) {
	h := xxhash.Sum64String(key)
	i, ok := r.index[h]
	if !ok {
		var zero T
		return zero, false
	}
	e, ok, _ := r.slab.Ptr(i)
	if !ok || e.key != key {
		var zero T
		return zero, false
	}
	removed, _, _ := r.slab.Remove(i)
	delete(r.index, h)
	return removed.value, true
}

// Has returns whether key is registered.
func (r *Registry[T]) Has(key string) bool {
	_, ok := r.entryFor(key)
	return ok
}

// Len returns the registry's capacity, the size of the addressable index
// space. Use Count for the number of registered entries.
func (r *Registry[T]) Len() int {
	return r.slab.Len()
}

// Count returns the number of registered entries.
func (r *Registry[T]) Count() int {
	return r.slab.Count()
}

// Clear removes every entry.
func (r *Registry[T]) Clear() {
	r.slab.Clear()
	clear(r.index)
}

func (r *Registry[T]) entryFor(key string) (*entry[T], bool) {
	i, ok := r.index[xxhash.Sum64String(key)]
	if !ok {
		return nil, false
	}
	e, ok, _ := r.slab.Ptr(i)
	if !ok || e.key != key {
		return nil, false
	}
	return e, true
}
