package slab

import "errors"

// Sentinel errors returned by slab, registry and arena operations.
// Callers should match them with errors.Is.
var (
	// ErrCapacityExhausted indicates every slot is occupied. Remove a
	// value to make room; the failed operation changed nothing.
	ErrCapacityExhausted = errors.New("capacity exhausted")

	// ErrIndexOutOfBounds indicates an index outside the slab's fixed
	// addressable range. An in-range empty slot is not an error.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrKeyEmpty indicates an empty registry key.
	ErrKeyEmpty = errors.New("key cannot be empty")

	// ErrClosed indicates an operation on a closed arena.
	ErrClosed = errors.New("arena is closed")

	// ErrForeignBlock indicates a slice that is not a block handed out
	// by this arena.
	ErrForeignBlock = errors.New("block does not belong to this arena")

	// ErrDoubleFree indicates a block that is already free.
	ErrDoubleFree = errors.New("block is already free")
)
