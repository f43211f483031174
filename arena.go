package slab

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Arena is a fixed-capacity pool of equal-size byte blocks carved from a
// single anonymous mmap region. The region lives outside the Go heap, so
// GOGC never scans it, and its address is stable for the arena's lifetime.
// Block handout is tracked by a slab, so a freed block is the first one
// reused by a later Alloc.
//
// Unlike Slab and Registry, an Arena is safe for concurrent use.
type Arena struct {
	mu        sync.Mutex
	region    []byte
	blockSize int
	blocks    *Slab[struct{}]
	closed    bool
}

// NewArena maps a region of numBlocks blocks of blockSize bytes each, all
// free. Both sizes must be positive.
func NewArena(blockSize, numBlocks int) (*Arena, error) {
	if blockSize <= 0 || numBlocks <= 0 {
		return nil, fmt.Errorf("invalid arena geometry: %d blocks of %d bytes", numBlocks, blockSize)
	}
	totalSize := blockSize * numBlocks

	// Allocate virtual memory that is not part of the Go heap.
	region, err := unix.Mmap(-1, 0, totalSize,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot allocate %d bytes via mmap: %w", totalSize, err)
	}
	return &Arena{
		region:    region,
		blockSize: blockSize,
		blocks:    New[struct{}](numBlocks),
	}, nil
}

// Alloc hands out one free block, full-length with capacity clipped to the
// block boundary. The block is not zeroed when it is reused.
// It fails with ErrCapacityExhausted when every block is handed out and with
// ErrClosed after Close.
func (a *Arena) Alloc() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, ErrClosed
	}
	i, err := a.blocks.Insert(struct{}{})
	if err != nil {
		return nil, err
	}
	offset := i * a.blockSize
	return a.region[offset : offset+a.blockSize : offset+a.blockSize], nil
}

// Free returns a block obtained from Alloc to the arena. The slice may have
// been shortened but must still start at its block boundary. Slices from
// outside the region fail with ErrForeignBlock; freeing a block twice fails
// with ErrDoubleFree.
func (a *Arena) Free(block []byte) error {
	if cap(block) == 0 {
		return ErrForeignBlock
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.region)))
	p := uintptr(unsafe.Pointer(unsafe.SliceData(block)))
	if p < base || p >= base+uintptr(len(a.region)) {
		return ErrForeignBlock
	}
	offset := int(p - base)
	if offset%a.blockSize != 0 {
		return ErrForeignBlock
	}
	if _, ok, err := a.blocks.Remove(offset / a.blockSize); err != nil {
		return err
	} else if !ok {
		return ErrDoubleFree
	}
	return nil
}

// Close unmaps the region, invalidating every block the arena handed out.
// Closing an already closed arena is a no-op.
func (a *Arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true
	region := a.region
	a.region = nil
	a.blocks.Clear()
	if err := unix.Munmap(region); err != nil {
		return fmt.Errorf("failed to unmap arena region: %w", err)
	}
	return nil
}

// BlockSize returns the size of each block in bytes.
func (a *Arena) BlockSize() int {
	return a.blockSize
}

// numFree returns the number of blocks available for handout.
// It is primarily intended as a helper method in tests.
func (a *Arena) numFree() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.blocks.Len() - a.blocks.Count()
}
