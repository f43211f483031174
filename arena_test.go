package slab

import (
	"errors"
	"testing"
)

func TestArena(t *testing.T) {
	const blockSize = 4096
	const numBlocks = 4

	t.Run("Alloc hands out full-length blocks", func(t *testing.T) {
		a, err := NewArena(blockSize, numBlocks)
		if err != nil {
			t.Fatal(err)
		}
		defer a.Close()

		if a.numFree() != numBlocks {
			t.Fatalf("expected %d free blocks in a new arena, got %d", numBlocks, a.numFree())
		}

		block, err := a.Alloc()
		if err != nil {
			t.Fatalf("failed to alloc: %v", err)
		}
		if len(block) != blockSize || cap(block) != blockSize {
			t.Errorf("expected len/cap %d, got len=%d cap=%d", blockSize, len(block), cap(block))
		}
		if a.numFree() != numBlocks-1 {
			t.Errorf("expected %d free blocks after Alloc, got %d", numBlocks-1, a.numFree())
		}

		if err := a.Free(block); err != nil {
			t.Fatalf("failed to free: %v", err)
		}
		if a.numFree() != numBlocks {
			t.Errorf("expected %d free blocks after Free, got %d", numBlocks, a.numFree())
		}
	})

	t.Run("Blocks do not overlap and survive round trips", func(t *testing.T) {
		a, err := NewArena(8, 2)
		if err != nil {
			t.Fatal(err)
		}
		defer a.Close()

		b1, err := a.Alloc()
		if err != nil {
			t.Fatal(err)
		}
		b2, err := a.Alloc()
		if err != nil {
			t.Fatal(err)
		}
		copy(b1, "11111111")
		copy(b2, "22222222")
		if string(b1) != "11111111" || string(b2) != "22222222" {
			t.Errorf("blocks overlap: b1=%q b2=%q", b1, b2)
		}
	})

	t.Run("Exhausted arena rejects Alloc", func(t *testing.T) {
		a, err := NewArena(blockSize, 1)
		if err != nil {
			t.Fatal(err)
		}
		defer a.Close()

		block, err := a.Alloc()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := a.Alloc(); !errors.Is(err, ErrCapacityExhausted) {
			t.Fatalf("expected ErrCapacityExhausted, got %v", err)
		}

		// Freeing makes the block available again.
		if err := a.Free(block); err != nil {
			t.Fatal(err)
		}
		if _, err := a.Alloc(); err != nil {
			t.Fatalf("failed to alloc after free: %v", err)
		}
	})

	t.Run("Double free is rejected", func(t *testing.T) {
		a, err := NewArena(blockSize, numBlocks)
		if err != nil {
			t.Fatal(err)
		}
		defer a.Close()

		block, err := a.Alloc()
		if err != nil {
			t.Fatal(err)
		}
		if err := a.Free(block); err != nil {
			t.Fatal(err)
		}
		if err := a.Free(block); !errors.Is(err, ErrDoubleFree) {
			t.Errorf("expected ErrDoubleFree, got %v", err)
		}
	})

	t.Run("Foreign and misaligned slices are rejected", func(t *testing.T) {
		a, err := NewArena(blockSize, numBlocks)
		if err != nil {
			t.Fatal(err)
		}
		defer a.Close()

		if err := a.Free(make([]byte, blockSize)); !errors.Is(err, ErrForeignBlock) {
			t.Errorf("expected ErrForeignBlock for outside slice, got %v", err)
		}
		if err := a.Free(nil); !errors.Is(err, ErrForeignBlock) {
			t.Errorf("expected ErrForeignBlock for nil, got %v", err)
		}

		block, err := a.Alloc()
		if err != nil {
			t.Fatal(err)
		}
		if err := a.Free(block[1:]); !errors.Is(err, ErrForeignBlock) {
			t.Errorf("expected ErrForeignBlock for misaligned slice, got %v", err)
		}
	})

	t.Run("Closed arena rejects all operations", func(t *testing.T) {
		a, err := NewArena(blockSize, numBlocks)
		if err != nil {
			t.Fatal(err)
		}
		block, err := a.Alloc()
		if err != nil {
			t.Fatal(err)
		}

		if err := a.Close(); err != nil {
			t.Fatalf("failed to close: %v", err)
		}
		if _, err := a.Alloc(); !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed from Alloc, got %v", err)
		}
		if err := a.Free(block); !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed from Free, got %v", err)
		}
		if err := a.Close(); err != nil {
			t.Errorf("expected second Close to be a no-op, got %v", err)
		}
	})

	t.Run("Invalid geometry is rejected", func(t *testing.T) {
		if _, err := NewArena(0, 1); err == nil {
			t.Error("expected error for zero block size")
		}
		if _, err := NewArena(1, 0); err == nil {
			t.Error("expected error for zero block count")
		}
	})
}
