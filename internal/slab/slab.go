// Package slab implements the catalog engine's two-level slab pool: a
// generic arena that hands out stable slot indices for values of type T and
// never moves a value once allocated. Entries, file-data records, sections,
// and translation-index entries are all pools of one element type over this
// same allocator; date-time tree nodes are not allocated from it.
//
// The pool grows by appending L1 blocks to a slice (L2); each L1 block
// carries a fixed number of slots plus a free bitmap, and a pool-level
// bitmap tracks which L1 blocks still have room. Blocks are never freed:
// shrinking the arena is out of scope, matching the spec's allocator.
package slab

import (
	"fmt"

	"github.com/nilotpal-labs/ffcat/internal/bitmap"
)

// SlotIndex identifies a value's position in a Pool. It is stable for the
// value's lifetime: SlotIndex = l2Index*L1Size + l1Index.
type SlotIndex uint64

// l1Block holds L1Size slots of T plus a free bitmap (true = free).
type l1Block[T any] struct {
	slots []T
	free  *bitmap.Bitmap
}

func newL1Block[T any](size uint64) *l1Block[T] {
	return &l1Block[T]{
		slots: make([]T, size),
		free:  bitmap.New(true, size),
	}
}

// Pool is a generic two-level slab allocator for values of type T.
type Pool[T any] struct {
	l1Size  uint64
	blocks  []*l1Block[T]
	notFull *bitmap.Bitmap // one bit per L2 block, true = has a free slot
	count   uint64
}

// New creates a Pool whose L1 blocks each hold l1Size slots.
func New[T any](l1Size uint64) *Pool[T] {
	if l1Size == 0 {
		l1Size = 1
	}
	return &Pool[T]{
		l1Size:  l1Size,
		notFull: bitmap.New(false, 0),
	}
}

// Len returns the number of live values in the pool.
func (p *Pool[T]) Len() uint64 { return p.count }

// L1Size returns the configured block size.
func (p *Pool[T]) L1Size() uint64 { return p.l1Size }

// L2Len returns the number of L1 blocks currently allocated, i.e. the
// attribute's L2 length used to size lookup scratch bitmaps (spec §4.F).
func (p *Pool[T]) L2Len() uint64 { return uint64(len(p.blocks)) }

// Add allocates a new zero-valued T and returns a pointer to it along with
// its stable SlotIndex.
func (p *Pool[T]) Add() (*T, SlotIndex) {
	l2 := p.notFull.FirstOne(0)
	if l2 < 0 {
		p.blocks = append(p.blocks, newL1Block[T](p.l1Size))
		p.notFull.Grow(uint64(len(p.blocks)))
		l2 = int64(len(p.blocks) - 1)
		_ = p.notFull.Write(uint64(l2), true)
	}

	block := p.blocks[l2]
	l1 := block.free.FirstOne(0)
	if l1 < 0 {
		// Should not happen: notFull said this block has room.
		panic("slab: inconsistent free bitmap")
	}

	_ = block.free.Write(uint64(l1), false)
	if block.free.NumberOfOnes() == 0 {
		_ = p.notFull.Write(uint64(l2), false)
	}

	p.count++
	slot := SlotIndex(uint64(l2)*p.l1Size + uint64(l1))
	return &block.slots[l1], slot
}

// decompose splits a SlotIndex into its L2 block index and L1 offset.
func (p *Pool[T]) decompose(slot SlotIndex) (l2, l1 uint64) {
	return uint64(slot) / p.l1Size, uint64(slot) % p.l1Size
}

// Get returns the value at slot and whether it is currently live.
func (p *Pool[T]) Get(slot SlotIndex) (*T, bool) {
	l2, l1 := p.decompose(slot)
	if l2 >= uint64(len(p.blocks)) {
		return nil, false
	}
	block := p.blocks[l2]
	if block.free.Read(l1) {
		return nil, false
	}
	return &block.slots[l1], true
}

// Del releases the value at slot back to the pool. It returns IndexOutOfRange
// if slot falls outside every allocated L1 block, and FindFail if the slot
// is free.
func (p *Pool[T]) Del(slot SlotIndex) error {
	l2, l1 := p.decompose(slot)
	if l2 >= uint64(len(p.blocks)) {
		return fmt.Errorf("slab: %w: slot %d out of range", ErrIndexOutOfRange, slot)
	}

	block := p.blocks[l2]
	if block.free.Read(l1) {
		return fmt.Errorf("slab: %w: slot %d already free", ErrFindFail, slot)
	}

	var zero T
	block.slots[l1] = zero
	_ = block.free.Write(l1, true)
	_ = p.notFull.Write(l2, true)
	p.count--
	return nil
}
