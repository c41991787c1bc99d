// Package bitmap implements the fixed-base growable bit array described in
// the catalog engine design: a bit array with incrementally counted 0s and
// 1s, grow/shrink, AND/OR, copy, and the two permitted iterators
// (first-zero, first-one).
//
// The array itself is backed by github.com/bits-and-blooms/bitset; this
// package adds the counted-bits bookkeeping and the grow/shrink semantics
// the catalog engine relies on, neither of which the upstream type tracks.
package bitmap

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Bitmap is a growable bit array with its population of set/clear bits
// tracked incrementally so NumberOfOnes/NumberOfZeros are O(1).
type Bitmap struct {
	bits   *bitset.BitSet
	length uint64
	ones   uint64
}

// New allocates a Bitmap of the given length with every bit set to base,
// for parity with the spec's init(base, length) signature (true sets all
// bits, false leaves them clear).
func New(base bool, length uint64) *Bitmap {
	b := &Bitmap{bits: bitset.New(uint(length)), length: length}
	if base {
		for i := uint64(0); i < length; i++ {
			b.bits.Set(uint(i))
		}
		b.ones = length
	}
	return b
}

// Init re-initializes an existing Bitmap in place, discarding prior content.
func (b *Bitmap) Init(base bool, length uint64) {
	b.bits = bitset.New(uint(length))
	b.length = length
	b.ones = 0
	if base {
		for i := uint64(0); i < length; i++ {
			b.bits.Set(uint(i))
		}
		b.ones = length
	}
}

// Len returns the bitmap's current length in bits.
func (b *Bitmap) Len() uint64 { return b.length }

// Read returns the bit at index i.
func (b *Bitmap) Read(i uint64) bool {
	if i >= b.length {
		return false
	}
	return b.bits.Test(uint(i))
}

// Write sets the bit at index i to v, maintaining the counted 0s/1s.
func (b *Bitmap) Write(i uint64, v bool) error {
	if i >= b.length {
		return fmt.Errorf("bitmap: index %d out of range (length %d)", i, b.length)
	}
	prev := b.bits.Test(uint(i))
	if prev == v {
		return nil
	}
	b.bits.SetTo(uint(i), v)
	if v {
		b.ones++
	} else {
		b.ones--
	}
	return nil
}

// Zero clears every bit without changing the length.
func (b *Bitmap) Zero() {
	b.bits.ClearAll()
	b.ones = 0
}

// Grow extends the bitmap to newLen, zero-filling the new high bits.
// It is a no-op if newLen <= the current length.
func (b *Bitmap) Grow(newLen uint64) {
	if newLen <= b.length {
		return
	}
	b.bits = b.bits.Resize(uint(newLen))
	b.length = newLen
}

// Shrink truncates the bitmap to newLen, dropping any set bits at or above
// newLen from the counted population. It is a no-op if newLen >= the
// current length.
func (b *Bitmap) Shrink(newLen uint64) {
	if newLen >= b.length {
		return
	}
	dropped := uint64(0)
	for i := newLen; i < b.length; i++ {
		if b.bits.Test(uint(i)) {
			dropped++
		}
	}
	b.bits = b.bits.Resize(uint(newLen))
	b.length = newLen
	b.ones -= dropped
}

// alignedCopy returns a clone of src resized (grown with zeros, or
// truncated) to length n, per the "AND/OR across bitmaps of differing
// length are resolved by shrinking the operand then regrowing with zeros at
// higher indices" rule from the existence-matrix spec.
func alignedCopy(src *Bitmap, n uint64) *Bitmap {
	c := &Bitmap{bits: src.bits.Clone(), length: src.length, ones: src.ones}
	if n < c.length {
		c.Shrink(n)
	} else if n > c.length {
		c.Grow(n)
	}
	return c
}

// And computes a AND b into out. out is resized to match the longer operand.
func And(a, b, out *Bitmap) {
	n := a.length
	if b.length > n {
		n = b.length
	}
	aa := alignedCopy(a, n)
	bb := alignedCopy(b, n)
	out.bits = aa.bits.Intersection(bb.bits)
	out.length = n
	out.ones = out.bits.Count()
}

// Or computes a OR b into out. out is resized to match the longer operand.
func Or(a, b, out *Bitmap) {
	n := a.length
	if b.length > n {
		n = b.length
	}
	aa := alignedCopy(a, n)
	bb := alignedCopy(b, n)
	out.bits = aa.bits.Union(bb.bits)
	out.length = n
	out.ones = out.bits.Count()
}

// Copy replaces dst's content with src's.
func Copy(src, dst *Bitmap) {
	dst.bits = src.bits.Clone()
	dst.length = src.length
	dst.ones = src.ones
}

// FirstOne scans for the first set bit at or after skipTo. A skipTo at or
// past the bitmap's length is the documented no-match case, returning -1.
func (b *Bitmap) FirstOne(skipTo uint64) int64 {
	if skipTo >= b.length {
		return -1
	}
	idx, ok := b.bits.NextSet(uint(skipTo))
	if !ok || uint64(idx) >= b.length {
		return -1
	}
	return int64(idx)
}

// FirstZero scans for the first clear bit at or after skipTo, with the same
// no-match convention as FirstOne.
func (b *Bitmap) FirstZero(skipTo uint64) int64 {
	if skipTo >= b.length {
		return -1
	}
	idx, ok := b.bits.NextClear(uint(skipTo))
	if !ok || uint64(idx) >= b.length {
		return -1
	}
	return int64(idx)
}

// NumberOfOnes returns the current count of set bits.
func (b *Bitmap) NumberOfOnes() uint64 { return b.ones }

// NumberOfZeros returns the current count of clear bits. Together with
// NumberOfOnes this always sums to Len().
func (b *Bitmap) NumberOfZeros() uint64 { return b.length - b.ones }

// Clone returns an independent copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	return &Bitmap{bits: b.bits.Clone(), length: b.length, ones: b.ones}
}
