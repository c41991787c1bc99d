// Package lookup implements the reusable parts of the layered lookup and
// multi-attribute scored match described in spec §4.F. L0 (direct hash),
// L1 (matrix-only candidate map) and L2 (matrix+pool walk, buffered) are
// already exposed by internal/transindex.Index; this package provides the
// two layers above that: L3 entry-bitmap projection and L4 scored
// intersection across criteria, both generic over the caller's notion of
// "entry slot".
package lookup

import (
	"math"

	"github.com/nilotpal-labs/ffcat/internal/bitmap"
)

// Project sets, in out, the bit for every slot in slots (spec §4.F L3:
// "entry-bitmap projection"). out is grown as needed; it is not cleared
// first, so repeated calls accumulate.
func Project(slots []uint64, out *bitmap.Bitmap) {
	for _, s := range slots {
		if out.Len() <= s {
			out.Grow(s + 1)
		}
		_ = out.Write(s, true)
	}
}

// Threshold computes the minimum number of per-criterion hits an entry
// needs to be accepted by ScoreAccept, per spec §4.E:
// round(scorePercent% × criteriaCount / 100), floored at 1.
func Threshold(scorePercent float64, criteriaCount int) int {
	t := int(math.Round(scorePercent * float64(criteriaCount) / 100))
	if t < 1 {
		t = 1
	}
	return t
}

// ScoreAccept implements spec §4.F's L4 layer: it counts, per bit, how many
// of the given per-attribute bitmaps set it, and returns a bitmap marking
// every bit whose count meets threshold.
func ScoreAccept(bitmaps []*bitmap.Bitmap, threshold int) *bitmap.Bitmap {
	maxLen := uint64(0)
	for _, b := range bitmaps {
		if b.Len() > maxLen {
			maxLen = b.Len()
		}
	}

	counts := make([]int, maxLen)
	for _, b := range bitmaps {
		for i := b.FirstOne(0); i >= 0; i = b.FirstOne(uint64(i) + 1) {
			counts[i]++
		}
	}

	out := bitmap.New(false, maxLen)
	for i, c := range counts {
		if c >= threshold {
			_ = out.Write(uint64(i), true)
		}
	}
	return out
}
