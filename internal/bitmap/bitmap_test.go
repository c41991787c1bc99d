package bitmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewZeroedCounts(t *testing.T) {
	b := New(false, 10)
	require.EqualValues(t, 10, b.Len())
	require.EqualValues(t, 0, b.NumberOfOnes())
	require.EqualValues(t, 10, b.NumberOfZeros())
}

func TestNewBaseTrue(t *testing.T) {
	b := New(true, 5)
	require.EqualValues(t, 5, b.NumberOfOnes())
	require.EqualValues(t, 0, b.NumberOfZeros())
}

func TestWriteTracksCounts(t *testing.T) {
	b := New(false, 4)
	require.NoError(t, b.Write(1, true))
	require.True(t, b.Read(1))
	require.EqualValues(t, 1, b.NumberOfOnes())

	require.NoError(t, b.Write(1, true))
	require.EqualValues(t, 1, b.NumberOfOnes(), "re-writing the same value must not double-count")

	require.NoError(t, b.Write(1, false))
	require.EqualValues(t, 0, b.NumberOfOnes())
}

func TestWriteOutOfRange(t *testing.T) {
	b := New(false, 4)
	require.Error(t, b.Write(4, true))
}

func TestGrowZeroFillsHighBits(t *testing.T) {
	b := New(true, 4)
	b.Grow(8)
	require.EqualValues(t, 8, b.Len())
	require.EqualValues(t, 4, b.NumberOfOnes())
	require.False(t, b.Read(7))
}

func TestShrinkDropsHighBits(t *testing.T) {
	b := New(true, 8)
	b.Shrink(4)
	require.EqualValues(t, 4, b.Len())
	require.EqualValues(t, 4, b.NumberOfOnes())
}

func TestAndOrDifferingLengths(t *testing.T) {
	a := New(false, 3)
	_ = a.Write(0, true)
	_ = a.Write(1, true)

	b := New(false, 5)
	_ = b.Write(1, true)
	_ = b.Write(4, true)

	and := New(false, 0)
	And(a, b, and)
	require.EqualValues(t, 5, and.Len())
	require.True(t, and.Read(1))
	require.False(t, and.Read(0))
	require.False(t, and.Read(4))

	or := New(false, 0)
	Or(a, b, or)
	require.EqualValues(t, 5, or.Len())
	require.True(t, or.Read(0))
	require.True(t, or.Read(1))
	require.True(t, or.Read(4))
}

func TestFirstOneFirstZero(t *testing.T) {
	b := New(false, 6)
	_ = b.Write(2, true)
	_ = b.Write(4, true)

	require.EqualValues(t, 2, b.FirstOne(0))
	require.EqualValues(t, 4, b.FirstOne(3))
	require.EqualValues(t, -1, b.FirstOne(5))
	require.EqualValues(t, -1, b.FirstOne(6))

	require.EqualValues(t, 0, b.FirstZero(0))
	require.EqualValues(t, 5, b.FirstZero(5))
}

func TestCopyClone(t *testing.T) {
	a := New(false, 4)
	_ = a.Write(2, true)

	dst := New(true, 1)
	Copy(a, dst)
	require.EqualValues(t, a.Len(), dst.Len())
	require.True(t, dst.Read(2))

	clone := a.Clone()
	_ = a.Write(0, true)
	require.False(t, clone.Read(0), "clone must be independent of its source")
}
