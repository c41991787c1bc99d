package existmatrix

import (
	"testing"

	"github.com/nilotpal-labs/ffcat/internal/bitmap"
	"github.com/stretchr/testify/require"
)

// fakePool is a minimal RemainingPool for tests: a static map of block
// index to the values still live in it.
type fakePool map[uint64][]string

func (p fakePool) ValuesInBlock(l1Index uint64) []string { return p[l1Index] }

func TestAddThenPartialMapFindsBlock(t *testing.T) {
	m := New(16, 4)
	m.Add("report.txt", 0)
	m.Add("photo.jpg", 1)

	buf := bitmap.New(false, 0)
	result := bitmap.New(false, 0)
	require.NoError(t, m.PartialMap("port", 0, -1, buf, result))
	require.True(t, result.Read(0))
	require.False(t, result.Read(1))
}

func TestPartialMapNoMatch(t *testing.T) {
	m := New(16, 4)
	m.Add("report.txt", 0)

	buf := bitmap.New(false, 0)
	result := bitmap.New(false, 0)
	require.NoError(t, m.PartialMap("zzz", 0, -1, buf, result))
	require.EqualValues(t, 0, result.NumberOfOnes())
}

func TestPartialMapNeedleLongerThanMax(t *testing.T) {
	m := New(4, 4)
	m.Add("abcd", 0)

	buf := bitmap.New(false, 0)
	result := bitmap.New(false, 0)
	require.NoError(t, m.PartialMap("abcdef", 0, -1, buf, result))
	require.EqualValues(t, 0, result.NumberOfOnes())
}

func TestDeleteClearsBitWhenNoOtherMember(t *testing.T) {
	m := New(16, 4)
	m.Add("solo.txt", 0)

	pool := fakePool{0: {}}
	m.Delete(pool, "solo.txt", 0)

	buf := bitmap.New(false, 0)
	result := bitmap.New(false, 0)
	require.NoError(t, m.PartialMap("solo", 0, -1, buf, result))
	require.EqualValues(t, 0, result.NumberOfOnes())
}

func TestDeleteKeepsBitWhenAnotherMemberShares(t *testing.T) {
	m := New(16, 4)
	m.Add("report.txt", 0)
	m.Add("reports.bin", 0)

	pool := fakePool{0: {"reports.bin"}}
	m.Delete(pool, "report.txt", 0)

	buf := bitmap.New(false, 0)
	result := bitmap.New(false, 0)
	require.NoError(t, m.PartialMap("report", 0, -1, buf, result))
	require.True(t, result.Read(0), "block 0 still holds reports.bin which shares the prefix")
}

func TestMaxLengthRecomputedAfterDelete(t *testing.T) {
	m := New(16, 4)
	m.Add("short", 0)
	m.Add("muchlonger", 0)
	require.Equal(t, 10, m.MaxLength())

	pool := fakePool{0: {"short"}}
	m.Delete(pool, "muchlonger", 0)
	require.Equal(t, 5, m.MaxLength())
}
