package lookup

import (
	"testing"

	"github.com/nilotpal-labs/ffcat/internal/bitmap"
	"github.com/stretchr/testify/require"
)

func TestProjectGrowsAndSets(t *testing.T) {
	out := bitmap.New(false, 0)
	Project([]uint64{2, 5}, out)
	require.True(t, out.Read(2))
	require.True(t, out.Read(5))
	require.False(t, out.Read(3))
}

func TestThreshold(t *testing.T) {
	require.Equal(t, 3, Threshold(100, 3))
	require.Equal(t, 2, Threshold(50, 3))
	require.Equal(t, 1, Threshold(1, 3), "threshold is floored at 1")
}

func TestScoreAcceptCountsAcrossBitmaps(t *testing.T) {
	a := bitmap.New(false, 4)
	_ = a.Write(0, true)
	_ = a.Write(1, true)

	b := bitmap.New(false, 4)
	_ = b.Write(1, true)
	_ = b.Write(2, true)

	c := bitmap.New(false, 4)
	_ = c.Write(1, true)

	result := ScoreAccept([]*bitmap.Bitmap{a, b, c}, 2)
	require.False(t, result.Read(0))
	require.True(t, result.Read(1), "bit 1 is hit by all three bitmaps")
	require.False(t, result.Read(2), "bit 2 is hit by only one bitmap")
}
