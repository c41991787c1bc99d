package transindex

import (
	"testing"

	"github.com/nilotpal-labs/ffcat/internal/bitmap"
	"github.com/stretchr/testify/require"
)

// member is a minimal chainable target used to exercise a one-to-many
// index without depending on internal/catalog.
type member struct {
	id   string
	prev *member
	next *member
}

func memberLinkOps() LinkOps[*member] {
	return LinkOps[*member]{
		GetPrev: func(m *member) *member { return m.prev },
		SetPrev: func(m, prev *member) { m.prev = prev },
		GetNext: func(m *member) *member { return m.next },
		SetNext: func(m, next *member) { m.next = next },
		IsNil:   func(m *member) bool { return m == nil },
	}
}

func TestOneToOneAddLookupDuplicate(t *testing.T) {
	idx := NewOneToOne[*member]("eid", 4, 16)
	a := &member{id: "a"}

	require.NoError(t, idx.Add("abc123", a))

	got, err := idx.ExactLookup("abc123")
	require.NoError(t, err)
	require.Same(t, a, got)

	require.ErrorIs(t, idx.Add("abc123", &member{id: "b"}), ErrDuplicate)
}

func TestExactLookupMissing(t *testing.T) {
	idx := NewOneToOne[*member]("eid", 4, 16)
	_, err := idx.ExactLookup("nope")
	require.ErrorIs(t, err, ErrFindFail)
}

func TestOneToManyChainAndDelete(t *testing.T) {
	idx := NewOneToMany[*member]("fn", 4, 16, memberLinkOps())
	a := &member{id: "a"}
	b := &member{id: "b"}

	require.NoError(t, idx.Add("report.txt", a))
	require.NoError(t, idx.Add("report.txt", b))

	head, err := idx.ExactLookup("report.txt")
	require.NoError(t, err)
	require.Same(t, a, head)
	require.Same(t, b, head.next)

	require.NoError(t, idx.DeleteMember("report.txt", a))
	head, err = idx.ExactLookup("report.txt")
	require.NoError(t, err)
	require.Same(t, b, head)
	require.Nil(t, b.prev)

	require.NoError(t, idx.DeleteMember("report.txt", b))
	_, err = idx.ExactLookup("report.txt")
	require.ErrorIs(t, err, ErrFindFail)
}

func TestPartialLookupBuffered(t *testing.T) {
	idx := NewOneToMany[*member]("fn", 4, 32, memberLinkOps())
	require.NoError(t, idx.Add("report.txt", &member{id: "a"}))
	require.NoError(t, idx.Add("reports.bin", &member{id: "b"}))
	require.NoError(t, idx.Add("photo.jpg", &member{id: "c"}))

	buf := make([]*member, 4)
	mapBuf := bitmap.New(false, 0)
	mapResult := bitmap.New(false, 0)

	n, err := idx.PartialLookupBuffered("report", -1, -1, mapBuf, mapResult, buf)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestPartialLookupBufferedOverflow(t *testing.T) {
	idx := NewOneToMany[*member]("fn", 4, 32, memberLinkOps())
	require.NoError(t, idx.Add("report.txt", &member{id: "a"}))
	require.NoError(t, idx.Add("reports.bin", &member{id: "b"}))

	buf := make([]*member, 1)
	mapBuf := bitmap.New(false, 0)
	mapResult := bitmap.New(false, 0)

	_, err := idx.PartialLookupBuffered("report", -1, -1, mapBuf, mapResult, buf)
	require.ErrorIs(t, err, ErrBufferFull)
}

func TestCanonicalTagEscapesPipe(t *testing.T) {
	require.Equal(t, `|urgent|`, CanonicalTag("urgent"))
	require.Equal(t, `|a\|b|`, CanonicalTag("a|b"))
}

func TestFrameTagsSharesFencesBetweenTags(t *testing.T) {
	blob := FrameTags([]string{"urgent", "reviewed"})
	require.Equal(t, `|urgent|reviewed|`, blob)

	// CanonicalTag's single-tag frame must land on a tag boundary inside
	// the combined blob for every tag that went into it.
	require.Contains(t, blob, CanonicalTag("urgent"))
	require.Contains(t, blob, CanonicalTag("reviewed"))
	require.NotContains(t, blob, CanonicalTag("gent"))
}

func TestFrameTagsEmpty(t *testing.T) {
	require.Equal(t, "", FrameTags(nil))
}
