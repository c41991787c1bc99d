package catalog

import (
	"testing"
	"time"

	"github.com/nilotpal-labs/ffcat/pkg/options"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	opts := options.NewDefaultOptions()
	return New(Config{Options: &opts})
}

func TestCreateLinkEntry(t *testing.T) {
	db := newTestDB(t)
	e, err := db.CreateEntry(nil, EID{1}, EntryTypeFile, CreatedByUser)
	require.NoError(t, err)
	e.FileName = "report.txt"
	require.NoError(t, db.LinkEntry(e))

	require.Equal(t, StateIndexed, e.State())
	require.Equal(t, e.ID, e.BranchID)
	require.Equal(t, 1, e.Depth)
	require.False(t, e.HasParent)

	found, err := db.eid.ExactLookup(eidHex(e.ID))
	require.NoError(t, err)
	require.Same(t, e, found)
}

func TestDuplicateEntryIDFails(t *testing.T) {
	db := newTestDB(t)
	id := EID{7}

	a, err := db.CreateEntry(nil, id, EntryTypeFile, CreatedByUser)
	require.NoError(t, err)
	a.FileName = "a.txt"
	require.NoError(t, db.LinkEntry(a))

	b, err := db.CreateEntry(nil, id, EntryTypeFile, CreatedByUser)
	require.NoError(t, err)
	b.FileName = "b.txt"
	require.Error(t, db.LinkEntry(b))
}

func TestDeleteEntryUnlinksAndFreesChildren(t *testing.T) {
	db := newTestDB(t)
	parent, err := db.CreateEntry(nil, EID{1}, EntryTypeGroup, CreatedByUser)
	require.NoError(t, err)
	parent.FileName = "folder"
	require.NoError(t, db.LinkEntry(parent))

	child, err := db.CreateEntry(parent, EID{2}, EntryTypeFile, CreatedByUser)
	require.NoError(t, err)
	child.FileName = "child.txt"
	require.NoError(t, db.LinkEntry(child))

	parentID, childID := parent.ID, child.ID
	require.NoError(t, db.DeleteEntry(parent))

	_, err = db.eid.ExactLookup(eidHex(parentID))
	require.Error(t, err)
	_, err = db.eid.ExactLookup(eidHex(childID))
	require.Error(t, err)
	require.Empty(t, parent.Children)
}

func TestVerifyEntryRejectsEmptyFileName(t *testing.T) {
	db := newTestDB(t)
	e, err := db.CreateEntry(nil, EID{9}, EntryTypeFile, CreatedByUser)
	require.NoError(t, err)
	require.Error(t, db.VerifyEntry(e, VerifyFlags{}))
}

func TestVerifyEntryAcceptsWellFormedEntry(t *testing.T) {
	db := newTestDB(t)
	e, err := db.CreateEntry(nil, EID{9}, EntryTypeFile, CreatedByUser)
	require.NoError(t, err)
	e.FileName = "ok.bin"
	require.NoError(t, db.VerifyEntry(e, VerifyFlags{}))
}

func TestCopyEntryGetsFreshID(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	src, err := db.CreateEntry(nil, EID{3}, EntryTypeFile, CreatedByUser)
	require.NoError(t, err)
	src.FileName = "orig.txt"
	src.TOD = &now
	require.NoError(t, db.LinkEntry(src))

	dst, err := db.CopyEntry(src, nil, false)
	require.NoError(t, err)
	require.NotEqual(t, src.ID, dst.ID)
	require.Equal(t, src.FileName, dst.FileName)
}

func TestFindChildrenViaFileNameExact(t *testing.T) {
	db := newTestDB(t)
	root := db.Root()

	a, _ := db.CreateEntry(root, EID{1}, EntryTypeFile, CreatedByUser)
	a.FileName = "dup.txt"
	require.NoError(t, db.LinkEntry(a))

	b, _ := db.CreateEntry(root, EID{2}, EntryTypeFile, CreatedByUser)
	b.FileName = "dup.txt"
	require.NoError(t, db.LinkEntry(b))

	matches := db.FindChildrenViaFileName(root, "dup.txt")
	require.Len(t, matches, 2)
}

func TestFindEntryInSubBranchPartialMatchAndScore(t *testing.T) {
	db := newTestDB(t)
	root := db.Root()

	a, _ := db.CreateEntry(root, EID{1}, EntryTypeFile, CreatedByUser)
	a.FileName = "report-2024.pdf"
	require.NoError(t, db.LinkEntry(a))
	fdA := db.AttachFileData(a)
	fdA.FileSize = 1024
	require.NoError(t, db.LinkFileData(fdA))

	b, _ := db.CreateEntry(root, EID{2}, EntryTypeFile, CreatedByUser)
	b.FileName = "summary-2024.pdf"
	require.NoError(t, db.LinkEntry(b))
	fdB := db.AttachFileData(b)
	fdB.FileSize = 2048
	require.NoError(t, db.LinkFileData(fdB))

	c, _ := db.CreateEntry(root, EID{3}, EntryTypeFile, CreatedByUser)
	c.FileName = "notes.txt"
	require.NoError(t, db.LinkEntry(c))
	fdC := db.AttachFileData(c)
	fdC.FileSize = 1024
	require.NoError(t, db.LinkFileData(fdC))

	// "name" criterion is a substring match: both a and b (but not c)
	// carry "2024" in their file name. "f_size" is also a substring match,
	// on the formatted size: "1024" occurs in a's and c's size but not in
	// b's "2048".
	criteria := []Criterion{
		{Name: "name", Value: "2024"},
		{Name: "f_size", Value: FormatSize(1024)},
	}

	// 100% score requires both criteria to hit -- only a qualifies.
	full := db.FindEntryInSubBranch(root, criteria, 100)
	require.Len(t, full, 1)
	require.Same(t, a, full[0])

	// 50% score accepts a hit on either criterion -- a, b and c all
	// qualify.
	partial := db.FindEntryInSubBranch(root, criteria, 50)
	require.ElementsMatch(t, []*Entry{a, b, c}, partial)
}

func TestFindEntryInSubBranchTagCriterion(t *testing.T) {
	db := newTestDB(t)
	root := db.Root()

	a, _ := db.CreateEntry(root, EID{1}, EntryTypeFile, CreatedByUser)
	a.FileName = "a.bin"
	a.SetTags([]string{"urgent", "reviewed"})
	require.NoError(t, db.LinkEntry(a))

	b, _ := db.CreateEntry(root, EID{2}, EntryTypeFile, CreatedByUser)
	b.FileName = "b.bin"
	b.SetTags([]string{"gent"}) // substring of "urgent", but not a tag boundary match
	require.NoError(t, db.LinkEntry(b))

	matches := db.FindEntryInSubBranch(root, []Criterion{{Name: "tag", Value: "urgent"}}, 100)
	require.Len(t, matches, 1)
	require.Same(t, a, matches[0])
}
