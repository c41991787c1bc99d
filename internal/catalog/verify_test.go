package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyEntryRejectsOversizedTagCount(t *testing.T) {
	db := newTestDB(t)
	db.opts.TagMaxNum = 2

	e, err := db.CreateEntry(nil, EID{1}, EntryTypeFile, CreatedByUser)
	require.NoError(t, err)
	e.FileName = "ok.bin"
	e.SetTags([]string{"a", "b", "c"})

	err = db.VerifyEntry(e, VerifyFlags{})
	require.Error(t, err)
}

func TestVerifyEntryRejectsOversizedTag(t *testing.T) {
	db := newTestDB(t)
	db.opts.TagLenMax = 6 // "|abcd|" fits, "|abcde|" doesn't

	e, err := db.CreateEntry(nil, EID{1}, EntryTypeFile, CreatedByUser)
	require.NoError(t, err)
	e.FileName = "ok.bin"
	e.SetTags([]string{"abcde"})

	err = db.VerifyEntry(e, VerifyFlags{})
	require.Error(t, err)
}

func TestVerifyEntryAcceptsWellFormedTags(t *testing.T) {
	db := newTestDB(t)

	e, err := db.CreateEntry(nil, EID{1}, EntryTypeFile, CreatedByUser)
	require.NoError(t, err)
	e.FileName = "ok.bin"
	e.SetTags([]string{"urgent", "reviewed"})

	require.NoError(t, db.VerifyEntry(e, VerifyFlags{}))
}

func TestVerifyFileDataRejectsSectionEndAtFileSize(t *testing.T) {
	db := newTestDB(t)

	e, err := db.CreateEntry(nil, EID{1}, EntryTypeFile, CreatedByUser)
	require.NoError(t, err)
	e.FileName = "ok.bin"

	fd := db.AttachFileData(e)
	fd.FileSize = 100
	fd.NormSectSize = 100
	fd.LastSectSize = 100
	s := db.AttachSection(fd)
	s.Start, s.End = 0, 100 // end == file_size, spec requires end < file_size

	require.Error(t, db.VerifyEntry(e, VerifyFlags{}))
}
