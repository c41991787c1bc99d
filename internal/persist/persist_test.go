package persist

import (
	"bytes"
	"testing"
	"time"

	"github.com/nilotpal-labs/ffcat/internal/catalog"
	"github.com/nilotpal-labs/ffcat/pkg/options"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *catalog.Database {
	t.Helper()
	opts := options.NewDefaultOptions()
	return catalog.New(catalog.Config{Options: &opts})
}

func TestSaveLoadEmptyDatabase(t *testing.T) {
	db := newTestDB(t)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, db, Config{}))

	loaded := newTestDB(t)
	require.NoError(t, Load(&buf, loaded, Config{}))
}

func TestSaveLoadRoundTripSingleEntry(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC().Truncate(time.Second)

	e, err := db.CreateEntry(nil, catalog.EID{1, 2, 3}, catalog.EntryTypeFile, catalog.CreatedByUser)
	require.NoError(t, err)
	e.FileName = "report.txt"
	e.TagStr = "|urgent|"
	e.TOD = &now
	require.NoError(t, db.LinkEntry(e))

	fd := db.AttachFileData(e)
	fd.FileSize = 128
	fd.Checksum[catalog.ChecksumSHA256] = catalog.ChecksumSlot{Set: true, Bytes: bytes.Repeat([]byte{0xAB}, 32)}
	require.NoError(t, db.LinkFileData(fd))

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, db, Config{}))

	loaded := newTestDB(t)
	require.NoError(t, Load(&buf, loaded, Config{}))

	got, err := loaded.FindEntryExact(e.ID)
	require.NoError(t, err)
	require.Equal(t, "report.txt", got.FileName)
	require.Equal(t, "|urgent|", got.TagStr)
	require.NotNil(t, got.TOD)
	require.Equal(t, now.Unix(), got.TOD.Unix())
	require.NotNil(t, got.FileData)
	require.EqualValues(t, 128, got.FileData.FileSize)
	require.True(t, got.FileData.Checksum[catalog.ChecksumSHA256].Set)
}

func TestLoadRejectsBadPreamble(t *testing.T) {
	db := newTestDB(t)
	require.Error(t, Load(bytes.NewReader([]byte("not a catalog file")), db, Config{}))
}

func TestLoadRejectsWrongVersion(t *testing.T) {
	db := newTestDB(t)
	var buf bytes.Buffer
	buf.Write(preamble)
	buf.WriteString("99.99")
	require.Error(t, Load(&buf, db, Config{}))
}
