package ffcat

import (
	"bytes"
	"testing"

	"github.com/nilotpal-labs/ffcat/internal/catalog"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	db := New()
	e, err := db.CreateEntry(nil, catalog.EID{1}, catalog.EntryTypeFile, catalog.CreatedByUser)
	require.NoError(t, err)
	e.FileName = "a.bin"
	require.NoError(t, db.LinkEntry(e))

	var buf bytes.Buffer
	require.NoError(t, db.Save(&buf, 0))

	loaded := New()
	require.NoError(t, loaded.Load(&buf, 0))

	got, err := loaded.FindEntryExact(e.ID)
	require.NoError(t, err)
	require.Equal(t, "a.bin", got.FileName)
}

func TestRegistryOpenReusesHandle(t *testing.T) {
	reg := NewRegistry()
	a := reg.Open("main")
	b := reg.Open("main")
	require.Same(t, a, b)

	names := reg.List()
	require.Equal(t, []string{"main"}, names)

	reg.Close("main")
	_, ok := reg.Get("main")
	require.False(t, ok)
}

func TestRegistryOpenDistinctNames(t *testing.T) {
	reg := NewRegistry()
	a := reg.Open("a")
	b := reg.Open("b")
	require.NotSame(t, a, b)
	require.ElementsMatch(t, []string{"a", "b"}, reg.List())
}
