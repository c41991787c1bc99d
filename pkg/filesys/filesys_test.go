package filesys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	ok, err := Exists(file)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = Exists(filepath.Join(dir, "missing.txt"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestWalkFilesVisitsRegularFilesOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("b"), 0644))

	var seen []string
	err := WalkFiles(dir, func(path string, info os.FileInfo) error {
		seen = append(seen, path)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, seen, 2)
}

func TestWalkFilesRejectsNonDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	err := WalkFiles(file, func(string, os.FileInfo) error { return nil })
	require.ErrorIs(t, err, ErrIsNotDir)
}
