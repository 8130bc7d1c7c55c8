package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoStore_SaveOpenRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewPhotoStore(dir)
	require.NoError(t, err)

	path, err := store.Save(strings.NewReader("jpeg bytes"), ".JPG")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".jpg", filepath.Ext(path))
	assert.True(t, store.Exists(path))

	f, err := store.Open(path)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	require.NoError(t, store.Remove(path))
	assert.False(t, store.Exists(path))
	assert.NoError(t, store.Remove(path), "removing twice is fine")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp files left behind")
}

func TestPhotoStore_SaveWithoutExtension(t *testing.T) {
	store, err := NewPhotoStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save(strings.NewReader("x"), "")
	require.NoError(t, err)
	assert.Empty(t, filepath.Ext(path))
	assert.True(t, store.Exists(path))
}

func TestPhotoStore_RejectsPathsOutsideDir(t *testing.T) {
	root := t.TempDir()
	store, err := NewPhotoStore(filepath.Join(root, "uploads"))
	require.NoError(t, err)

	outside := filepath.Join(root, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o600))

	for _, p := range []string{
		outside,
		filepath.Join(root, "uploads", "..", "secret.txt"),
		filepath.Join(root, "uploads"),
	} {
		assert.False(t, store.Exists(p), p)
		assert.ErrorIs(t, store.Remove(p), ErrOutsideStore, p)
	}

	_, err = os.Stat(outside)
	assert.NoError(t, err)
}
