package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "workspace.json"))
	require.NoError(t, err)

	payload, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, payload)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "workspace.json")
	store, err := NewStore(path)
	require.NoError(t, err)

	want := []byte(`{"clients":[],"cases":[]}`)
	require.NoError(t, store.Save(context.Background(), want))

	got, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	// Overwrite replaces, not appends.
	second := []byte(`{"clients":[{"id":"cl-1"}]}`)
	require.NoError(t, store.Save(context.Background(), second))
	got, _, err = store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "workspace.json"))
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), []byte(`{}`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "workspace.json", entries[0].Name())
}

func TestDefaultPathUsesStorageKey(t *testing.T) {
	store, err := NewStore("")
	require.NoError(t, err)
	assert.Equal(t, "matter-workspace-state.json", store.Path())
}
