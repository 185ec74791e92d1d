package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBeforeFirstSave(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "mattercore.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mattercore.db")
	store, err := NewStore(path)
	require.NoError(t, err)

	want := []byte(`{"clients":[{"id":"cl-1","name":"A"}]}`)
	require.NoError(t, store.Save(context.Background(), want))

	// Upsert replaces the previous payload.
	want = []byte(`{"clients":[]}`)
	require.NoError(t, store.Save(context.Background(), want))

	got, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
	require.NoError(t, store.Close())

	// The payload survives reopening the file.
	reopened, err := NewStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	got, ok, err = reopened.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}
