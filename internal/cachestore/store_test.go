package cachestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azw-io/azapi/pkg/azapi"
)

func TestDefaultFilePath(t *testing.T) {
	assert.Equal(t, os.Args[0]+".http_cache_rest", DefaultFilePath(azapi.APITypeREST))
	assert.Equal(t, os.Args[0]+".http_cache_graph", DefaultFilePath(azapi.APITypeGraph))
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache")
	store := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []byte("blob")))

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), data)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_Load_MissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent"))

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileStore_Save_BadDirectory(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing-dir", "cache"))

	assert.Error(t, store.Save(context.Background(), []byte("blob")))
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	blob := []byte("blob")
	require.NoError(t, store.Save(ctx, blob))

	// The store keeps its own copy.
	blob[0] = 'B'

	data, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), data)
}

func TestNoOpStore(t *testing.T) {
	store := NewNoOpStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []byte("blob")))

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestNew(t *testing.T) {
	t.Run("nil config defaults to file", func(t *testing.T) {
		store, err := New(nil, azapi.APITypeREST)
		require.NoError(t, err)

		fileStore, ok := store.(*FileStore)
		require.True(t, ok)
		assert.Equal(t, DefaultFilePath(azapi.APITypeREST), fileStore.Path())
	})

	t.Run("file with explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache")

		store, err := New(&azapi.CacheConfig{Type: azapi.CacheTypeFile, FilePath: path}, azapi.APITypeREST)
		require.NoError(t, err)

		fileStore, ok := store.(*FileStore)
		require.True(t, ok)
		assert.Equal(t, path, fileStore.Path())
	})

	t.Run("memory", func(t *testing.T) {
		store, err := New(&azapi.CacheConfig{Type: azapi.CacheTypeMemory}, azapi.APITypeREST)
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, store)
	})

	t.Run("none", func(t *testing.T) {
		store, err := New(&azapi.CacheConfig{Type: azapi.CacheTypeNone}, azapi.APITypeGraph)
		require.NoError(t, err)
		assert.IsType(t, &NoOpStore{}, store)
	})

	t.Run("nats without connection details", func(t *testing.T) {
		_, err := New(&azapi.CacheConfig{Type: azapi.CacheTypeNATS}, azapi.APITypeREST)
		assert.ErrorIs(t, err, ErrNATSConfigRequired)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := New(&azapi.CacheConfig{Type: "redis"}, azapi.APITypeREST)
		assert.ErrorIs(t, err, ErrUnsupportedCacheType)
	})
}
