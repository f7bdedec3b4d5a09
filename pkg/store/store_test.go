package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmptyPath(t *testing.T) {
	_, err := New(Config{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestNew_Memory(t *testing.T) {
	store, err := New(Config{Path: ":memory:"})
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*MemoryStore)
	assert.True(t, ok, "\":memory:\" should select the in-memory store")
}

func TestNew_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "scan.db")

	store, err := New(Config{Path: dbPath})
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*SQLiteStore)
	assert.True(t, ok, "a file path should select the SQLite store")
}
