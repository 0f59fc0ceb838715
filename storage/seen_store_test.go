package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeenStoreMissingFile(t *testing.T) {
	t.Parallel()

	store, err := LoadSeenStore(filepath.Join(t.TempDir(), "seen_listings.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
	assert.False(t, store.Contains("anything"))
}

func TestSeenStoreRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seen_listings.json")

	store, err := LoadSeenStore(path)
	require.NoError(t, err)

	store.Add("987654")
	store.Add("123456")
	require.NoError(t, store.Save())

	reloaded, err := LoadSeenStore(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Len())
	assert.True(t, reloaded.Contains("987654"))
	assert.True(t, reloaded.Contains("123456"))
	assert.False(t, reloaded.Contains("555"))
}

func TestSeenStoreFileShape(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seen_listings.json")

	store, err := LoadSeenStore(path)
	require.NoError(t, err)
	store.Add("zz-last")
	store.Add("aa-first")
	require.NoError(t, store.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var f struct {
		Listings  []string `json:"listings"`
		UpdatedAt string   `json:"updated_at"`
	}
	require.NoError(t, json.Unmarshal(data, &f))
	assert.Equal(t, []string{"aa-first", "zz-last"}, f.Listings)

	_, err = time.Parse(time.RFC3339, f.UpdatedAt)
	assert.NoError(t, err)
}

func TestSeenStoreAddIdempotent(t *testing.T) {
	t.Parallel()

	store, err := LoadSeenStore(filepath.Join(t.TempDir(), "seen_listings.json"))
	require.NoError(t, err)

	store.Add("987654")
	store.Add("987654")
	assert.Equal(t, 1, store.Len())
}

func TestLoadSeenStoreCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seen_listings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadSeenStore(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestSeenStoreSaveFailure(t *testing.T) {
	t.Parallel()

	store, err := LoadSeenStore(filepath.Join(t.TempDir(), "missing", "nested", "seen.json"))
	require.NoError(t, err)

	store.Add("987654")
	assert.Error(t, store.Save())
}
