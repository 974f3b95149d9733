// File: internal/config/settings_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *SettingsStore {
	t.Helper()
	store, err := NewSettingsStore(filepath.Join(t.TempDir(), "settings"))
	require.NoError(t, err)
	return store
}

func TestSettingsStore_MissingFileIsEmpty(t *testing.T) {
	store := tempStore(t)

	val, err := store.Get(KeyDefaultOllamaModel)
	require.NoError(t, err)
	assert.Empty(t, val)

	model, err := store.DefaultModel()
	require.NoError(t, err)
	assert.Empty(t, model)
}

func TestSettingsStore_SetGetRoundTrip(t *testing.T) {
	store := tempStore(t)

	require.NoError(t, store.SetDefaultModel("bakllava"))

	model, err := store.DefaultModel()
	require.NoError(t, err)
	assert.Equal(t, "bakllava", model)
}

func TestSettingsStore_SetPreservesOtherKeys(t *testing.T) {
	store := tempStore(t)

	require.NoError(t, store.Set(KeyOpenAIAPIKey, "sk-test-123"))
	require.NoError(t, store.SetDefaultModel("llava:13b"))

	key, err := store.Get(KeyOpenAIAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", key)

	model, err := store.DefaultModel()
	require.NoError(t, err)
	assert.Equal(t, "llava:13b", model)
}

func TestSettingsStore_OverwriteValue(t *testing.T) {
	store := tempStore(t)

	require.NoError(t, store.SetDefaultModel("llava"))
	require.NoError(t, store.SetDefaultModel("moondream"))

	model, err := store.DefaultModel()
	require.NoError(t, err)
	assert.Equal(t, "moondream", model)
}

// Hand-edited files with comments, blank lines, and junk still load.
func TestSettingsStore_ToleratesHandEditedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings")
	contents := "# local operator settings\n" +
		"\n" +
		"DEFAULT_OLLAMA_MODEL = llava \n" +
		"this line has no separator\n" +
		"OPENAI_API_KEY=sk-abc\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	store, err := NewSettingsStore(path)
	require.NoError(t, err)

	model, err := store.DefaultModel()
	require.NoError(t, err)
	assert.Equal(t, "llava", model, "surrounding whitespace is trimmed")

	key, err := store.Get(KeyOpenAIAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "sk-abc", key)
}

func TestSettingsStore_CreatesParentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".operate", "settings")
	store, err := NewSettingsStore(path)
	require.NoError(t, err)

	require.NoError(t, store.SetDefaultModel("llava"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSettingsStore_FileIsSortedByKey(t *testing.T) {
	store := tempStore(t)

	require.NoError(t, store.Set("ZEBRA", "z"))
	require.NoError(t, store.Set("ALPHA", "a"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "ALPHA=a\nZEBRA=z\n", string(raw))
}
