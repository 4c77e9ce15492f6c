package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "NOTES.json")

	require.NoError(t, replaceFile(path, []byte(`[]`)))
	require.NoError(t, replaceFile(path, []byte(`[{"id":"n1"}]`)))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"n1"}]`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp file survives a successful write")
	assert.Equal(t, "NOTES.json", entries[0].Name())
}

func TestReplaceFile_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "TAGS.json")
	assert.Error(t, replaceFile(path, []byte(`[]`)))
}

func TestSweepTemp(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, tempPrefix+"NOTES.json-123"), []byte("{"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "TAGS.json"), []byte(`[]`), 0644))

	n, err := sweepTemp(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.NoFileExists(t, filepath.Join(dir, tempPrefix+"NOTES.json-123"))
	assert.FileExists(t, filepath.Join(dir, "TAGS.json"))
}

func TestKeyFromName(t *testing.T) {
	tests := []struct {
		name string
		key  string
		ok   bool
	}{
		{"NOTES.json", "NOTES", true},
		{"TAGS.json", "TAGS", true},
		{tempPrefix + "NOTES.json-42", "", false},
		{"readme.md", "", false},
		{".hidden.json", "", false},
	}
	for _, tt := range tests {
		key, ok := keyFromName(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		if tt.ok {
			assert.Equal(t, tt.key, key, tt.name)
		}
	}
}
