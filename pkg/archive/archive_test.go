package archive

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func TestSupported(t *testing.T) {
	e := NewExtractor()

	assert.True(t, e.Supported("assets/bundle.zip"))
	assert.True(t, e.Supported("assets/Bundle.TAR.GZ"))
	assert.False(t, e.Supported("images/maps/map1.png"))
	assert.False(t, e.Supported("langues/tfz_en"))
}

func TestExtractAll(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "bundle.zip")
	writeTestZip(t, archivePath, map[string]string{
		"readme.txt":     "hello",
		"sub/nested.txt": "nested content",
	})

	e := NewExtractor()
	require.NoError(t, e.ExtractAll(context.Background(), archivePath))

	content, err := os.ReadFile(filepath.Join(dir, "bundle.zip.unpacked", "readme.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	content, err = os.ReadFile(filepath.Join(dir, "bundle.zip.unpacked", "sub", "nested.txt"))
	require.NoError(t, err)
	assert.Equal(t, "nested content", string(content))
}

func TestExtractAll_NotAnArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.zip")
	require.NoError(t, os.WriteFile(path, []byte("not really a zip"), 0o644))

	e := NewExtractor()
	assert.Error(t, e.ExtractAll(context.Background(), path))
}
