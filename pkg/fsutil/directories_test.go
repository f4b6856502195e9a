package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, base string) string
		wantErr bool
	}{
		{
			name: "creates nested directories",
			setup: func(_ *testing.T, base string) string {
				return filepath.Join(base, "a", "b", "c")
			},
		},
		{
			name: "idempotent on existing directory",
			setup: func(t *testing.T, base string) string {
				dir := filepath.Join(base, "existing")
				require.NoError(t, os.Mkdir(dir, 0o755))
				return dir
			},
		},
		{
			name: "fails when path is a file",
			setup: func(t *testing.T, base string) string {
				path := filepath.Join(base, "file")
				require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
				return path
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setup(t, t.TempDir())
			err := EnsureDir(path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		})
	}
}

func TestEnsureFileDir(t *testing.T) {
	base := t.TempDir()
	filePath := filepath.Join(base, "x", "y", "asset.png")

	require.NoError(t, EnsureFileDir(filePath))

	info, err := os.Stat(filepath.Join(base, "x", "y"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
