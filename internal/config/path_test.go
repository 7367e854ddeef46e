package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("GLINT_TEST_DIR", "/tmp/glint")

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "tilde prefix",
			path: "~/data/glint.db",
			want: filepath.Join(home, "data", "glint.db"),
		},
		{
			name: "bare tilde",
			path: "~",
			want: home,
		},
		{
			name: "environment variable",
			path: "$GLINT_TEST_DIR/glint.db",
			want: "/tmp/glint/glint.db",
		},
		{
			name: "absolute path untouched",
			path: "/var/lib/glint.db",
			want: "/var/lib/glint.db",
		},
		{
			name: "empty path",
			path: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.path))
		})
	}
}

func TestDatabasePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GLINT_TEST_BASE", dir)

	got := DatabasePath("$GLINT_TEST_BASE/nested/glint.db")
	assert.Equal(t, filepath.Join(dir, "nested", "glint.db"), got)

	// The parent directory is created on demand.
	info, err := os.Stat(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDatabasePath_Default(t *testing.T) {
	got := DatabasePath("")
	assert.Contains(t, got, "glint.db")
	assert.NotContains(t, got, "$HOME")
}
