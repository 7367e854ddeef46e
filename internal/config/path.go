// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultDatabasePath is where the snapshot database lives unless
// overridden by configuration.
const DefaultDatabasePath = "$HOME/.local/share/glint/glint.db"

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DatabasePath resolves the database location, falling back to the
// default when the configured value is empty.
func DatabasePath(configured string) string {
	if configured == "" {
		configured = DefaultDatabasePath
	}

	expanded := ExpandPath(configured)
	if dir := filepath.Dir(expanded); dir != "" && dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}

	return expanded
}
