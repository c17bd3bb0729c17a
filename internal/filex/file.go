// Package filex holds small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// DefaultDataPath returns name inside the user's config directory
// (e.g. ~/.config/<app>/<name>), or name itself when that cannot be resolved.
func DefaultDataPath(app, name string) string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return name
	}
	return filepath.Join(dir, app, name)
}
