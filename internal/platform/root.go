package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrRootNotFound is returned by FindRoot when no workspace marker exists above the start directory.
var ErrRootNotFound = errors.New("workspace root not found")

// DefaultRoot returns ~/Documents/MyNotes.
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Documents", "MyNotes"), nil
}

// FindRoot walks up from startDir looking for a directory that holds the
// system dir (e.g. .folio) and returns its absolute path.
func FindRoot(startDir, systemDir string) (string, error) {
	if systemDir == "" {
		systemDir = ".folio"
	}
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if isDir(filepath.Join(dir, systemDir)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRootNotFound
		}
		dir = parent
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
