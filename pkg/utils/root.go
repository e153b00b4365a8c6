package utils

import (
	"errors"
	"os"
	"path/filepath"
)

// RootMarkers are the entries whose presence identifies a project root.
var RootMarkers = []string{"novelpack.yaml", "chapters"}

// ErrRootNotFound is returned when no directory up to the filesystem root carries a marker.
var ErrRootNotFound = errors.New("project root not found")

// FindProjectRoot walks up from start and returns the first directory holding one of RootMarkers.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		for _, marker := range RootMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRootNotFound
		}
		dir = parent
	}
}
