package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/viant/afs"
)

// rootMarkers identify a JavaScript project root
var rootMarkers = []string{"package.json", ".git"}

// Locate searches for DefaultFile from path up to the enclosing project root.
// It returns an empty location when no config file is found.
func Locate(ctx context.Context, fs afs.Service, path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	dir := absPath
	object, err := fs.Object(ctx, absPath)
	if err != nil {
		return "", fmt.Errorf("failed to locate %s: %w", path, err)
	}
	if !object.IsDir() {
		dir = filepath.Dir(absPath)
	}
	for {
		candidate := filepath.Join(dir, DefaultFile)
		if ok, _ := fs.Exists(ctx, candidate); ok {
			return candidate, nil
		}
		if isProjectRoot(ctx, fs, dir) {
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func isProjectRoot(ctx context.Context, fs afs.Service, dir string) bool {
	for _, marker := range rootMarkers {
		if ok, _ := fs.Exists(ctx, filepath.Join(dir, marker)); ok {
			return true
		}
	}
	return false
}
