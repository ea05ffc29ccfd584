package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MemoryPath selects an ephemeral store instead of a file.
const MemoryPath = ":memory:"

const maxPathLength = 4096

// DataFile validates a path the application will create or append to, such
// as the history database or the debug log. The returned path is cleaned and
// absolute. MemoryPath is passed through untouched.
func DataFile(path string) (string, error) {
	if path == MemoryPath {
		return path, nil
	}
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > maxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", maxPathLength)
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("path contains null byte")
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(abs)
	switch {
	case err == nil && info.IsDir():
		return "", fmt.Errorf("%s is a directory", abs)
	case err != nil && !os.IsNotExist(err):
		return "", fmt.Errorf("checking path: %w", err)
	}
	return abs, nil
}
