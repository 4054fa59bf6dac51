//go:build !unix

package scanner

import (
	"os"
	"path/filepath"
)

// dirKey identifies a directory by its fully resolved path
type dirKey struct {
	path string
}

func dirIdentity(path string, _ os.FileInfo) dirKey {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return dirKey{path: resolved}
	}
	return dirKey{path: filepath.Clean(path)}
}

func isLinkLoop(error) bool {
	return false
}
