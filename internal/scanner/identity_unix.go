//go:build unix

package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
)

// dirKey identifies a directory independently of the path used to reach it
type dirKey struct {
	dev  uint64
	ino  uint64
	path string
}

// dirIdentity uses device and inode when the filesystem exposes them. The
// in-memory filesystem has no links, so its cleaned path is already unique.
func dirIdentity(path string, info os.FileInfo) dirKey {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return dirKey{dev: uint64(st.Dev), ino: uint64(st.Ino)}
	}
	return dirKey{path: filepath.Clean(path)}
}

func isLinkLoop(err error) bool {
	return errors.Is(err, syscall.ELOOP)
}
