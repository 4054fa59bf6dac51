// Package testutil provides test helpers and fixtures for dupescan tests.
// All file operations use t.TempDir() for safe, isolated testing.
package testutil

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
)

// TestFixture holds the root of a temporary directory tree
type TestFixture struct {
	T       *testing.T
	RootDir string // Root temp directory (auto-cleaned)
}

// NewFixture creates a new, empty test fixture
func NewFixture(t *testing.T) *TestFixture {
	t.Helper()

	return &TestFixture{
		T:       t,
		RootDir: t.TempDir(),
	}
}

// =============================================================================
// File Creation Helpers
// =============================================================================

// CreateFile creates a file with specified content and returns its path
func (f *TestFixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateTextFile is CreateFile for string content
func (f *TestFixture) CreateTextFile(relPath, content string) string {
	f.T.Helper()
	return f.CreateFile(relPath, []byte(content))
}

// CreateRandomFile creates a file with random content
func (f *TestFixture) CreateRandomFile(relPath string, size int) string {
	f.T.Helper()
	return f.CreateFile(relPath, RandomBytes(size))
}

// CreateCopies writes the same content to every relPath and returns the full paths
func (f *TestFixture) CreateCopies(content []byte, relPaths ...string) []string {
	f.T.Helper()

	paths := make([]string, 0, len(relPaths))
	for _, rel := range relPaths {
		paths = append(paths, f.CreateFile(rel, content))
	}
	return paths
}

// =============================================================================
// Directory Helpers
// =============================================================================

// CreateDir creates a directory and returns its path
func (f *TestFixture) CreateDir(relPath string) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateUnreadableDir creates a directory with a file inside, then removes all
// permissions from it. Permissions are restored on cleanup.
func (f *TestFixture) CreateUnreadableDir(relPath string, content []byte) string {
	f.T.Helper()

	dirPath := f.CreateDir(relPath)
	f.CreateFile(filepath.Join(relPath, "hidden.txt"), content)

	if err := os.Chmod(dirPath, 0000); err != nil {
		f.T.Fatalf("failed to chmod directory %s: %v", dirPath, err)
	}

	// Restore permissions so TempDir cleanup works
	f.T.Cleanup(func() {
		os.Chmod(dirPath, 0755)
	})

	return dirPath
}

// =============================================================================
// Symlink Helpers
// =============================================================================

// CreateSymlink creates a symbolic link
func (f *TestFixture) CreateSymlink(target, linkPath string) string {
	f.T.Helper()

	fullLinkPath := filepath.Join(f.RootDir, linkPath)
	dir := filepath.Dir(fullLinkPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.Symlink(target, fullLinkPath); err != nil {
		f.T.Fatalf("failed to create symlink %s -> %s: %v", fullLinkPath, target, err)
	}

	return fullLinkPath
}

// CreateBrokenSymlink creates a symlink pointing to a non-existent target
func (f *TestFixture) CreateBrokenSymlink(linkPath string) string {
	f.T.Helper()
	return f.CreateSymlink("/nonexistent/target/"+randomString(8), linkPath)
}

// CreateCircularSymlinks creates two symlinks that point to each other
func (f *TestFixture) CreateCircularSymlinks(link1, link2 string) (string, string) {
	f.T.Helper()

	fullLink1 := filepath.Join(f.RootDir, link1)
	fullLink2 := filepath.Join(f.RootDir, link2)

	os.MkdirAll(filepath.Dir(fullLink1), 0755)
	os.MkdirAll(filepath.Dir(fullLink2), 0755)

	// Create link1 pointing to link2
	os.Symlink(fullLink2, fullLink1)
	// Create link2 pointing to link1
	os.Symlink(fullLink1, fullLink2)

	return fullLink1, fullLink2
}

// CreateDirLoop creates relPath/loop as a symlink back to relPath
func (f *TestFixture) CreateDirLoop(relPath string) string {
	f.T.Helper()

	dir := f.CreateDir(relPath)
	return f.CreateSymlink(dir, filepath.Join(relPath, "loop"))
}

// =============================================================================
// Permission Helpers
// =============================================================================

// CreateFileWithMode creates a file with specific permissions
func (f *TestFixture) CreateFileWithMode(relPath string, content []byte, mode os.FileMode) string {
	f.T.Helper()

	fullPath := f.CreateFile(relPath, content)
	if err := os.Chmod(fullPath, mode); err != nil {
		f.T.Fatalf("failed to chmod file %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateNoPermissionFile creates a file with no permissions (000)
func (f *TestFixture) CreateNoPermissionFile(relPath string, content []byte) string {
	f.T.Helper()
	return f.CreateFileWithMode(relPath, content, 0000)
}

// =============================================================================
// Path Helpers
// =============================================================================

// Path returns the full path for a relative path within the fixture
func (f *TestFixture) Path(relPath string) string {
	return filepath.Join(f.RootDir, relPath)
}

// Paths maps Path over relPaths
func (f *TestFixture) Paths(relPaths ...string) []string {
	out := make([]string, 0, len(relPaths))
	for _, rel := range relPaths {
		out = append(out, f.Path(rel))
	}
	return out
}

// =============================================================================
// In-memory filesystem
// =============================================================================

// MemFS returns an afero in-memory filesystem populated with files, keyed by
// absolute path.
func MemFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", path, err)
		}
		if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to create file %s: %v", path, err)
		}
	}
	return fs
}

// =============================================================================
// Utility Functions
// =============================================================================

// RandomBytes returns size bytes of random data
func RandomBytes(size int) []byte {
	b := make([]byte, size)
	rand.Read(b)
	return b
}

// IsRoot returns true if running as root/admin
func IsRoot() bool {
	return os.Geteuid() == 0
}

// SkipIfRoot skips the test if running as root
func SkipIfRoot(t *testing.T) {
	t.Helper()
	if IsRoot() {
		t.Skip("skipping test when running as root")
	}
}

// SkipOnWindows skips tests that rely on unix permissions or symlinks
func SkipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on windows")
	}
}

// randomString generates a random string of specified length
func randomString(length int) string {
	return fmt.Sprintf("%x", RandomBytes(length))[:length]
}
