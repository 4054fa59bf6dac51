// Package security holds the path and pattern checks applied to user input
// before it reaches the scanner.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateGlobPattern validates that a glob pattern is safe
func ValidateGlobPattern(pattern string) error {
	// Check for dangerous characters
	if strings.Contains(pattern, "..") {
		return fmt.Errorf("glob pattern contains directory traversal: %s", pattern)
	}

	// Try to match the pattern to ensure it's valid
	_, err := filepath.Match(pattern, "test")
	if err != nil {
		return fmt.Errorf("invalid glob pattern: %w", err)
	}

	return nil
}

// ValidateNamePattern validates a glob that is matched against a single path element
func ValidateNamePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("name pattern is empty")
	}
	if strings.ContainsRune(pattern, '/') || strings.ContainsRune(pattern, filepath.Separator) {
		return fmt.Errorf("name pattern must not contain a path separator: %s", pattern)
	}
	return ValidateGlobPattern(pattern)
}

// ResolveRoot turns a user supplied directory into a clean absolute path.
// A leading ~ is expanded to the home directory. Existence is not checked here.
func ResolveRoot(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("root path is empty")
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand ~: %w", err)
		}
		path = expandPath(path, home)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root path: %w", err)
	}

	return filepath.Clean(abs), nil
}

// expandPath expands ~ to home directory
func expandPath(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
