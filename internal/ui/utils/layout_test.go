package utils

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		maxWidth int
		want     string
	}{
		{"fits", "/a/b/file.txt", 40, "/a/b/file.txt"},
		{"drops one directory", "/home/me/projects/deep/nested/file.txt", 30, "/home/.../deep/nested/file.txt"},
		{"drops middle directories", "/home/me/projects/deep/nested/file.txt", 25, "/home/.../nested/file.txt"},
		{"drops all but head", "/home/me/projects/deep/nested/file.txt", 22, "/home/.../file.txt"},
		{"name too long", "/x/" + "averyveryverylongname.txt", 12, "...gname.txt"},
		{"tiny width", "/a/b/c", 2, "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncatePath(tt.path, tt.maxWidth)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, ansi.StringWidth(got), max(tt.maxWidth, 3))
		})
	}
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "hello", TruncateString("hello", 5))
	assert.Equal(t, "hel...", TruncateString("hello world", 6))
	assert.Equal(t, "...", TruncateString("hello", 2))

	// Multi-byte names are cut on rune boundaries
	got := TruncateString("résumé-final.pdf", 8)
	assert.Equal(t, "résum...", got)
}

func TestTruncateMiddle(t *testing.T) {
	assert.Equal(t, "short", TruncateMiddle("short", 10))
	assert.Equal(t, "abcdef...uvwxyz", TruncateMiddle("abcdefghijklmnopqrstuvwxyz", 16))
	assert.Equal(t, "abc...", TruncateMiddle("abcdefghijklmnopqrstuvwxyz", 6))
}

func TestTruncateLeft(t *testing.T) {
	assert.Equal(t, "...xyz", TruncateLeft("abcdefghijklmnopqrstuvwxyz", 6))
	assert.Equal(t, "abc", TruncateLeft("abc", 6))
}

func TestCalculatePageSize(t *testing.T) {
	assert.Equal(t, 30, CalculatePageSize(40))
	assert.Equal(t, 5, CalculatePageSize(8))
	assert.Equal(t, 5, CalculatePageSize(0))
}

func TestIsTerminalTooSmall(t *testing.T) {
	assert.False(t, IsTerminalTooSmall(0, 0))
	assert.False(t, IsTerminalTooSmall(120, 40))
	assert.True(t, IsTerminalTooSmall(60, 40))
	assert.True(t, IsTerminalTooSmall(120, 10))

	assert.Empty(t, GetSizeWarningBanner(120, 40))
	assert.Contains(t, GetSizeWarningBanner(60, 20), "60x20")
}

func TestAdjustContentHeight(t *testing.T) {
	assert.Equal(t, 3, AdjustContentHeight(3, 40, 10))
	assert.Equal(t, 30, AdjustContentHeight(100, 40, 10))
	assert.Equal(t, 1, AdjustContentHeight(100, 5, 10))
}
