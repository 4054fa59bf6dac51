// Package utils holds width and paging helpers shared by the TUI views.
// Widths are measured in terminal cells, so multi-byte names truncate cleanly.
package utils

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/fenilsonani/dupescan/internal/ui/styles"
)

const (
	// MinTerminalWidth is the minimum recommended terminal width
	MinTerminalWidth = 80
	// MinTerminalHeight is the minimum recommended terminal height
	MinTerminalHeight = 24

	ellipsis = "..."
)

// TruncatePath shortens path to maxWidth cells. The file name is kept whole
// when it fits; directories are dropped from the middle first, so
// /home/me/a/b/c/file.txt becomes /home/.../c/file.txt.
func TruncatePath(path string, maxWidth int) string {
	if ansi.StringWidth(path) <= maxWidth {
		return path
	}
	if maxWidth <= len(ellipsis) {
		return ellipsis
	}

	sep := string(filepath.Separator)
	dir, file := filepath.Split(path)

	// Name alone is too long: keep its tail, where the extension is
	if ansi.StringWidth(file)+len(ellipsis)+len(sep) > maxWidth {
		return TruncateLeft(file, maxWidth)
	}

	parts := strings.Split(strings.TrimSuffix(dir, sep), sep)
	head := parts[0]
	if head == "" && len(parts) > 1 {
		head = sep + parts[1]
		parts = parts[1:]
	}
	tail := parts[1:]

	// Drop directories after head until the path fits
	for len(tail) > 0 {
		candidate := strings.Join(slices.Concat([]string{head, ellipsis}, tail, []string{file}), sep)
		if ansi.StringWidth(candidate) <= maxWidth {
			return candidate
		}
		tail = tail[1:]
	}

	candidate := head + sep + ellipsis + sep + file
	if ansi.StringWidth(candidate) <= maxWidth {
		return candidate
	}
	return ellipsis + sep + file
}

// TruncateLeft keeps the last cells of s, prefixing an ellipsis
func TruncateLeft(s string, maxWidth int) string {
	width := ansi.StringWidth(s)
	if width <= maxWidth {
		return s
	}
	if maxWidth <= len(ellipsis) {
		return ellipsis
	}
	return ellipsis + ansi.TruncateLeft(s, width-(maxWidth-len(ellipsis)), "")
}

// CalculatePageSize returns the number of list rows that fit on screen
func CalculatePageSize(terminalHeight int) int {
	// Title, header, footer and status bar
	const reservedLines = 10

	pageSize := terminalHeight - reservedLines
	if pageSize < 5 {
		pageSize = 5
	}

	return pageSize
}

// IsTerminalTooSmall checks if the terminal is below minimum recommended size.
// A zero size means no WindowSizeMsg has arrived yet.
func IsTerminalTooSmall(width, height int) bool {
	if width == 0 && height == 0 {
		return false
	}
	return width < MinTerminalWidth || height < MinTerminalHeight
}

// GetSizeWarningBanner returns a warning banner if terminal is too small
func GetSizeWarningBanner(width, height int) string {
	if !IsTerminalTooSmall(width, height) {
		return ""
	}

	warning := styles.WarningStyle.Render("⚠️  Terminal too small! Recommended: 80x24 or larger") +
		styles.DimStyle.Render(fmt.Sprintf(" (current: %dx%d)", width, height))

	return warning + "\n\n"
}

// TruncateString truncates s to maxLen cells, adding an ellipsis if needed
func TruncateString(s string, maxLen int) string {
	if ansi.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= len(ellipsis) {
		return ellipsis
	}
	return ansi.Truncate(s, maxLen, ellipsis)
}

// TruncateMiddle truncates s from the middle, preserving start and end
func TruncateMiddle(s string, maxLen int) string {
	width := ansi.StringWidth(s)
	if width <= maxLen {
		return s
	}
	if maxLen < 10 {
		return TruncateString(s, maxLen)
	}

	side := (maxLen - len(ellipsis)) / 2
	return ansi.Truncate(s, side, "") + ellipsis + ansi.TruncateLeft(s, width-side, "")
}

// AdjustContentHeight returns how many of totalLines fit once reservedLines
// are taken from terminalHeight. At least one line is always shown.
func AdjustContentHeight(totalLines, terminalHeight, reservedLines int) int {
	available := terminalHeight - reservedLines
	if available < 1 {
		available = 1
	}
	return min(totalLines, available)
}
