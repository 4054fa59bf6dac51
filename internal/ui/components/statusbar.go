package components

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fenilsonani/dupescan/internal/ui/styles"
	uiutils "github.com/fenilsonani/dupescan/internal/ui/utils"
	"github.com/fenilsonani/dupescan/pkg/utils"
)

// StatusBar represents a status bar component that displays at the bottom of views
type StatusBar struct {
	viewName  string
	position  int
	total     int
	size      int64
	shortcuts map[string]string
}

// NewStatusBar creates a new status bar
func NewStatusBar() *StatusBar {
	return &StatusBar{
		shortcuts: make(map[string]string),
	}
}

// SetView sets the current view name
func (s *StatusBar) SetView(viewName string) {
	s.viewName = viewName
}

// SetPosition sets the 0-based cursor position within total items
func (s *StatusBar) SetPosition(position, total int) {
	s.position = position
	s.total = total
}

// SetSize sets the byte count shown next to the position
func (s *StatusBar) SetSize(size int64) {
	s.size = size
}

// SetShortcuts sets the shortcuts to display
func (s *StatusBar) SetShortcuts(shortcuts map[string]string) {
	s.shortcuts = shortcuts
}

// Render renders the status bar with the given width
func (s *StatusBar) Render(width int) string {
	if width <= 0 {
		width = 80
	}

	var parts []string

	// View name
	if s.viewName != "" {
		parts = append(parts, styles.BoldStyle.Render(s.viewName))
	}

	if s.total > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", s.position+1, s.total))
	}

	// Size info
	if s.size > 0 {
		sizeInfo := utils.FormatBytes(s.size)
		parts = append(parts, styles.FileSizeStyle.Render(sizeInfo))
	}

	// Left side of status bar
	leftSide := strings.Join(parts, " • ")

	// Shortcuts (right side)
	var shortcutParts []string
	// Define order for common shortcuts
	orderedKeys := []string{"↑/↓", "enter", "i", "s", "?", "esc", "q"}

	for _, key := range orderedKeys {
		if desc, ok := s.shortcuts[key]; ok {
			shortcutParts = append(shortcutParts, fmt.Sprintf("%s:%s",
				styles.DimStyle.Render(key), desc))
		}
	}

	// Remaining keys are appended in sorted order so renders are stable
	var extra []string
	for key := range s.shortcuts {
		if !slices.Contains(orderedKeys, key) {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		shortcutParts = append(shortcutParts, fmt.Sprintf("%s:%s",
			styles.DimStyle.Render(key), s.shortcuts[key]))
	}

	rightSide := strings.Join(shortcutParts, " ")

	// Calculate spacing
	leftLen := lipgloss.Width(leftSide)
	rightLen := lipgloss.Width(rightSide)
	spacing := width - leftLen - rightLen - 2 // -2 for padding

	if spacing < 1 {
		// Not enough space, truncate right side
		maxRightLen := width - leftLen - 5
		if maxRightLen > 3 && rightLen > maxRightLen {
			rightSide = uiutils.TruncateString(ansi.Strip(rightSide), maxRightLen)
		}
		spacing = 1
	}

	// Build the status bar
	statusLine := leftSide + strings.Repeat(" ", spacing) + rightSide

	// Style the status bar
	statusBarStyle := styles.StatusBarStyle.Width(width)

	return statusBarStyle.Render(statusLine)
}

// RenderSimple renders a simple status bar with just a message
func RenderSimple(message string, width int) string {
	if width <= 0 {
		width = 80
	}

	statusBarStyle := styles.StatusBarStyle.Width(width)

	return statusBarStyle.Render(message)
}
