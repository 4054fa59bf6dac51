package styles

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors
var (
	Primary     = lipgloss.Color("#7C3AED")
	Secondary   = lipgloss.Color("#A78BFA")
	Success     = lipgloss.Color("#10B981")
	Warning     = lipgloss.Color("#F59E0B")
	Danger      = lipgloss.Color("#EF4444")
	Info        = lipgloss.Color("#3B82F6")
	Muted       = lipgloss.Color("#6B7280")
	Text        = lipgloss.Color("#F3F4F6")
	TextDim     = lipgloss.Color("#9CA3AF")
	Border      = lipgloss.Color("#4B5563")
	FocusBorder = lipgloss.Color("#8B5CF6")
	BgDark      = lipgloss.Color("#1F2937")
	BgLight     = lipgloss.Color("#374151")
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			MarginBottom(1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	FilePathStyle = lipgloss.NewStyle().
			Foreground(Info)

	FileSizeStyle = lipgloss.NewStyle().
			Foreground(Warning)

	DigestStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	CountBadgeStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(BgLight).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(BgDark).
			Padding(0, 1)

	DimStyle = lipgloss.NewStyle().
			Foreground(TextDim)

	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)
)

// GetFileSizeColor picks a color that grows hotter with size
func GetFileSizeColor(size int64) lipgloss.Color {
	switch {
	case size >= 1<<30:
		return Danger
	case size >= 100<<20:
		return Warning
	case size >= 1<<20:
		return Info
	default:
		return TextDim
	}
}

// CountBadge renders a member count such as "×3"
func CountBadge(n int) string {
	return CountBadgeStyle.Render("×" + strconv.Itoa(n))
}

// ProgressBar renders a filled bar of the given width
func ProgressBar(current, total int, width int) string {
	if total == 0 || width <= 0 {
		return ""
	}
	if current > total {
		current = total
	}

	filled := current * width / total

	var bar strings.Builder
	bar.WriteString(strings.Repeat("█", filled))
	bar.WriteString(strings.Repeat("░", width-filled))

	style := lipgloss.NewStyle().Foreground(Primary)
	return style.Render(bar.String())
}
