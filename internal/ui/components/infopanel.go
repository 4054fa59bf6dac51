package components

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui/styles"
	"github.com/fenilsonani/dupescan/pkg/utils"
)

// InfoPanel represents a contextual information panel
type InfoPanel struct {
	title   string
	content []InfoItem
	visible bool
	width   int
}

// InfoItem represents a single piece of information
type InfoItem struct {
	Label string
	Value string
	Icon  string
}

// NewInfoPanel creates a new info panel
func NewInfoPanel(title string, width int) *InfoPanel {
	return &InfoPanel{
		title:   title,
		content: []InfoItem{},
		visible: false,
		width:   width,
	}
}

// AddItem adds an information item to the panel
func (p *InfoPanel) AddItem(label, value, icon string) {
	p.content = append(p.content, InfoItem{
		Label: label,
		Value: value,
		Icon:  icon,
	})
}

// SetVisible sets the visibility of the panel
func (p *InfoPanel) SetVisible(visible bool) {
	p.visible = visible
}

// IsVisible returns whether the panel is visible
func (p *InfoPanel) IsVisible() bool {
	return p.visible
}

// Toggle toggles the visibility of the panel
func (p *InfoPanel) Toggle() {
	p.visible = !p.visible
}

// SetWidth sets the width of the panel
func (p *InfoPanel) SetWidth(width int) {
	p.width = width
}

// Render renders the info panel
func (p *InfoPanel) Render() string {
	if !p.visible || len(p.content) == 0 {
		return ""
	}

	var b strings.Builder

	// Calculate panel width (use half of terminal width, min 40)
	panelWidth := p.width / 2
	if panelWidth < 40 {
		panelWidth = 40
	}
	if panelWidth > 80 {
		panelWidth = 80
	}

	// Create panel style
	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(styles.FocusBorder).
		Padding(1, 2).
		Width(panelWidth).
		Background(styles.BgDark)

	// Title
	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Underline(true)

	var content strings.Builder
	content.WriteString(titleStyle.Render(p.title))
	content.WriteString("\n\n")

	// Content items
	for i, item := range p.content {
		// Icon and label
		labelStyle := lipgloss.NewStyle().
			Foreground(styles.Secondary).
			Bold(true)

		if item.Icon != "" {
			content.WriteString(item.Icon + " ")
		}
		content.WriteString(labelStyle.Render(item.Label) + ": ")

		// Value
		valueStyle := lipgloss.NewStyle().
			Foreground(styles.Text)

		content.WriteString(valueStyle.Render(item.Value))

		if i < len(p.content)-1 {
			content.WriteString("\n")
		}
	}

	// Footer hint
	content.WriteString("\n\n")
	footerStyle := lipgloss.NewStyle().
		Foreground(styles.TextDim).
		Italic(true)
	content.WriteString(footerStyle.Render("Press 'i' or 'esc' to close"))

	b.WriteString(panelStyle.Render(content.String()))

	return b.String()
}

// RenderAsOverlay renders the panel as an overlay (centered on screen)
func (p *InfoPanel) RenderAsOverlay(terminalWidth, terminalHeight int) string {
	if !p.visible || len(p.content) == 0 {
		return ""
	}

	panelContent := p.Render()

	// Calculate positioning to center the panel
	lines := strings.Split(panelContent, "\n")
	panelHeight := len(lines)
	panelWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > panelWidth {
			panelWidth = w
		}
	}

	// Center vertically and horizontally
	topPadding := (terminalHeight - panelHeight) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	leftPadding := (terminalWidth - panelWidth) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var b strings.Builder

	// Add top padding
	for i := 0; i < topPadding; i++ {
		b.WriteString("\n")
	}

	// Add left padding to each line
	for _, line := range lines {
		b.WriteString(strings.Repeat(" ", leftPadding))
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// GroupInfoPanel creates an info panel for a duplicate group
func GroupInfoPanel(group scanner.DuplicateGroup, number int, width int) *InfoPanel {
	panel := NewInfoPanel(fmt.Sprintf("Group %d", number), width)

	panel.AddItem("Copies", fmt.Sprintf("%d", len(group.Paths)), "📊")
	panel.AddItem("Size", utils.FormatBytes(group.Size)+" each", "💾")
	panel.AddItem("Reclaimable", utils.FormatBytes(group.WastedBytes()), "♻️")
	panel.AddItem("SHA-256", group.Digest.String(), "🔑")
	panel.AddItem("Directories", fmt.Sprintf("%d", countDirs(group.Paths)), "📁")
	panel.AddItem("Types", describeExtensions(group.Paths), "📄")

	return panel
}

func countDirs(paths []string) int {
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		seen[filepath.Dir(p)] = struct{}{}
	}
	return len(seen)
}

// describeExtensions lists the distinct extensions among paths
func describeExtensions(paths []string) string {
	var exts []string
	for _, p := range paths {
		ext := strings.ToLower(filepath.Ext(p))
		if ext == "" {
			ext = "(none)"
		}
		if !slices.Contains(exts, ext) {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
