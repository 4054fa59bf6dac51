package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui/components"
	"github.com/fenilsonani/dupescan/internal/ui/styles"
	uiutils "github.com/fenilsonani/dupescan/internal/ui/utils"
	"github.com/fenilsonani/dupescan/pkg/utils"
)

// GroupsViewModel lists duplicate groups in result order
type GroupsViewModel struct {
	result    *scanner.Result
	cursor    int
	offset    int
	pageSize  int
	width     int
	height    int
	statusBar *components.StatusBar
	infoPanel *components.InfoPanel
}

// NewGroupsViewModel creates a new groups view model
func NewGroupsViewModel(result *scanner.Result, width, height int) *GroupsViewModel {
	sb := components.NewStatusBar()
	sb.SetView("Groups")
	sb.SetShortcuts(map[string]string{
		"↑/↓":   "move",
		"enter": "open",
		"i":     "info",
		"s":     "summary",
		"?":     "help",
		"q":     "quit",
	})

	m := &GroupsViewModel{
		result:    result,
		statusBar: sb,
	}
	m.SetSize(width, height)
	return m
}

// SetSize adapts paging to the terminal size
func (m *GroupsViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	// Each group takes two lines
	m.pageSize = uiutils.CalculatePageSize(height) / 2
	if m.pageSize < 3 {
		m.pageSize = 3
	}
	m.clampOffset()
}

// Cursor returns the index of the highlighted group
func (m *GroupsViewModel) Cursor() int {
	return m.cursor
}

// Init initializes the groups view
func (m *GroupsViewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *GroupsViewModel) Update(msg tea.Msg) (*GroupsViewModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	groups := m.result.Groups
	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(groups)-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		if len(groups) > 0 {
			m.cursor = len(groups) - 1
		}
	case "i":
		if m.infoPanel != nil && m.infoPanel.IsVisible() {
			m.infoPanel.SetVisible(false)
		} else if len(groups) > 0 {
			m.infoPanel = components.GroupInfoPanel(groups[m.cursor], m.cursor+1, m.width)
			m.infoPanel.SetVisible(true)
		}
		return m, nil
	case "s":
		return m, func() tea.Msg { return ShowSummaryMsg{} }
	case "enter":
		if len(groups) > 0 {
			index := m.cursor
			return m, func() tea.Msg { return GroupSelectedMsg{Index: index} }
		}
	}

	if m.infoPanel != nil {
		m.infoPanel.SetVisible(false)
	}
	m.clampOffset()
	return m, nil
}

func (m *GroupsViewModel) clampOffset() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.pageSize {
		m.offset = m.cursor - m.pageSize + 1
	}
}

// View renders the groups view
func (m *GroupsViewModel) View() string {
	if m.infoPanel != nil && m.infoPanel.IsVisible() {
		return m.infoPanel.RenderAsOverlay(m.width, m.height)
	}

	var b strings.Builder

	b.WriteString(uiutils.GetSizeWarningBanner(m.width, m.height))
	b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("🗂  %d Duplicate Groups", len(m.result.Groups))))
	b.WriteString("\n")

	pathWidth := m.width - 8
	if pathWidth < 40 {
		pathWidth = 40
	}

	end := m.offset + m.pageSize
	if end > len(m.result.Groups) {
		end = len(m.result.Groups)
	}

	for i := m.offset; i < end; i++ {
		g := m.result.Groups[i]

		cursor := "  "
		if i == m.cursor {
			cursor = styles.SelectedStyle.Render("→ ")
		}

		size := lipgloss.NewStyle().Foreground(styles.GetFileSizeColor(g.Size)).
			Render(utils.FormatBytes(g.Size))

		b.WriteString(fmt.Sprintf("%s%s %s each %s %s\n",
			cursor,
			styles.BoldStyle.Render(fmt.Sprintf("#%d", i+1)),
			size,
			styles.CountBadge(len(g.Paths)),
			styles.DigestStyle.Render(g.Digest.Short()),
		))
		b.WriteString("    ")
		b.WriteString(styles.FilePathStyle.Render(uiutils.TruncatePath(g.Paths[0], pathWidth)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("%d files in groups, %s reclaimable",
		m.result.Stats.DuplicateFiles, utils.FormatBytes(m.result.Stats.WastedBytes))))
	b.WriteString("\n")

	if len(m.result.Groups) > 0 {
		m.statusBar.SetPosition(m.cursor, len(m.result.Groups))
		m.statusBar.SetSize(m.result.Groups[m.cursor].WastedBytes())
	}
	b.WriteString(m.statusBar.Render(m.width))

	return b.String()
}
