package models

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui/components"
	"github.com/fenilsonani/dupescan/internal/ui/styles"
	uiutils "github.com/fenilsonani/dupescan/internal/ui/utils"
	"github.com/fenilsonani/dupescan/pkg/utils"
)

// BrowserViewModel lists the members of one duplicate group
type BrowserViewModel struct {
	group     scanner.DuplicateGroup
	number    int
	cursor    int
	offset    int
	pageSize  int
	width     int
	height    int
	statusBar *components.StatusBar
	infoPanel *components.InfoPanel
}

// NewBrowserViewModel creates a new browser view model for group number (1-based)
func NewBrowserViewModel(group scanner.DuplicateGroup, number int, width, height int) *BrowserViewModel {
	sb := components.NewStatusBar()
	sb.SetView(fmt.Sprintf("Group %d", number))
	sb.SetShortcuts(map[string]string{
		"↑/↓": "move",
		"i":   "info",
		"esc": "back",
		"q":   "quit",
	})
	sb.SetSize(group.Size)

	m := &BrowserViewModel{
		group:     group,
		number:    number,
		statusBar: sb,
	}
	m.SetSize(width, height)
	return m
}

// SetSize adapts paging to the terminal size
func (m *BrowserViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.pageSize = uiutils.CalculatePageSize(height)
	if m.cursor >= m.offset+m.pageSize {
		m.offset = m.cursor - m.pageSize + 1
	}
}

// Init initializes the browser view
func (m *BrowserViewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *BrowserViewModel) Update(msg tea.Msg) (*BrowserViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset--
				}
			}
		case "down", "j":
			if m.cursor < len(m.group.Paths)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.pageSize {
					m.offset++
				}
			}
		case "i":
			if m.infoPanel == nil {
				m.infoPanel = components.GroupInfoPanel(m.group, m.number, m.width)
			}
			m.infoPanel.Toggle()
		}
	}

	return m, nil
}

// View renders the browser view
func (m *BrowserViewModel) View() string {
	if m.infoPanel != nil && m.infoPanel.IsVisible() {
		return m.infoPanel.RenderAsOverlay(m.width, m.height)
	}

	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("📁 Group %d · %s × %d",
		m.number, utils.FormatBytes(m.group.Size), len(m.group.Paths))))
	b.WriteString("\n")
	b.WriteString(styles.DigestStyle.Render("sha256 " + m.group.Digest.String()))
	b.WriteString("\n\n")

	end := m.offset + m.pageSize
	if end > len(m.group.Paths) {
		end = len(m.group.Paths)
	}

	pathWidth := m.width - 6
	if pathWidth < 40 {
		pathWidth = 40
	}

	for i := m.offset; i < end; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = styles.SelectedStyle.Render("→ ")
		}

		b.WriteString(cursor)
		b.WriteString(styles.FilePathStyle.Render(uiutils.TruncatePath(m.group.Paths[i], pathWidth)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if len(m.group.Paths) > 0 {
		current := m.group.Paths[m.cursor]
		b.WriteString(styles.DimStyle.Render("Directory: "))
		b.WriteString(filepath.Dir(current))
		b.WriteString("\n")
	}
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("Reclaimable by keeping one copy: %s",
		utils.FormatBytes(m.group.WastedBytes()))))
	b.WriteString("\n")

	m.statusBar.SetPosition(m.cursor, len(m.group.Paths))
	b.WriteString(m.statusBar.Render(m.width))

	return b.String()
}
