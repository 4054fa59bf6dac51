package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/dupescan/internal/progress"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui/styles"
	uiutils "github.com/fenilsonani/dupescan/internal/ui/utils"
	"github.com/fenilsonani/dupescan/pkg/utils"
)

// SummaryViewModel handles the summary/results view
type SummaryViewModel struct {
	result   *scanner.Result
	offset   int
	pageSize int
	width    int
	height   int
}

// NewSummaryViewModel creates a new summary view model
func NewSummaryViewModel(result *scanner.Result, width, height int) *SummaryViewModel {
	m := &SummaryViewModel{result: result}
	m.SetSize(width, height)
	return m
}

// SetSize adapts the warning list to the terminal size
func (m *SummaryViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	// Stats block takes about ten lines on top of the usual chrome
	m.pageSize = uiutils.AdjustContentHeight(len(m.result.Warnings), height, 20)
	if m.pageSize < 3 {
		m.pageSize = 3
	}
}

// Init initializes the summary view
func (m *SummaryViewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *SummaryViewModel) Update(msg tea.Msg) (*SummaryViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		case "down", "j":
			if m.offset+m.pageSize < len(m.result.Warnings) {
				m.offset++
			}
		}
	}

	return m, nil
}

// View renders the summary view
func (m *SummaryViewModel) View() string {
	var b strings.Builder
	r := m.result

	b.WriteString(styles.TitleStyle.Render("✨ Scan Summary"))
	b.WriteString("\n\n")

	if r.HasDuplicates() {
		b.WriteString(styles.SuccessStyle.Render(fmt.Sprintf("✓ Found %d duplicate groups (%d files)",
			len(r.Groups), r.Stats.DuplicateFiles)))
	} else {
		b.WriteString(styles.SuccessStyle.Render("✓ No duplicate files found"))
	}
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Root:           %s\n", styles.FilePathStyle.Render(r.Root)))
	b.WriteString(fmt.Sprintf("Files scanned:  %d (%s)\n", r.Stats.FilesSeen, utils.FormatBytes(r.Stats.BytesSeen)))
	b.WriteString(fmt.Sprintf("Files hashed:   %d of %d candidates (%s read)\n",
		r.Stats.FilesHashed, r.Stats.Candidates, utils.FormatBytes(r.Stats.BytesHashed)))
	b.WriteString(styles.BoldStyle.Render(fmt.Sprintf("Reclaimable:    %s", utils.FormatBytes(r.Stats.WastedBytes))))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Duration:       %s\n", progress.FormatDuration(r.Duration)))

	if len(r.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.WarningStyle.Render(fmt.Sprintf("⚠ %d paths skipped", len(r.Warnings))))
		b.WriteString("\n")

		end := m.offset + m.pageSize
		if end > len(r.Warnings) {
			end = len(r.Warnings)
		}
		lineWidth := m.width - 4
		if lineWidth < 40 {
			lineWidth = 40
		}
		for _, w := range r.Warnings[m.offset:end] {
			b.WriteString("  ")
			b.WriteString(uiutils.TruncateMiddle(w.UserMessage(), lineWidth))
			b.WriteString("\n")
		}
		if len(r.Warnings) > m.pageSize {
			b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  showing %d-%d of %d", m.offset+1, end, len(r.Warnings))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("Press q or enter to exit"))

	return b.String()
}
