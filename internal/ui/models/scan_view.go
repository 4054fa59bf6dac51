package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/dupescan/internal/filter"
	"github.com/fenilsonani/dupescan/internal/progress"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui/styles"
	uiutils "github.com/fenilsonani/dupescan/internal/ui/utils"
	"github.com/fenilsonani/dupescan/pkg/utils"
)

// ScanViewModel handles the scanning progress view
type ScanViewModel struct {
	ctx       context.Context
	scanner   *scanner.Scanner
	root      string
	pattern   filter.Pattern
	spinner   spinner.Model
	updates   <-chan *progress.ScanProgress
	scanning  bool
	latest    *progress.ScanProgress
	startTime time.Time
}

// NewScanViewModel creates a new scan view model
func NewScanViewModel(ctx context.Context, s *scanner.Scanner, root string, pattern filter.Pattern) *ScanViewModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SelectedStyle

	return &ScanViewModel{
		ctx:       ctx,
		scanner:   s,
		root:      root,
		pattern:   pattern,
		spinner:   sp,
		scanning:  true,
		startTime: time.Now(),
	}
}

// Init subscribes to progress and starts the scan
func (m *ScanViewModel) Init() tea.Cmd {
	m.updates = m.scanner.GetProgressReporter().Subscribe()
	return tea.Batch(
		m.spinner.Tick,
		m.performScan,
		waitForProgress(m.updates),
	)
}

// Update handles messages
func (m *ScanViewModel) Update(msg tea.Msg) (*ScanViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ScanProgressMsg:
		m.latest = msg.Progress
		return m, waitForProgress(m.updates)
	}

	return m, nil
}

// View renders the scan view
func (m *ScanViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("🔍 Scanning for Duplicates"))
	b.WriteString("\n\n")

	b.WriteString(styles.DimStyle.Render("Root: "))
	b.WriteString(styles.FilePathStyle.Render(m.root))
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("Filter: "))
	b.WriteString(m.pattern.Describe())
	b.WriteString("\n\n")

	b.WriteString(m.spinner.View())
	b.WriteString(" ")

	p := m.latest
	switch {
	case p == nil:
		b.WriteString("Starting... ")
	case p.Phase == progress.PhaseWalking:
		b.WriteString("Walking directories... ")
	case p.Phase == progress.PhaseHashing:
		b.WriteString("Hashing candidates... ")
	default:
		b.WriteString("Finishing... ")
	}
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("(%s)", time.Since(m.startTime).Round(time.Second))))
	b.WriteString("\n\n")

	if p != nil {
		if p.CurrentPath != "" {
			b.WriteString(styles.DimStyle.Render("Current: "))
			b.WriteString(styles.FilePathStyle.Render(uiutils.TruncatePath(p.CurrentPath, 60)))
			b.WriteString("\n\n")
		}

		b.WriteString(fmt.Sprintf("Files found: %s (%s)\n",
			styles.BoldStyle.Render(fmt.Sprintf("%d", p.FilesFound)),
			styles.FileSizeStyle.Render(utils.FormatBytes(p.BytesFound)),
		))

		if p.Phase == progress.PhaseHashing && p.Candidates > 0 {
			b.WriteString(fmt.Sprintf("Hashed: %d/%d %s\n",
				p.FilesHashed, p.Candidates,
				styles.ProgressBar(p.FilesHashed, p.Candidates, 30),
			))
		}

		if p.Warnings > 0 {
			b.WriteString(styles.WarningStyle.Render(fmt.Sprintf("⚠ %d paths skipped", p.Warnings)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("Press ctrl+c to cancel"))

	return b.String()
}

// performScan runs the scan and unsubscribes from progress when it ends
func (m *ScanViewModel) performScan() tea.Msg {
	defer m.scanner.GetProgressReporter().Unsubscribe(m.updates)

	result, err := m.scanner.Scan(m.ctx, m.root, m.pattern)
	return ScanCompleteMsg{Result: result, Err: err}
}

// waitForProgress blocks on the next update. A closed channel yields no message.
func waitForProgress(updates <-chan *progress.ScanProgress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-updates
		if !ok {
			return nil
		}
		return ScanProgressMsg{Progress: p}
	}
}

// ScanProgressMsg is sent during scanning to update progress
type ScanProgressMsg struct {
	Progress *progress.ScanProgress
}
