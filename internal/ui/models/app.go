package models

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/dupescan/internal/filter"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui/styles"
)

// ViewState represents the current view in the app
type ViewState int

const (
	ViewScanning ViewState = iota
	ViewGroups
	ViewGroupDetail
	ViewSummary
	ViewHelp
)

// AppModel is the root model for the interactive TUI
type AppModel struct {
	// Current state
	state         ViewState
	previousState ViewState // For back navigation

	// Shared data
	scanner *scanner.Scanner
	root    string
	pattern filter.Pattern
	ctx     context.Context
	cancel  context.CancelFunc
	result  *scanner.Result

	// View models
	scanView    *ScanViewModel
	groupsView  *GroupsViewModel
	browserView *BrowserViewModel
	summaryView *SummaryViewModel

	// UI state
	width  int
	height int
	err    error
}

// NewAppModel creates a new app model that scans root with s
func NewAppModel(ctx context.Context, s *scanner.Scanner, root string, pattern filter.Pattern) *AppModel {
	ctx, cancel := context.WithCancel(ctx)
	return &AppModel{
		state:   ViewScanning,
		scanner: s,
		root:    root,
		pattern: pattern,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Init initializes the model
func (m *AppModel) Init() tea.Cmd {
	// Start scanning immediately
	m.scanView = NewScanViewModel(m.ctx, m.scanner, m.root, m.pattern)
	return m.scanView.Init()
}

// Result returns the completed scan, or nil while scanning
func (m *AppModel) Result() *scanner.Result {
	return m.result
}

// Err returns the error that ended the scan, if any
func (m *AppModel) Err() error {
	return m.err
}

// State returns the active view
func (m *AppModel) State() ViewState {
	return m.state
}

// Update handles messages
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == ViewHelp {
			// Any key closes help
			m.state = m.previousState
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.cancel()
			return m, tea.Quit
		case "?":
			m.previousState = m.state
			m.state = ViewHelp
			return m, nil
		case "esc":
			switch m.state {
			case ViewGroupDetail, ViewSummary:
				if m.result != nil && m.result.HasDuplicates() {
					m.state = ViewGroups
					return m, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case ScanCompleteMsg:
		m.cancel()
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.result = msg.Result
		m.groupsView = NewGroupsViewModel(m.result, m.width, m.height)
		m.summaryView = NewSummaryViewModel(m.result, m.width, m.height)
		if m.result.HasDuplicates() {
			m.state = ViewGroups
		} else {
			m.state = ViewSummary
		}
		return m, nil

	case GroupSelectedMsg:
		m.browserView = NewBrowserViewModel(m.result.Groups[msg.Index], msg.Index+1, m.width, m.height)
		m.state = ViewGroupDetail
		return m, nil

	case ShowSummaryMsg:
		m.state = ViewSummary
		return m, nil
	}

	// Delegate to current view
	return m.delegateUpdate(msg)
}

func (m *AppModel) resize() {
	if m.groupsView != nil {
		m.groupsView.SetSize(m.width, m.height)
	}
	if m.browserView != nil {
		m.browserView.SetSize(m.width, m.height)
	}
	if m.summaryView != nil {
		m.summaryView.SetSize(m.width, m.height)
	}
}

// delegateUpdate delegates the update to the current view
func (m *AppModel) delegateUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.state {
	case ViewScanning:
		if m.scanView != nil {
			m.scanView, cmd = m.scanView.Update(msg)
		}
	case ViewGroups:
		if m.groupsView != nil {
			m.groupsView, cmd = m.groupsView.Update(msg)
		}
	case ViewGroupDetail:
		if m.browserView != nil {
			m.browserView, cmd = m.browserView.Update(msg)
		}
	case ViewSummary:
		if m.summaryView != nil {
			m.summaryView, cmd = m.summaryView.Update(msg)
		}
	}

	return m, cmd
}

// View renders the current view
func (m *AppModel) View() string {
	if m.err != nil {
		return styles.ErrorStyle.Render("Error: "+m.err.Error()) + "\n\nPress q to quit."
	}

	switch m.state {
	case ViewScanning:
		if m.scanView != nil {
			return m.scanView.View()
		}
	case ViewGroups:
		if m.groupsView != nil {
			return m.groupsView.View()
		}
	case ViewGroupDetail:
		if m.browserView != nil {
			return m.browserView.View()
		}
	case ViewSummary:
		if m.summaryView != nil {
			return m.summaryView.View()
		}
	case ViewHelp:
		return m.renderHelp()
	}

	return "Loading..."
}

// renderHelp renders the help view with context-aware content
func (m *AppModel) renderHelp() string {
	var b strings.Builder

	var viewName string
	var helpContent string

	switch m.previousState {
	case ViewScanning:
		viewName = "Scan View"
		helpContent = helpForScan
	case ViewGroups:
		viewName = "Duplicate Groups"
		helpContent = helpForGroups
	case ViewGroupDetail:
		viewName = "Group Members"
		helpContent = helpForBrowser
	case ViewSummary:
		viewName = "Summary"
		helpContent = helpForSummary
	default:
		viewName = "General"
		helpContent = helpForGeneral
	}

	title := fmt.Sprintf("Help - %s", viewName)
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(helpContent)

	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("Press any key to close"))

	return b.String()
}

const helpForScan = `Walking the directory tree and hashing files that share a size.

Actions:
  ctrl+c  - Cancel scan and exit
  q       - Cancel scan and exit

The groups list opens automatically when the scan completes.`

const helpForGroups = `Each group is a set of files with identical content.
Groups with the most copies come first.

Navigation:
  ↑/k     - Move up
  ↓/j     - Move down
  g       - Go to top
  G       - Go to bottom

Actions:
  enter   - Show the files in a group
  i       - Toggle group details
  s       - Scan summary
  q       - Quit`

const helpForBrowser = `Files in the selected group, in discovery order.

Navigation:
  ↑/k     - Move up
  ↓/j     - Move down

Actions:
  i       - Toggle group details
  esc     - Back to groups
  q       - Quit`

const helpForSummary = `Totals for the scan and any paths that could not be read.

Actions:
  ↑/↓     - Scroll warnings
  esc     - Back to groups
  enter   - Exit application
  q       - Exit application`

const helpForGeneral = `dupescan - Interactive Mode Help

Global Shortcuts:
  ?       - Toggle this help
  esc     - Go back
  q       - Quit
  ctrl+c  - Force quit`

// ScanCompleteMsg carries the outcome of the background scan
type ScanCompleteMsg struct {
	Result *scanner.Result
	Err    error
}

// GroupSelectedMsg opens the member list of a group
type GroupSelectedMsg struct {
	Index int
}

// ShowSummaryMsg switches to the summary view
type ShowSummaryMsg struct{}
