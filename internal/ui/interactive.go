package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/dupescan/internal/filter"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui/models"
)

// RunInteractive starts the interactive TUI mode. It returns the completed
// result, or nil if the user quit before the scan finished.
func RunInteractive(ctx context.Context, s *scanner.Scanner, root string, pattern filter.Pattern) (*scanner.Result, error) {
	// Create the app model
	m := models.NewAppModel(ctx, s, root, pattern)

	// Create the Bubble Tea program
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// Run the program
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running interactive mode: %w", err)
	}

	app := final.(*models.AppModel)
	if app.Err() != nil {
		return nil, app.Err()
	}
	return app.Result(), nil
}
