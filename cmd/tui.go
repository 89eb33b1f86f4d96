package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ghostarr/ghostarr/internal/shared"
	"github.com/ghostarr/ghostarr/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for newsletter generation.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.client == nil {
		return fmt.Errorf("%w: API client not initialized", shared.ErrServerUnavailable)
	}
	if r.tracker == nil {
		return fmt.Errorf("%w: generation tracker not initialized", shared.ErrServerUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/ghostarr-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	config := r.buildGenerationConfig(cmd)
	model := ui.NewModel(ctx, r.client, r.tracker, config)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
