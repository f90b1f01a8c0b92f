package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tmarsden/discograf/internal/shared"
	"github.com/tmarsden/discograf/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI is the action for the tui command. Authorization runs before the
// program starts so the browser flow never fights the terminal for
// stdin; logs go to a file for the same reason.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}
	if err := r.authenticate(ctx, svc); err != nil {
		return err
	}

	user, err := svc.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("could not load user profile: %w", err)
	}

	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("could not open log file: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.newBuilder(svc), user)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI exited with error: %w", err)
	}
	return nil
}
