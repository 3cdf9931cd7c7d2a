package cli

import (
	"context"
	"errors"
	coreapp "hdrgen/internal/core/app"

	tea "github.com/charmbracelet/bubbletea"
)

func runUI(ctx context.Context, app *coreapp.App, initial coreapp.Summary) error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	app.SetUpdateHandler(func(update coreapp.Update) {
		p.Send(updateMsg{at: update.At, results: update.Results, err: update.Err})
	})

	go p.Send(updateMsg{at: initial.FinishedAt, results: initial.Results, err: initial.Err})

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
