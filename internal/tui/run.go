package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/malex-office/internal/records"
)

// Run starts the browser in the alternate screen and blocks until the user
// quits or ctx is canceled.
func Run(ctx context.Context, controller *records.Controller, view *View, opts ...Option) error {
	m := New(ctx, controller, view, opts...)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("records browser failed: %w", err)
	}
	return nil
}
