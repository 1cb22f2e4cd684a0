package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// loadRecords fetches the dataset again, discarding filter narrowing.
func (m Model) loadRecords() tea.Cmd {
	ctx, controller := m.ctx, m.controller
	return func() tea.Msg {
		return recordsLoadedMsg{err: controller.Load(ctx)}
	}
}

// deleteRecord removes a record; the controller reloads on success.
func (m Model) deleteRecord(id, label string) tea.Cmd {
	ctx, controller := m.ctx, m.controller
	return func() tea.Msg {
		if err := controller.Delete(ctx, id); err != nil {
			return recordsLoadedMsg{err: err}
		}
		return recordsLoadedMsg{status: fmt.Sprintf("Deleted %s", label)}
	}
}
