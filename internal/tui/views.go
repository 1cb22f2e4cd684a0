package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/malex-office/internal/format"
	"github.com/Veraticus/malex-office/internal/model"
	"github.com/Veraticus/malex-office/internal/pager"
	"github.com/Veraticus/malex-office/internal/records"
)

// chromeHeight is the number of lines around the table: header, filters,
// pagination, status and help.
const chromeHeight = 9

func tableHeight(termHeight int) int {
	return max(3, min(pager.PageSize, termHeight-chromeHeight))
}

// columns sizes the table to the terminal width. The customer column takes
// whatever the fixed columns leave.
func columns(width int) []table.Column {
	fixed := []table.Column{
		{Title: "Date", Width: 21},
		{Title: "Type", Width: 10},
		{Title: "Document No", Width: 13},
		{Title: "Customer", Width: 0},
		{Title: "Facilitator", Width: 14},
		{Title: "Created By", Width: 12},
		{Title: "Amount", Width: 16},
	}

	used := 0
	for _, c := range fixed {
		used += c.Width + 2
	}
	fixed[3].Width = max(12, width-used-2)
	return fixed
}

func (m Model) row(r model.Record) table.Row {
	return table.Row{
		m.config.Clock.DateTime(r.Date),
		r.Type().Label(),
		r.DocumentNo(),
		r.CustomerName,
		r.Facilitator,
		r.CreatedBy,
		format.Money(r.Amount),
	}
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader(), m.renderFilters()}

	switch {
	case m.loading && len(m.items) == 0:
		sections = append(sections, m.theme.Subtitle.Render("Loading records..."))
	case m.page.Empty():
		sections = append(sections, m.theme.Subtitle.Render("No records found"))
	default:
		sections = append(sections, m.table.View())
	}

	sections = append(sections,
		m.theme.Subtitle.Render(m.page.Summary()),
		m.renderButtons(),
		m.renderStatus(),
		m.help.View(m.keymap),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("Malex Office · Records")
	if m.config.User == "" {
		return title
	}
	return title + "  " + m.theme.Subtitle.Render(m.config.User)
}

func (m Model) renderFilters() string {
	label := func(name, value string) string {
		if value == "" {
			value = "-"
		}
		return m.theme.Subtitle.Render(name+": ") + m.theme.Bold.Render(value)
	}

	typeLabel := m.filter.Type
	if t := model.RecordType(typeLabel); typeLabel != records.All && typeLabel != "" {
		typeLabel = t.Label()
	}

	parts := []string{
		label("Type", typeLabel),
		label("Customer", m.filter.Customer),
		label("Search", m.filter.Search),
		label("Date", m.filter.Date),
	}

	switch m.mode {
	case modeSearch:
		parts = append(parts, "Search "+m.input.View())
	case modeDate:
		parts = append(parts, "Date "+m.input.View())
	}

	return strings.Join(parts, "   ")
}

func (m Model) renderButtons() string {
	parts := make([]string, 0, len(m.buttons))
	for _, b := range m.buttons {
		switch {
		case b.Disabled:
			parts = append(parts, m.theme.PageDisabled.Render(b.Label))
		case b.Active:
			parts = append(parts, m.theme.PageActive.Render(b.Label))
		default:
			parts = append(parts, m.theme.Page.Render(b.Label))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderStatus() string {
	if m.mode == modeConfirmDelete {
		if r, ok := m.selected(); ok {
			return m.theme.StatusError.Render(fmt.Sprintf("Delete %s for %s? (y/n)", r.DocumentNo(), r.CustomerName))
		}
	}
	if m.errText != "" {
		return m.theme.StatusError.Render("✗ " + m.errText)
	}
	if m.status != "" {
		return m.theme.StatusInfo.Render(m.status)
	}
	return ""
}
