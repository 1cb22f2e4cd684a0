package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Veraticus/malex-office/internal/format"
	"github.com/Veraticus/malex-office/internal/model"
	"github.com/Veraticus/malex-office/internal/pager"
)

// RecordColumns are the column titles of the records table.
var RecordColumns = []string{"Date", "Type", "Document No", "Customer", "Facilitator", "Created By", "Amount"}

// RenderTable draws a bordered table.
func RenderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(SubtleStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		}).
		String()
}

// RecordRow converts a record into table cells.
func RecordRow(r model.Record, clock format.Clock) []string {
	return []string{
		clock.DateTime(r.Date),
		r.Type().Label(),
		r.DocumentNo(),
		r.CustomerName,
		r.Facilitator,
		r.CreatedBy,
		format.Money(r.Amount),
	}
}

// RenderButtons draws the pagination bar on one line.
func RenderButtons(buttons []pager.Button) string {
	parts := make([]string, 0, len(buttons))
	for _, b := range buttons {
		switch {
		case b.Disabled:
			parts = append(parts, DisabledPageStyle.Render(b.Label))
		case b.Active:
			parts = append(parts, ActivePageStyle.Render(b.Label))
		default:
			parts = append(parts, PageStyle.Render(b.Label))
		}
	}
	return strings.Join(parts, " ")
}

// RecordsView prints pages of records to a writer.
type RecordsView struct {
	w     io.Writer
	clock format.Clock
}

// NewRecordsView creates a view that renders dates with clock.
func NewRecordsView(w io.Writer, clock format.Clock) *RecordsView {
	return &RecordsView{w: w, clock: clock}
}

// Render prints the table, or an empty-state marker, followed by the
// summary and the pagination bar.
func (v *RecordsView) Render(page pager.Page[model.Record], buttons []pager.Button) {
	if page.Empty() {
		_, _ = fmt.Fprintln(v.w, SubtleStyle.Render("No records found"))
	} else {
		rows := make([][]string, 0, len(page.Items))
		for _, r := range page.Items {
			rows = append(rows, RecordRow(r, v.clock))
		}
		_, _ = fmt.Fprintln(v.w, RenderTable(RecordColumns, rows))
	}

	_, _ = fmt.Fprintln(v.w, SubtleStyle.Render(page.Summary()))
	_, _ = fmt.Fprintln(v.w, RenderButtons(buttons))
}

// ScrollToTop is a no-op on a terminal stream.
func (v *RecordsView) ScrollToTop() {}
