package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/malex-office/internal/api"
	"github.com/Veraticus/malex-office/internal/format"
	"github.com/Veraticus/malex-office/internal/model"
	"github.com/Veraticus/malex-office/internal/pager"
)

func TestFormatHelpers(t *testing.T) {
	assert.Contains(t, FormatSuccess("saved"), "✓ saved")
	assert.Contains(t, FormatError("failed"), "✗ failed")
	assert.Contains(t, FormatWarning("careful"), "careful")
	assert.Contains(t, FormatInfo("note"), "note")
	assert.Contains(t, FormatTitle("Records"), "Records")
	assert.Contains(t, FormatPrompt("Name"), "Name →")
	assert.Contains(t, RenderBox("Totals", "Ksh 100"), "Ksh 100")
}

func TestNotifier(t *testing.T) {
	var out bytes.Buffer
	n := NewNotifier(&out)

	n.ReportError(nil)
	assert.Zero(t, n.Count())

	n.ReportError(&api.AppError{Message: "Invoice number already exists"})
	n.ReportError(errors.New("plain failure"))

	assert.Equal(t, 2, n.Count())
	assert.EqualError(t, n.Last(), "plain failure")
	assert.Contains(t, out.String(), "Invoice number already exists")
	assert.Equal(t, 2, strings.Count(out.String(), "\n"))
}

func TestRenderBars(t *testing.T) {
	chart := RenderBars([]Bar{
		{Label: "Jan", Value: 100},
		{Label: "February", Value: 50},
		{Label: "Mar", Value: 0},
	}, 10, format.Number)

	lines := strings.Split(chart, "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, 10, strings.Count(lines[0], "█"))
	assert.Equal(t, 5, strings.Count(lines[1], "█"))
	assert.Zero(t, strings.Count(lines[2], "█"))
	assert.True(t, strings.HasPrefix(lines[0], "Jan      "), "labels are padded to the widest")

	assert.Contains(t, RenderBars(nil, 10, format.Number), "No data")
}

func TestRenderButtons(t *testing.T) {
	bar := RenderButtons(pager.ComputePageButtons(3, 1))
	for _, label := range []string{"Prev", "1", "2", "3", "Next"} {
		assert.Contains(t, bar, label)
	}
}

func TestRecordsView(t *testing.T) {
	var out bytes.Buffer
	view := NewRecordsView(&out, format.NewClock(time.UTC, 0))

	records := []model.Record{{ID: "1", Date: "2024-05-13T09:30:00.000Z", CustomerName: "Acme", InvoiceNo: "INV-9", Amount: 1234.5}}
	c := pager.New[model.Record](nil, pager.WithData(records), pager.WithRenderer[model.Record](view))
	c.Render()

	s := out.String()
	assert.Contains(t, s, "INV-9")
	assert.Contains(t, s, "Ksh 1,234.5")
	assert.Contains(t, s, "13 May 2024")
	assert.Contains(t, s, "Showing 1-1 of 1 records")

	out.Reset()
	c.GotoPage(4)
	assert.Contains(t, out.String(), "No records found")
}
