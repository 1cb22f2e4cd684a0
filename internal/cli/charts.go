package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Bar is one row of a text bar chart.
type Bar struct {
	Label string
	Color lipgloss.Color
	Value float64
}

// RenderBars draws a horizontal bar chart. Bars are scaled so the largest
// value spans width cells; values are printed with formatValue.
func RenderBars(bars []Bar, width int, formatValue func(float64) string) string {
	if len(bars) == 0 {
		return SubtleStyle.Render("No data")
	}
	if width <= 0 {
		width = 40
	}

	var maxValue float64
	labelWidth := 0
	for _, b := range bars {
		maxValue = max(maxValue, b.Value)
		labelWidth = max(labelWidth, lipgloss.Width(b.Label))
	}

	var sb strings.Builder
	for i, b := range bars {
		cells := 0
		if maxValue > 0 && b.Value > 0 {
			cells = max(1, int(b.Value/maxValue*float64(width)+0.5))
		}

		style := lipgloss.NewStyle()
		if b.Color != "" {
			style = style.Foreground(b.Color)
		}

		fmt.Fprintf(&sb, "%-*s %s %s",
			labelWidth, b.Label,
			style.Render(strings.Repeat("█", cells)),
			SubtleStyle.Render(formatValue(b.Value)))
		if i < len(bars)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
