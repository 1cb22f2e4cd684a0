// Package themes holds the visual styles of the terminal UI.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title          lipgloss.Style
	Subtitle       lipgloss.Style
	Normal         lipgloss.Style
	Bold           lipgloss.Style
	Selected       lipgloss.Style
	Header         lipgloss.Style
	StatusError    lipgloss.Style
	StatusSuccess  lipgloss.Style
	StatusInfo     lipgloss.Style
	PageActive     lipgloss.Style
	Page           lipgloss.Style
	PageDisabled   lipgloss.Style
	BadgeInvoice   lipgloss.Style
	BadgeCashSale  lipgloss.Style
	BadgeQuotation lipgloss.Style
	RoundedBox     lipgloss.Style
	Primary        lipgloss.Color
	Muted          lipgloss.Color
	Border         lipgloss.Color
	Error          lipgloss.Color
	Success        lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	Primary: lipgloss.Color("#1e88e5"),
	Muted:   lipgloss.Color("#737373"),
	Border:  lipgloss.Color("#404040"),
	Error:   lipgloss.Color("#f44336"),
	Success: lipgloss.Color("#4caf50"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1e88e5")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#1e88e5")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
	Header: lipgloss.NewStyle().
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("#404040")),

	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f44336")).
		Bold(true),
	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4caf50")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90caf9")),

	PageActive: lipgloss.NewStyle().
		Background(lipgloss.Color("#1e88e5")).
		Foreground(lipgloss.Color("#fafafa")).
		Padding(0, 1),
	Page: lipgloss.NewStyle().
		Padding(0, 1),
	PageDisabled: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#404040")).
		Padding(0, 1),

	BadgeInvoice: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#1e88e5")),
	BadgeCashSale: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4caf50")),
	BadgeQuotation: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ff9800")),

	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
}

// Plain renders without colors, used by tests and dumb terminals.
var Plain = Theme{
	Title:          lipgloss.NewStyle().Bold(true),
	Subtitle:       lipgloss.NewStyle(),
	Normal:         lipgloss.NewStyle(),
	Bold:           lipgloss.NewStyle().Bold(true),
	Selected:       lipgloss.NewStyle().Reverse(true),
	Header:         lipgloss.NewStyle().Bold(true),
	StatusError:    lipgloss.NewStyle(),
	StatusSuccess:  lipgloss.NewStyle(),
	StatusInfo:     lipgloss.NewStyle(),
	PageActive:     lipgloss.NewStyle().Reverse(true).Padding(0, 1),
	Page:           lipgloss.NewStyle().Padding(0, 1),
	PageDisabled:   lipgloss.NewStyle().Padding(0, 1),
	BadgeInvoice:   lipgloss.NewStyle(),
	BadgeCashSale:  lipgloss.NewStyle(),
	BadgeQuotation: lipgloss.NewStyle(),
	RoundedBox:     lipgloss.NewStyle(),
}
