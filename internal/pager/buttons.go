package pager

import "strconv"

// MaxPageButtons is how many numbered buttons the pagination bar shows at most.
const MaxPageButtons = 5

// ButtonKind distinguishes the navigation buttons from numbered ones.
type ButtonKind int

// Button kinds.
const (
	ButtonPrev ButtonKind = iota
	ButtonPage
	ButtonNext
)

// Button describes one pagination control. Page is the zero-based page the
// button navigates to.
type Button struct {
	Label    string
	Kind     ButtonKind
	Page     int
	Active   bool
	Disabled bool
}

// ComputePageButtons builds the pagination bar: Prev, a window of up to
// MaxPageButtons numbered buttons centered on current, and Next.
//
// The window starts two pages before current and is shifted left near the end
// so it keeps its full width. Prev is disabled on page 0 and Next on the last
// page.
func ComputePageButtons(totalPages, current int) []Button {
	start := max(0, current-MaxPageButtons/2)
	end := min(totalPages-1, start+MaxPageButtons-1)
	if end-start < MaxPageButtons-1 {
		start = max(0, end-MaxPageButtons+1)
	}

	buttons := make([]Button, 0, MaxPageButtons+2)
	buttons = append(buttons, Button{
		Label:    "Prev",
		Kind:     ButtonPrev,
		Page:     current - 1,
		Disabled: current == 0,
	})

	for i := start; i <= end; i++ {
		buttons = append(buttons, Button{
			Label:  strconv.Itoa(i + 1),
			Kind:   ButtonPage,
			Page:   i,
			Active: i == current,
		})
	}

	buttons = append(buttons, Button{
		Label:    "Next",
		Kind:     ButtonNext,
		Page:     current + 1,
		Disabled: current == totalPages-1,
	})

	return buttons
}

// NumberedButtons filters out the Prev and Next buttons.
func NumberedButtons(buttons []Button) []Button {
	numbered := make([]Button, 0, len(buttons))
	for _, b := range buttons {
		if b.Kind == ButtonPage {
			numbered = append(numbered, b)
		}
	}
	return numbered
}
