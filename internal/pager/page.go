package pager

import "fmt"

// Page is one window over the dataset. Start and End are 1-based display
// bounds; Start is not clamped, so an out-of-range cursor shows Start > End.
type Page[T any] struct {
	Items      []T
	Number     int
	TotalPages int
	Start      int
	End        int
	Total      int
}

// Empty reports whether the page has no items to show.
func (p Page[T]) Empty() bool {
	return len(p.Items) == 0
}

// Summary returns the pagination caption, e.g. "Showing 1-20 of 45 records".
func (p Page[T]) Summary() string {
	return fmt.Sprintf("Showing %d-%d of %d records", p.Start, p.End, p.Total)
}
