package tui

import (
	"sync"

	"github.com/Veraticus/malex-office/internal/model"
	"github.com/Veraticus/malex-office/internal/pager"
)

// View collects what the records controller renders and reports. The
// controller may push from a command goroutine, so the model pulls the
// latest state under a lock.
type View struct {
	err      error
	page     pager.Page[model.Record]
	buttons  []pager.Button
	scrolled bool
	mu       sync.Mutex
}

// NewView creates an empty view.
func NewView() *View {
	return &View{}
}

// Render stores the newest page.
func (v *View) Render(page pager.Page[model.Record], buttons []pager.Button) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = page
	v.buttons = buttons
}

// ScrollToTop asks the table to move its cursor to the first row.
func (v *View) ScrollToTop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrolled = true
}

// ReportError stores the newest error for the status bar.
func (v *View) ReportError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.err = err
}

type viewState struct {
	err      error
	page     pager.Page[model.Record]
	buttons  []pager.Button
	scrolled bool
}

// take returns the stored state and clears the one-shot fields.
func (v *View) take() viewState {
	v.mu.Lock()
	defer v.mu.Unlock()

	state := viewState{
		err:      v.err,
		page:     v.page,
		buttons:  v.buttons,
		scrolled: v.scrolled,
	}
	v.err = nil
	v.scrolled = false
	return state
}
