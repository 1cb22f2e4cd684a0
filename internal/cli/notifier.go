package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/Veraticus/malex-office/internal/api"
)

// Notifier is the terminal error channel: it prints one styled line per
// reported error with the most specific message available.
type Notifier struct {
	w     io.Writer
	last  error
	count int
	mu    sync.Mutex
}

// NewNotifier creates a notifier writing to w.
func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

// ReportError prints err for the user.
func (n *Notifier) ReportError(err error) {
	if err == nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.last = err
	n.count++
	_, _ = fmt.Fprintln(n.w, FormatError(api.UserMessage(err)))
}

// Count returns how many errors were reported.
func (n *Notifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

// Last returns the most recent error, or nil.
func (n *Notifier) Last() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}
