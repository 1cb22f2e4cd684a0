package tui

// recordsLoadedMsg is sent when a reload, possibly after a delete, finished.
type recordsLoadedMsg struct {
	err    error
	status string
}

// mode is what the keyboard currently drives.
type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeDate
	modeConfirmDelete
)
