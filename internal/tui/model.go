// Package tui implements the interactive records browser.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/malex-office/internal/api"
	"github.com/Veraticus/malex-office/internal/model"
	"github.com/Veraticus/malex-office/internal/pager"
	"github.com/Veraticus/malex-office/internal/records"
	"github.com/Veraticus/malex-office/internal/tui/themes"
)

// typeOptions is the cycle order of the type selector.
var typeOptions = []string{
	records.All,
	string(model.RecordInvoice),
	string(model.RecordCashSale),
	string(model.RecordQuotation),
}

// Model holds the records browser state.
type Model struct {
	ctx        context.Context
	controller *records.Controller
	view       *View
	theme      themes.Theme
	config     Config
	keymap     KeyMap
	help       help.Model
	table      table.Model
	input      textinput.Model
	filter     records.Filter
	status     string
	errText    string
	customers  []string
	items      []model.Record
	buttons    []pager.Button
	page       pager.Page[model.Record]
	height     int
	width      int
	mode       mode
	loading    bool
	quitting   bool
}

// New creates the browser. view must be the renderer and error reporter the
// controller was built with.
func New(ctx context.Context, controller *records.Controller, view *View, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	input := textinput.New()
	input.CharLimit = 64

	t := table.New(
		table.WithColumns(columns(cfg.Width)),
		table.WithFocused(true),
		table.WithHeight(tableHeight(cfg.Height)),
	)
	styles := table.DefaultStyles()
	styles.Header = cfg.Theme.Header
	styles.Selected = cfg.Theme.Selected
	t.SetStyles(styles)

	return Model{
		ctx:        ctx,
		controller: controller,
		view:       view,
		theme:      cfg.Theme,
		config:     cfg,
		keymap:     DefaultKeyMap(),
		help:       help.New(),
		table:      t,
		input:      input,
		filter:     records.Filter{Type: records.All, Customer: records.All},
		width:      cfg.Width,
		height:     cfg.Height,
		loading:    true,
	}
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return m.loadRecords()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(msg.Width))
		m.table.SetHeight(tableHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case recordsLoadedMsg:
		m.loading = false
		m.status = msg.status
		m.errText = ""
		if msg.err == nil {
			m.filter = records.Filter{Type: records.All, Customer: records.All}
		} else {
			// A failed load keeps the previous dataset, which has not been drawn yet
			// when it came from a snapshot.
			m.controller.Render()
		}
		if msg.err == nil || m.customers == nil {
			m.customers = m.controller.Customers()
		}
		m.sync()
		if m.errText == "" && msg.err != nil && !errors.Is(msg.err, pager.ErrNoFetcher) {
			m.errText = api.UserMessage(msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch, modeDate:
			return m.updateInput(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down):
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	if m.loading {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.PrevPage):
		m.press(pager.ButtonPrev)
	case key.Matches(msg, m.keymap.NextPage):
		m.press(pager.ButtonNext)
	case key.Matches(msg, m.keymap.FirstPage):
		m.controller.Goto(0)
		m.sync()
	case key.Matches(msg, m.keymap.LastPage):
		if m.page.TotalPages > 0 {
			m.controller.Goto(m.page.TotalPages - 1)
			m.sync()
		}

	case key.Matches(msg, m.keymap.Search):
		m.mode = modeSearch
		m.input.Placeholder = "customer, document no, facilitator"
		m.input.SetValue(m.filter.Search)
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keymap.DateFilter):
		m.mode = modeDate
		m.input.Placeholder = "YYYY-MM or YYYY-MM-DD"
		m.input.SetValue(m.filter.Date)
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keymap.CycleType):
		m.filter.Type = next(typeOptions, m.filter.Type)
		m.apply()
	case key.Matches(msg, m.keymap.CycleCustomer):
		m.filter.Customer = next(append([]string{records.All}, m.customers...), m.filter.Customer)
		m.apply()

	case key.Matches(msg, m.keymap.Delete):
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		}
	case key.Matches(msg, m.keymap.Reload):
		m.loading = true
		m.errText = ""
		m.status = ""
		return m, m.loadRecords()
	case msg.Type == tea.KeyEsc:
		m.errText = ""
		m.status = ""
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		if m.mode == modeSearch {
			m.filter.Search = m.input.Value()
		} else {
			m.filter.Date = m.input.Value()
		}
		m.mode = modeBrowse
		m.input.Blur()
		m.apply()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Confirm):
		m.mode = modeBrowse
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.loading = true
		return m, m.deleteRecord(r.ID, r.DocumentNo())
	case key.Matches(msg, m.keymap.Cancel):
		m.mode = modeBrowse
	}
	return m, nil
}

// apply narrows the working dataset with the current filter controls.
func (m *Model) apply() {
	m.controller.Apply(m.filter)
	m.sync()
	if m.filter.Active() {
		m.status = "Filters narrow the loaded records; press r to reload"
	}
}

// press follows the Prev or Next button unless it is disabled.
func (m *Model) press(kind pager.ButtonKind) {
	for _, b := range m.buttons {
		if b.Kind == kind && !b.Disabled {
			m.controller.Goto(b.Page)
			m.sync()
			return
		}
	}
}

// sync pulls the latest page from the view into the table.
func (m *Model) sync() {
	state := m.view.take()
	m.page = state.page
	m.buttons = state.buttons
	m.items = state.page.Items

	rows := make([]table.Row, 0, len(m.items))
	for _, r := range m.items {
		rows = append(rows, m.row(r))
	}
	m.table.SetRows(rows)
	if state.scrolled || m.table.Cursor() >= len(rows) {
		m.table.GotoTop()
	}

	if state.err != nil && !errors.Is(state.err, pager.ErrNoFetcher) {
		m.errText = api.UserMessage(state.err)
	}
}

func (m Model) selected() (model.Record, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.items) {
		return model.Record{}, false
	}
	return m.items[i], true
}

// next returns the option after current, wrapping around.
func next(options []string, current string) string {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}
