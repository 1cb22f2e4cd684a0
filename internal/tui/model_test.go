package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/malex-office/internal/api"
	"github.com/Veraticus/malex-office/internal/format"
	"github.com/Veraticus/malex-office/internal/model"
	"github.com/Veraticus/malex-office/internal/records"
	"github.com/Veraticus/malex-office/internal/tui/themes"
)

type fakeBackend struct {
	loadErr error
	records []model.Record
	deleted []string
	mu      sync.Mutex
}

func (b *fakeBackend) FetchAll(context.Context) ([]model.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return append([]model.Record(nil), b.records...), nil
}

func (b *fakeBackend) SaveRecord(context.Context, string, model.RecordDraft) error {
	return nil
}

func (b *fakeBackend) DeleteRecord(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, id)
	kept := b.records[:0]
	for _, r := range b.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	b.records = kept
	return nil
}

func generateRecords(n int) []model.Record {
	customers := []string{"Acme", "Beta Ltd", "Gamma"}
	out := make([]model.Record, 0, n)
	for i := range n {
		r := model.Record{
			ID:           fmt.Sprintf("r%02d", i),
			Date:         fmt.Sprintf("2024-%02d-10T08:00:00.000Z", i%12+1),
			CustomerName: customers[i%len(customers)],
			Facilitator:  "Jane",
			CreatedBy:    "admin",
			Amount:       float64(100 * (i + 1)),
		}
		switch i % 3 {
		case 0:
			r.InvoiceNo = fmt.Sprintf("INV-%03d", i)
		case 1:
			r.CashSaleNo = fmt.Sprintf("CS-%03d", i)
		default:
			r.QuotationNo = fmt.Sprintf("Q-%03d", i)
		}
		out = append(out, r)
	}
	return out
}

func newTestModel(t *testing.T, backend records.Backend, seed []model.Record) Model {
	t.Helper()
	view := NewView()
	controller := records.NewController(backend,
		records.WithRenderer(view),
		records.WithErrorReporter(view),
		records.WithSeed(seed))
	m := New(context.Background(), controller, view,
		WithTheme(themes.Plain),
		WithClock(format.NewClock(time.UTC, 0)),
		WithSize(160, 40),
		WithUser("Jane Doe"))

	return run(t, m, m.Init())
}

// run executes cmd synchronously and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if msg == nil {
		return m
	}
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, cmd := m.Update(msg)
		m = updated.(Model)
		// Only reloads and deletes are run; other commands may be timers.
		if k == "y" || k == "r" {
			m = run(t, m, cmd)
		}
	}
	return m
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

func TestModel_InitialLoad(t *testing.T) {
	m := newTestModel(t, &fakeBackend{records: generateRecords(45)}, nil)

	assert.False(t, m.loading)
	assert.Len(t, m.items, 20)
	assert.Equal(t, "Showing 1-20 of 45 records", m.page.Summary())
	assert.Equal(t, []string{"Acme", "Beta Ltd", "Gamma"}, m.customers)

	view := m.View()
	assert.Contains(t, view, "Malex Office")
	assert.Contains(t, view, "Jane Doe")
	assert.Contains(t, view, "INV-000")
	assert.Contains(t, view, "Showing 1-20 of 45 records")
}

func TestModel_PageNavigation(t *testing.T) {
	m := newTestModel(t, &fakeBackend{records: generateRecords(45)}, nil)

	m = press(t, m, "h")
	assert.Equal(t, 0, m.page.Number, "Prev is disabled on the first page")

	m = press(t, m, "l", "l")
	assert.Equal(t, 2, m.page.Number)
	assert.Equal(t, "Showing 41-45 of 45 records", m.page.Summary())
	assert.Len(t, m.items, 5)

	m = press(t, m, "l")
	assert.Equal(t, 2, m.page.Number, "Next is disabled on the last page")

	m = press(t, m, "g")
	assert.Equal(t, 0, m.page.Number)
	m = press(t, m, "G")
	assert.Equal(t, 2, m.page.Number)
}

func TestModel_TypeFilterNarrows(t *testing.T) {
	m := newTestModel(t, &fakeBackend{records: generateRecords(10)}, nil)

	m = press(t, m, "t")
	assert.Equal(t, string(model.RecordInvoice), m.filter.Type)
	assert.Equal(t, "Showing 1-4 of 4 records", m.page.Summary())
	assert.Contains(t, m.status, "press r to reload")

	// The next type is applied on top of the narrowed data.
	m = press(t, m, "t")
	assert.Equal(t, string(model.RecordCashSale), m.filter.Type)
	assert.True(t, m.page.Empty())
	assert.Contains(t, m.View(), "No records found")

	m = press(t, m, "r")
	assert.Equal(t, records.All, m.filter.Type)
	assert.Equal(t, 10, m.page.Total)
}

func TestModel_SearchAndDate(t *testing.T) {
	m := newTestModel(t, &fakeBackend{records: generateRecords(30)}, nil)

	m = press(t, m, "/")
	assert.Equal(t, modeSearch, m.mode)
	m = typeText(m, "beta")
	m = press(t, m, "enter")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "beta", m.filter.Search)
	assert.Equal(t, 10, m.page.Total)

	m = press(t, m, "d")
	m = typeText(m, "2024-02")
	m = press(t, m, "enter")
	assert.Equal(t, "2024-02", m.filter.Date)
	for _, r := range m.items {
		assert.Equal(t, "Beta Ltd", r.CustomerName)
		assert.Contains(t, r.Date, "2024-02")
	}

	m = press(t, m, "/")
	m = typeText(m, "zzz")
	m = press(t, m, "esc")
	assert.Equal(t, "beta", m.filter.Search, "esc leaves the filter unchanged")
}

func TestModel_CustomerCycle(t *testing.T) {
	m := newTestModel(t, &fakeBackend{records: generateRecords(9)}, nil)

	m = press(t, m, "c")
	assert.Equal(t, "Acme", m.filter.Customer)
	assert.Equal(t, 3, m.page.Total)
	assert.Equal(t, []string{"Acme", "Beta Ltd", "Gamma"}, m.customers, "selector keeps the loaded customers")
}

func TestModel_DeleteConfirm(t *testing.T) {
	backend := &fakeBackend{records: generateRecords(3)}
	m := newTestModel(t, backend, nil)

	m = press(t, m, "down", "x")
	assert.Equal(t, modeConfirmDelete, m.mode)
	assert.Contains(t, m.View(), "Delete CS-001 for Beta Ltd?")

	m = press(t, m, "n")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Empty(t, backend.deleted)

	m = press(t, m, "x", "y")
	assert.Equal(t, []string{"r01"}, backend.deleted)
	assert.Equal(t, 2, m.page.Total)
	assert.Equal(t, "Deleted CS-001", m.status)
}

func TestModel_LoadErrorKeepsData(t *testing.T) {
	backend := &fakeBackend{records: generateRecords(5)}
	m := newTestModel(t, backend, nil)

	backend.loadErr = &api.AppError{Message: "Server is sleeping"}
	m = press(t, m, "r")

	assert.Equal(t, 5, m.page.Total)
	assert.Equal(t, "Server is sleeping", m.errText)
	assert.Contains(t, m.View(), "Server is sleeping")

	m = press(t, m, "esc")
	assert.Empty(t, m.errText)
}

func TestModel_OfflineSeed(t *testing.T) {
	m := newTestModel(t, nil, generateRecords(4))

	assert.Empty(t, m.errText, "missing backend is not an error offline")
	assert.Equal(t, "Showing 1-4 of 4 records", m.page.Summary())
	assert.Len(t, m.customers, 3)
}

func TestModel_QuitAndHelp(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, nil)
	assert.Contains(t, m.View(), "No records found")

	m = press(t, m, "?")
	assert.True(t, m.help.ShowAll)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, updated.(Model).View())
}

func TestModel_WindowResize(t *testing.T) {
	m := newTestModel(t, &fakeBackend{records: generateRecords(25)}, nil)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 15})
	m = updated.(Model)
	assert.Equal(t, 6, m.table.Height())
	assert.GreaterOrEqual(t, m.table.Columns()[3].Width, 12)
}

func TestNext(t *testing.T) {
	options := []string{"all", "a", "b"}
	assert.Equal(t, "a", next(options, "all"))
	assert.Equal(t, "all", next(options, "b"))
	assert.Equal(t, "all", next(options, "unknown"))
}

func TestView_TakeClearsOneShotState(t *testing.T) {
	v := NewView()
	v.ReportError(errors.New("boom"))
	v.ScrollToTop()

	state := v.take()
	assert.Error(t, state.err)
	assert.True(t, state.scrolled)

	state = v.take()
	assert.NoError(t, state.err)
	assert.False(t, state.scrolled)
}
