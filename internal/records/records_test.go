package records

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/malex-office/internal/model"
	"github.com/Veraticus/malex-office/internal/pager"
	"github.com/Veraticus/malex-office/internal/storage"
)

type fakeBackend struct {
	saveErr   error
	deleteErr error
	records   []model.Record
	saved     []model.RecordDraft
	deleted   []string
	fetches   int
	mu        sync.Mutex
}

func (b *fakeBackend) FetchAll(_ context.Context) ([]model.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fetches++
	return append([]model.Record(nil), b.records...), nil
}

func (b *fakeBackend) SaveRecord(_ context.Context, _ string, draft model.RecordDraft) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.saveErr != nil {
		return b.saveErr
	}
	b.saved = append(b.saved, draft)
	return nil
}

func (b *fakeBackend) DeleteRecord(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.deleteErr != nil {
		return b.deleteErr
	}
	b.deleted = append(b.deleted, id)
	return nil
}

type fakeJournal struct {
	snapshots  [][]model.Record
	activities []storage.Activity
}

func (j *fakeJournal) SaveSnapshot(_ context.Context, records []model.Record) error {
	j.snapshots = append(j.snapshots, records)
	return nil
}

func (j *fakeJournal) LogActivity(_ context.Context, a *storage.Activity) error {
	j.activities = append(j.activities, *a)
	return nil
}

type recordingView struct {
	pages []pager.Page[model.Record]
}

func (v *recordingView) Render(page pager.Page[model.Record], _ []pager.Button) {
	v.pages = append(v.pages, page)
}

func (v *recordingView) ScrollToTop() {}

func sampleRecords() []model.Record {
	return []model.Record{
		{ID: "1", Date: "2024-05-13T08:00:00.000Z", CustomerName: "Acme", Facilitator: "Jane", CreatedBy: "admin", InvoiceNo: "INV-001", Amount: 1000},
		{ID: "2", Date: "2024-05-14T08:00:00.000Z", CustomerName: "Beta Ltd", Facilitator: "Otieno", CreatedBy: "admin", CashSaleNo: "CS-010", Amount: 250},
		{ID: "3", Date: "2024-06-01T08:00:00.000Z", CustomerName: "Acme", Facilitator: "Wanjiru", CreatedBy: "clerk", QuotationNo: "Q-100", Amount: 90},
		{ID: "4", Date: "2024-06-02T08:00:00.000Z", CustomerName: "Gamma", Facilitator: "Jane", CreatedBy: "clerk", InvoiceNo: "INV-002", Amount: 40},
	}
}

func TestFilter_Predicates(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "inactive", filter: Filter{Type: All, Customer: All}, want: []string{"1", "2", "3", "4"}},
		{name: "zero value", filter: Filter{}, want: []string{"1", "2", "3", "4"}},
		{name: "type invoice", filter: Filter{Type: "invoice"}, want: []string{"1", "4"}},
		{name: "type cash sale", filter: Filter{Type: "cashSale"}, want: []string{"2"}},
		{name: "unknown type", filter: Filter{Type: "receipt"}, want: nil},
		{name: "search customer", filter: Filter{Search: "ACME"}, want: []string{"1", "3"}},
		{name: "search document number", filter: Filter{Search: "cs-0"}, want: []string{"2"}},
		{name: "search facilitator", filter: Filter{Search: "wanj"}, want: []string{"3"}},
		{name: "search creator", filter: Filter{Search: "clerk"}, want: []string{"3", "4"}},
		{name: "month prefix", filter: Filter{Date: "2024-05"}, want: []string{"1", "2"}},
		{name: "day prefix", filter: Filter{Date: "2024-06-02"}, want: []string{"4"}},
		{name: "customer exact", filter: Filter{Customer: "Acme"}, want: []string{"1", "3"}},
		{name: "customer is case sensitive", filter: Filter{Customer: "acme"}, want: nil},
		{name: "combined", filter: Filter{Type: "invoice", Customer: "Acme", Date: "2024"}, want: []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keep := pager.And(tt.filter.Predicates()...)
			var got []string
			for _, r := range sampleRecords() {
				if keep(r) {
					got = append(got, r.ID)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_Active(t *testing.T) {
	assert.False(t, Filter{}.Active())
	assert.False(t, Filter{Type: All, Customer: All}.Active())
	assert.True(t, Filter{Search: "x"}.Active())
}

func TestController_ApplyNarrowsUntilReload(t *testing.T) {
	backend := &fakeBackend{records: sampleRecords()}
	view := &recordingView{}
	c := NewController(backend, WithRenderer(view))

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, 4, c.Page().Total)

	c.Apply(Filter{Customer: "Acme"})
	assert.Equal(t, "Showing 1-2 of 2 records", c.Page().Summary())

	// Widening the filter cannot bring records back.
	c.Apply(Filter{Customer: All})
	assert.Len(t, c.Dataset(), 2)
	c.Apply(Filter{Type: "cashSale"})
	assert.Empty(t, c.Dataset())
	assert.True(t, c.Page().Empty())

	require.NoError(t, c.Load(context.Background()))
	assert.Len(t, c.Dataset(), 4)
	assert.Len(t, view.pages, 5)
}

func TestController_Customers(t *testing.T) {
	c := NewController(nil, WithSeed(append(sampleRecords(), model.Record{ID: "5", InvoiceNo: "X"})))
	assert.Equal(t, []string{"Acme", "Beta Ltd", "Gamma"}, c.Customers())

	r, ok := c.Find("3")
	require.True(t, ok)
	assert.Equal(t, "Q-100", r.DocumentNo())
	_, ok = c.Find("missing")
	assert.False(t, ok)
}

func TestController_SaveReloadsAndJournals(t *testing.T) {
	backend := &fakeBackend{records: sampleRecords()}
	journal := &fakeJournal{}
	c := NewController(backend, WithJournal(journal, "Jane"))
	require.NoError(t, c.Load(context.Background()))
	c.Apply(Filter{Type: "quotation"})

	draft := model.RecordDraft{Type: model.RecordInvoice, Date: "2024-07-01", CustomerName: "Delta", DocumentNo: "INV-003", Amount: 10}
	require.NoError(t, c.Save(context.Background(), "", draft))

	assert.Equal(t, 2, backend.fetches)
	assert.Len(t, c.Dataset(), 4, "reload discards the narrowing")
	require.Len(t, backend.saved, 1)
	require.Len(t, journal.activities, 1)
	assert.Equal(t, storage.ActionCreate, journal.activities[0].Action)
	assert.Equal(t, "Jane", journal.activities[0].User)
	assert.Len(t, journal.snapshots, 2)

	require.NoError(t, c.Save(context.Background(), "1", draft))
	assert.Equal(t, storage.ActionUpdate, journal.activities[1].Action)
}

func TestController_SaveFailures(t *testing.T) {
	var reported []error
	reporter := pager.ErrorReporterFunc(func(err error) { reported = append(reported, err) })

	backend := &fakeBackend{records: sampleRecords(), saveErr: errors.New("boom")}
	c := NewController(backend, WithErrorReporter(reporter))
	require.NoError(t, c.Load(context.Background()))

	err := c.Save(context.Background(), "", model.RecordDraft{})
	require.ErrorIs(t, err, model.ErrInvalidRecord)

	valid := model.RecordDraft{Type: model.RecordInvoice, Date: "2024-07-01", CustomerName: "Delta", DocumentNo: "INV-003"}
	err = c.Save(context.Background(), "", valid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save record")

	assert.Len(t, reported, 2)
	assert.Equal(t, 1, backend.fetches, "failed saves do not reload")
}

func TestController_Delete(t *testing.T) {
	backend := &fakeBackend{records: sampleRecords()}
	journal := &fakeJournal{}
	c := NewController(backend, WithJournal(journal, "admin"))
	require.NoError(t, c.Load(context.Background()))

	require.NoError(t, c.Delete(context.Background(), "2"))
	assert.Equal(t, []string{"2"}, backend.deleted)
	require.Len(t, journal.activities, 1)
	assert.Equal(t, "CS-010", journal.activities[0].Detail)

	backend.deleteErr = fmt.Errorf("status 500")
	err := c.Delete(context.Background(), "2")
	assert.ErrorContains(t, err, "failed to delete record")
}

func TestController_WithoutBackend(t *testing.T) {
	c := NewController(nil, WithSeed(sampleRecords()))
	err := c.Load(context.Background())
	require.ErrorIs(t, err, pager.ErrNoFetcher)
	assert.Len(t, c.Dataset(), 4, "seeded data survives a failed load")
}

func TestStorageJournal(t *testing.T) {
	ctx := context.Background()
	store, err := storage.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	journal := StorageJournal{Store: store}
	require.NoError(t, journal.SaveSnapshot(ctx, sampleRecords()))
	require.NoError(t, journal.LogActivity(ctx, &storage.Activity{Action: storage.ActionDelete, Subject: "record"}))

	records, _, err := storage.LoadSnapshot[model.Record](ctx, store, storage.SnapshotRecords)
	require.NoError(t, err)
	assert.Len(t, records, 4)

	entries, err := store.RecentActivity(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
