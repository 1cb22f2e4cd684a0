package records

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Veraticus/malex-office/internal/common"
	"github.com/Veraticus/malex-office/internal/model"
	"github.com/Veraticus/malex-office/internal/pager"
	"github.com/Veraticus/malex-office/internal/storage"
)

// Backend is the records endpoint.
type Backend interface {
	FetchAll(ctx context.Context) ([]model.Record, error)
	SaveRecord(ctx context.Context, id string, draft model.RecordDraft) error
	DeleteRecord(ctx context.Context, id string) error
}

// Journal keeps local traces of what the controller did. Failures are logged
// and never interrupt the operation.
type Journal interface {
	SaveSnapshot(ctx context.Context, records []model.Record) error
	LogActivity(ctx context.Context, a *storage.Activity) error
}

// StorageJournal journals into the local SQLite database.
type StorageJournal struct {
	Store *storage.SQLiteStorage
}

// SaveSnapshot stores records as the newest offline snapshot.
func (j StorageJournal) SaveSnapshot(ctx context.Context, records []model.Record) error {
	return storage.SaveSnapshot(ctx, j.Store, storage.SnapshotRecords, records)
}

// LogActivity appends to the activity log.
func (j StorageJournal) LogActivity(ctx context.Context, a *storage.Activity) error {
	return j.Store.LogActivity(ctx, a)
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	renderer pager.Renderer[model.Record]
	reporter pager.ErrorReporter
	journal  Journal
	user     string
	seed     []model.Record
}

// WithRenderer sets the view that receives every recomputed page.
func WithRenderer(r pager.Renderer[model.Record]) Option {
	return func(o *options) { o.renderer = r }
}

// WithErrorReporter sets the user-facing error channel.
func WithErrorReporter(r pager.ErrorReporter) Option {
	return func(o *options) { o.reporter = r }
}

// WithJournal records snapshots and activity on behalf of user.
func WithJournal(j Journal, user string) Option {
	return func(o *options) {
		o.journal = j
		o.user = user
	}
}

// WithSeed starts the controller with records loaded elsewhere, such as an
// offline snapshot.
func WithSeed(records []model.Record) Option {
	return func(o *options) { o.seed = records }
}

// Controller ties the paginated cache to the records backend.
type Controller struct {
	backend  Backend
	cache    *pager.Cache[model.Record]
	reporter pager.ErrorReporter
	journal  Journal
	user     string
}

// NewController creates a controller. Nothing is fetched until Load.
func NewController(backend Backend, opts ...Option) *Controller {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Controller{
		backend:  backend,
		reporter: o.reporter,
		journal:  o.journal,
		user:     o.user,
	}

	cacheOpts := []pager.Option[model.Record]{pager.WithData(o.seed)}
	if o.renderer != nil {
		cacheOpts = append(cacheOpts, pager.WithRenderer(o.renderer))
	}
	if o.reporter != nil {
		cacheOpts = append(cacheOpts, pager.WithErrorReporter[model.Record](o.reporter))
	}

	var fetcher pager.Fetcher[model.Record]
	if backend != nil {
		fetcher = pager.FetchFunc[model.Record](c.fetch)
	}
	c.cache = pager.New(fetcher, cacheOpts...)
	return c
}

func (c *Controller) fetch(ctx context.Context) ([]model.Record, error) {
	records, err := c.backend.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if c.journal != nil {
		if err := c.journal.SaveSnapshot(ctx, records); err != nil {
			common.LogBestEffort(err, "save records snapshot")
		}
	}
	return records, nil
}

// Load fetches every record, discarding any filter narrowing.
func (c *Controller) Load(ctx context.Context) error {
	return c.cache.LoadAll(ctx)
}

// Apply narrows the current dataset by f and returns to the first page.
// Narrowing is cumulative until the next Load.
func (c *Controller) Apply(f Filter) {
	c.cache.ApplyFilter(f.Predicates()...)
}

// Goto shows page n (zero-based).
func (c *Controller) Goto(n int) {
	c.cache.GotoPage(n)
}

// Render pushes the current page to the view again.
func (c *Controller) Render() {
	c.cache.Render()
}

// Page returns the page on display.
func (c *Controller) Page() pager.Page[model.Record] {
	return c.cache.PageSlice()
}

// Buttons returns the pagination bar.
func (c *Controller) Buttons() []pager.Button {
	return c.cache.Buttons()
}

// Dataset returns a copy of the working dataset.
func (c *Controller) Dataset() []model.Record {
	return c.cache.Dataset()
}

// Find returns the cached record with the given id, used to prefill edits.
func (c *Controller) Find(id string) (model.Record, bool) {
	return c.cache.Find(func(r model.Record) bool { return r.ID == id })
}

// Customers returns the distinct customer names of the dataset, sorted.
func (c *Controller) Customers() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range c.cache.Dataset() {
		if r.CustomerName == "" {
			continue
		}
		if _, ok := seen[r.CustomerName]; ok {
			continue
		}
		seen[r.CustomerName] = struct{}{}
		names = append(names, r.CustomerName)
	}
	sort.Strings(names)
	return names
}

// Save creates the record when id is empty and updates it otherwise. On
// success the dataset is reloaded from the backend.
func (c *Controller) Save(ctx context.Context, id string, draft model.RecordDraft) error {
	if err := draft.Validate(); err != nil {
		c.report(err)
		return err
	}

	if err := c.backend.SaveRecord(ctx, id, draft); err != nil {
		err = fmt.Errorf("failed to save record: %w", err)
		c.report(err)
		return err
	}

	action := storage.ActionCreate
	if id != "" {
		action = storage.ActionUpdate
	}
	c.logActivity(ctx, action, id, draft.DocumentNo)

	slog.Info("Record saved", "action", action, "document", draft.DocumentNo)
	return c.Load(ctx)
}

// Delete removes a record and reloads the dataset.
func (c *Controller) Delete(ctx context.Context, id string) error {
	detail := ""
	if r, ok := c.Find(id); ok {
		detail = r.DocumentNo()
	}

	if err := c.backend.DeleteRecord(ctx, id); err != nil {
		err = fmt.Errorf("failed to delete record: %w", err)
		c.report(err)
		return err
	}

	c.logActivity(ctx, storage.ActionDelete, id, detail)
	slog.Info("Record deleted", "id", id)
	return c.Load(ctx)
}

func (c *Controller) logActivity(ctx context.Context, action, id, detail string) {
	if c.journal == nil {
		return
	}
	entry := &storage.Activity{
		Action:    action,
		Subject:   "record",
		SubjectID: id,
		Detail:    detail,
		User:      c.user,
	}
	if err := c.journal.LogActivity(ctx, entry); err != nil {
		common.LogBestEffort(err, "log record activity")
	}
}

func (c *Controller) report(err error) {
	if c.reporter != nil {
		c.reporter.ReportError(err)
	}
}
