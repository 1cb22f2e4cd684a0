package pager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
)

// PageSize is the number of items shown per page.
const PageSize = 20

// ErrNoFetcher is returned by LoadAll when the cache was built without a fetcher.
var ErrNoFetcher = errors.New("no fetcher configured")

// Fetcher retrieves the full collection from the backend.
type Fetcher[T any] interface {
	FetchAll(ctx context.Context) ([]T, error)
}

// FetchFunc adapts a plain function to the Fetcher interface.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// FetchAll calls f.
func (f FetchFunc[T]) FetchAll(ctx context.Context) ([]T, error) {
	return f(ctx)
}

// Renderer receives every recomputed page together with its pagination bar.
type Renderer[T any] interface {
	Render(page Page[T], buttons []Button)
	ScrollToTop()
}

// ErrorReporter is the user-facing error channel.
type ErrorReporter interface {
	ReportError(err error)
}

// ErrorReporterFunc adapts a function to the ErrorReporter interface.
type ErrorReporterFunc func(err error)

// ReportError calls f.
func (f ErrorReporterFunc) ReportError(err error) {
	f(err)
}

// Predicate selects the items a filter keeps.
type Predicate[T any] func(T) bool

// And combines predicates so an item must satisfy all of them. Nil
// predicates are skipped, so And() keeps everything.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	return func(item T) bool {
		for _, p := range preds {
			if p != nil && !p(item) {
				return false
			}
		}
		return true
	}
}

// Option configures a Cache.
type Option[T any] func(*Cache[T])

// WithRenderer sets the render collaborator.
func WithRenderer[T any](r Renderer[T]) Option[T] {
	return func(c *Cache[T]) {
		c.renderer = r
	}
}

// WithErrorReporter sets the error channel.
func WithErrorReporter[T any](r ErrorReporter) Option[T] {
	return func(c *Cache[T]) {
		c.errors = r
	}
}

// WithData seeds the dataset, for example from a saved snapshot.
func WithData[T any](data []T) Option[T] {
	return func(c *Cache[T]) {
		c.data = append([]T(nil), data...)
	}
}

// Cache holds a fully fetched dataset and the cursor of the page on display.
type Cache[T any] struct {
	fetcher  Fetcher[T]
	renderer Renderer[T]
	errors   ErrorReporter
	data     []T
	cursor   int
	mu       sync.Mutex
}

// New creates an empty cache backed by fetcher.
func New[T any](fetcher Fetcher[T], opts ...Option[T]) *Cache[T] {
	c := &Cache[T]{fetcher: fetcher}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadAll fetches the whole collection and replaces the dataset with it.
// The cursor goes back to the first page and the page is rendered. On failure
// the error is reported once and the previous dataset and cursor are kept.
//
// Overlapping calls are allowed; the last fetch to complete wins.
func (c *Cache[T]) LoadAll(ctx context.Context) error {
	if c.fetcher == nil {
		c.report(ErrNoFetcher)
		return ErrNoFetcher
	}

	items, err := c.fetcher.FetchAll(ctx)
	if err != nil {
		err = fmt.Errorf("failed to load dataset: %w", err)
		c.report(err)
		return err
	}

	c.mu.Lock()
	c.data = items
	c.cursor = 0
	page, buttons := c.snapshotLocked()
	c.mu.Unlock()

	slog.Debug("dataset loaded", "items", len(items))
	c.render(page, buttons)
	return nil
}

// PageSlice returns the items of the current page and its display bounds.
// An out-of-range cursor yields an empty page rather than an error.
func (c *Cache[T]) PageSlice() Page[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageLocked()
}

// Buttons returns the pagination bar for the current state.
func (c *Cache[T]) Buttons() []Button {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ComputePageButtons(totalPages(len(c.data)), c.cursor)
}

// GotoPage moves the cursor to page n. The value is not clamped: callers are
// expected to navigate through the generated page buttons. The page is
// rendered and the view is asked to scroll back to the top.
func (c *Cache[T]) GotoPage(n int) {
	c.mu.Lock()
	c.cursor = n
	page, buttons := c.snapshotLocked()
	c.mu.Unlock()

	c.render(page, buttons)
	if c.renderer != nil {
		c.renderer.ScrollToTop()
	}
}

// ApplyFilter narrows the dataset to the items matching every predicate.
func (c *Cache[T]) ApplyFilter(preds ...Predicate[T]) {
	c.NarrowDataset(And(preds...))
}

// NarrowDataset replaces the dataset with the items matching keep and resets
// the cursor. Items that are filtered out are discarded; only a new LoadAll
// brings them back.
func (c *Cache[T]) NarrowDataset(keep Predicate[T]) {
	c.mu.Lock()
	narrowed := make([]T, 0, len(c.data))
	for _, item := range c.data {
		if keep(item) {
			narrowed = append(narrowed, item)
		}
	}
	before := len(c.data)
	c.data = narrowed
	c.cursor = 0
	page, buttons := c.snapshotLocked()
	c.mu.Unlock()

	slog.Debug("dataset narrowed", "before", before, "after", len(narrowed))
	c.render(page, buttons)
}

// Dataset returns a copy of the cached items.
func (c *Cache[T]) Dataset() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.data...)
}

// Find returns the first item matching match.
func (c *Cache[T]) Find(match Predicate[T]) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.data {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of cached items.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Cursor returns the current zero-based page.
func (c *Cache[T]) Cursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// TotalPages returns ceil(len(dataset) / PageSize).
func (c *Cache[T]) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return totalPages(len(c.data))
}

// Render pushes the current page to the renderer without changing state.
func (c *Cache[T]) Render() {
	c.mu.Lock()
	page, buttons := c.snapshotLocked()
	c.mu.Unlock()
	c.render(page, buttons)
}

// Cursors beyond these bounds saturate when computing display bounds.
const (
	maxCursor = (math.MaxInt - PageSize) / PageSize
	minCursor = math.MinInt / PageSize
)

func (c *Cache[T]) pageLocked() Page[T] {
	total := len(c.data)
	pages := totalPages(total)

	start := min(max(c.cursor, minCursor), maxCursor) * PageSize
	end := start + PageSize

	page := Page[T]{
		Number:     c.cursor,
		TotalPages: pages,
		Start:      start + 1,
		End:        min(end, total),
		Total:      total,
	}
	if c.cursor >= 0 && c.cursor < pages {
		page.Items = append([]T(nil), c.data[start:min(end, total)]...)
	}
	return page
}

func (c *Cache[T]) snapshotLocked() (Page[T], []Button) {
	page := c.pageLocked()
	return page, ComputePageButtons(page.TotalPages, c.cursor)
}

func (c *Cache[T]) render(page Page[T], buttons []Button) {
	if c.renderer == nil {
		return
	}
	c.renderer.Render(page, buttons)
}

func (c *Cache[T]) report(err error) {
	slog.Error("dataset operation failed", "error", err)
	if c.errors != nil {
		c.errors.ReportError(err)
	}
}

func totalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}
