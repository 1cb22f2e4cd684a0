package pager

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID      int
	Invoice bool
}

func items(n int) []item {
	out := make([]item, n)
	for i := range out {
		out[i] = item{ID: i}
	}
	return out
}

type recordingRenderer struct {
	pages    []Page[item]
	buttons  [][]Button
	scrolled int
}

func (r *recordingRenderer) Render(page Page[item], buttons []Button) {
	r.pages = append(r.pages, page)
	r.buttons = append(r.buttons, buttons)
}

func (r *recordingRenderer) ScrollToTop() { r.scrolled++ }

func (r *recordingRenderer) last() Page[item] {
	return r.pages[len(r.pages)-1]
}

type errorSink struct {
	errs []error
}

func (s *errorSink) ReportError(err error) { s.errs = append(s.errs, err) }

func staticFetcher(data []item) Fetcher[item] {
	return FetchFunc[item](func(context.Context) ([]item, error) {
		return data, nil
	})
}

func TestCache_LoadAll(t *testing.T) {
	renderer := &recordingRenderer{}
	cache := New(staticFetcher(items(45)), WithRenderer[item](renderer))
	cache.GotoPage(3)

	require.NoError(t, cache.LoadAll(context.Background()))
	assert.Equal(t, 45, cache.Len())
	assert.Equal(t, 0, cache.Cursor())
	assert.Equal(t, 3, cache.TotalPages())

	page := renderer.last()
	assert.Equal(t, 1, page.Start)
	assert.Equal(t, 20, page.End)
	assert.Equal(t, "Showing 1-20 of 45 records", page.Summary())
}

func TestCache_LoadAllFailureKeepsState(t *testing.T) {
	sink := &errorSink{}
	renderer := &recordingRenderer{}
	fail := false
	fetcher := FetchFunc[item](func(context.Context) ([]item, error) {
		if fail {
			return nil, errors.New("503 Service Unavailable")
		}
		return items(30), nil
	})
	cache := New[item](fetcher, WithRenderer[item](renderer), WithErrorReporter[item](sink))

	require.NoError(t, cache.LoadAll(context.Background()))
	cache.GotoPage(1)
	renders := len(renderer.pages)

	fail = true
	err := cache.LoadAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503 Service Unavailable")
	require.Len(t, sink.errs, 1)
	assert.Equal(t, 30, cache.Len())
	assert.Equal(t, 1, cache.Cursor())
	assert.Len(t, renderer.pages, renders, "failed load must not render")
}

func TestCache_LoadAllWithoutFetcher(t *testing.T) {
	sink := &errorSink{}
	cache := New[item](nil, WithErrorReporter[item](sink))

	assert.ErrorIs(t, cache.LoadAll(context.Background()), ErrNoFetcher)
	assert.Len(t, sink.errs, 1)
}

func TestCache_PageSlice(t *testing.T) {
	data := items(45)
	cache := New[item](nil, WithData(data))

	page := cache.PageSlice()
	assert.Equal(t, data[0:20], page.Items)

	cache.GotoPage(2)
	page = cache.PageSlice()
	assert.Equal(t, data[40:45], page.Items)
	assert.Equal(t, 41, page.Start)
	assert.Equal(t, 45, page.End)
	assert.Equal(t, "Showing 41-45 of 45 records", page.Summary())
}

func TestCache_PagesReconstructDataset(t *testing.T) {
	for _, n := range []int{0, 1, 19, 20, 21, 40, 45, 101} {
		data := items(n)
		cache := New[item](nil, WithData(data))

		var joined []item
		for p := 0; p < cache.TotalPages(); p++ {
			cache.GotoPage(p)
			page := cache.PageSlice()
			assert.LessOrEqual(t, len(page.Items), PageSize)
			joined = append(joined, page.Items...)
		}
		if n == 0 {
			assert.Empty(t, joined)
			continue
		}
		assert.Equal(t, data, joined, "n=%d", n)
	}
}

func TestCache_GotoPageOutOfRange(t *testing.T) {
	renderer := &recordingRenderer{}
	cache := New[item](nil, WithData(items(30)), WithRenderer[item](renderer))

	cache.GotoPage(5)

	assert.Equal(t, 5, cache.Cursor(), "cursor is not clamped")
	page := renderer.last()
	assert.True(t, page.Empty())
	assert.Equal(t, 101, page.Start)
	assert.Equal(t, 30, page.End)
	assert.Equal(t, 1, renderer.scrolled)

	cache.GotoPage(-1)
	assert.True(t, cache.PageSlice().Empty())
}

func TestCache_GotoPageHugeCursor(t *testing.T) {
	cache := New[int](nil, WithData([]int{1, 2, 3}))

	for _, n := range []int{math.MaxInt / PageSize, math.MaxInt, math.MinInt} {
		assert.NotPanics(t, func() { cache.GotoPage(n) }, "n=%d", n)

		page := cache.PageSlice()
		assert.True(t, page.Empty(), "n=%d", n)
		assert.Equal(t, n, page.Number)
		assert.Equal(t, 3, page.Total)
		assert.LessOrEqual(t, page.End, page.Total)
	}

	cache.GotoPage(0)
	assert.Equal(t, []int{1, 2, 3}, cache.PageSlice().Items)
}

func TestCache_ApplyFilter(t *testing.T) {
	data := items(10)
	for _, i := range []int{1, 4, 7} {
		data[i].Invoice = true
	}
	renderer := &recordingRenderer{}
	cache := New[item](nil, WithData(data), WithRenderer[item](renderer))
	cache.GotoPage(1)

	isInvoice := func(it item) bool { return it.Invoice }
	cache.ApplyFilter(isInvoice)

	assert.Equal(t, []item{data[1], data[4], data[7]}, cache.Dataset())
	assert.Equal(t, 0, cache.Cursor())
	assert.Equal(t, "Showing 1-3 of 3 records", renderer.last().Summary())

	cache.ApplyFilter(isInvoice)
	assert.Equal(t, []item{data[1], data[4], data[7]}, cache.Dataset(), "filter is idempotent")
}

func TestCache_NarrowingIsDestructive(t *testing.T) {
	cache := New(staticFetcher(items(10)))
	require.NoError(t, cache.LoadAll(context.Background()))

	cache.NarrowDataset(func(it item) bool { return it.ID < 5 })
	cache.NarrowDataset(func(it item) bool { return it.ID >= 5 })
	assert.Equal(t, 0, cache.Len(), "records removed by an earlier filter stay gone")

	require.NoError(t, cache.LoadAll(context.Background()))
	assert.Equal(t, 10, cache.Len())
}

func TestCache_ApplyFilterInactive(t *testing.T) {
	cache := New[item](nil, WithData(items(25)))
	cache.ApplyFilter()
	assert.Equal(t, 25, cache.Len())

	cache.ApplyFilter(nil, func(it item) bool { return it.ID%2 == 0 })
	assert.Equal(t, 13, cache.Len())
}

func TestCache_Find(t *testing.T) {
	cache := New[item](nil, WithData(items(5)))

	found, ok := cache.Find(func(it item) bool { return it.ID == 3 })
	assert.True(t, ok)
	assert.Equal(t, 3, found.ID)

	_, ok = cache.Find(func(it item) bool { return it.ID == 42 })
	assert.False(t, ok)
}

func TestCache_DatasetIsCopy(t *testing.T) {
	cache := New[item](nil, WithData(items(3)))
	got := cache.Dataset()
	got[0].ID = 99

	assert.Equal(t, 0, cache.Dataset()[0].ID)
}

func TestCache_ConcurrentLoads(t *testing.T) {
	calls := 0
	var mu sync.Mutex
	fetcher := FetchFunc[item](func(context.Context) ([]item, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		return items(n), nil
	})
	cache := New[item](fetcher)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cache.LoadAll(context.Background())
			_ = cache.PageSlice()
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, calls)
	assert.GreaterOrEqual(t, cache.Len(), 1)
	assert.Equal(t, 0, cache.Cursor())
}
