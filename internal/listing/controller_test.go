package listing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reply struct {
	res PageResult[string]
	err error
}

type pendingFetch struct {
	req   PageRequest
	reply chan reply
}

// fakeFetcher parks every fetch until the test answers it.
type fakeFetcher struct {
	calls chan pendingFetch
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{calls: make(chan pendingFetch, 16)}
}

func (f *fakeFetcher) FetchPage(ctx context.Context, req PageRequest) (PageResult[string], error) {
	p := pendingFetch{req: req, reply: make(chan reply, 1)}
	f.calls <- p
	select {
	case r := <-p.reply:
		return r.res, r.err
	case <-ctx.Done():
		return PageResult[string]{}, ctx.Err()
	}
}

func (f *fakeFetcher) next(t *testing.T) pendingFetch {
	t.Helper()
	select {
	case p := <-f.calls:
		return p
	case <-time.After(time.Second):
		t.Fatal("expected a fetch")
		return pendingFetch{}
	}
}

func (f *fakeFetcher) assertIdle(t *testing.T) {
	t.Helper()
	select {
	case p := <-f.calls:
		t.Fatalf("unexpected fetch for page %d", p.req.Page)
	case <-time.After(20 * time.Millisecond):
	}
}

func (p pendingFetch) succeed(items []string, total int) {
	p.reply <- reply{res: PageResult[string]{Items: items, Total: total}}
}

func (p pendingFetch) fail(err error) {
	p.reply <- reply{err: err}
}

func await(t *testing.T, ch <-chan Outcome) Outcome {
	t.Helper()
	select {
	case o := <-ch:
		return o
	case <-time.After(time.Second):
		t.Fatal("fetch did not resolve")
		return Outcome{}
	}
}

func newTestController(t *testing.T, f Fetcher[string], opts ...Option) *Controller[string] {
	t.Helper()
	opts = append([]Option{WithLogger(zerolog.Nop())}, opts...)
	c, err := New(Config{Name: "mobile_workers", DefaultLimit: 10, MaxLimit: 50}, f, opts...)
	require.NoError(t, err)
	return c
}

type memLimitStore struct {
	mu     sync.Mutex
	limits map[string]int
	err    error
}

func (s *memLimitStore) GetLimit(_ context.Context, key string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, false, s.err
	}
	n, ok := s.limits[key]
	return n, ok, nil
}

func (s *memLimitStore) SetLimit(_ context.Context, key string, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.limits[key] = limit
	return nil
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New[string](Config{}, newFakeFetcher())
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Len(t, cfgErr.Problems, 2)

	_, err = New[string](Config{Name: "x", DefaultLimit: 10}, nil)
	assert.ErrorAs(t, err, &cfgErr)

	_, err = New[string](Config{Name: "x", DefaultLimit: 10, Filters: map[string]string{"page": "2"}}, newFakeFetcher())
	assert.ErrorAs(t, err, &cfgErr)
}

func TestInitialState(t *testing.T) {
	c := newTestController(t, newFakeFetcher())

	s := c.State()
	assert.Equal(t, PhaseLoading, s.Phase)
	assert.Equal(t, 1, s.CurrentPage)
	assert.Equal(t, 10, s.ItemsPerPage)
	assert.Empty(t, s.Items)
}

func TestGoToPageLoadsItems(t *testing.T) {
	f := newFakeFetcher()
	c := newTestController(t, f)

	done := c.GoToPage(t.Context(), 3)
	p := f.next(t)
	assert.Equal(t, PageRequest{Page: 3, Query: "", Limit: 10}, PageRequest{Page: p.req.Page, Query: p.req.Query, Limit: p.req.Limit})
	assert.Equal(t, PhaseLoading, c.State().Phase)

	p.succeed([]string{"a", "b"}, 42)
	o := await(t, done)

	assert.True(t, o.Applied)
	assert.NoError(t, o.Err)
	s := c.State()
	assert.Equal(t, PhaseLoaded, s.Phase)
	assert.Equal(t, []string{"a", "b"}, s.Items)
	assert.Equal(t, 42, s.TotalItems)
	assert.Equal(t, 3, s.CurrentPage)
	assert.Equal(t, 5, s.TotalPages())
}

func TestGoToPageClampsNonPositive(t *testing.T) {
	f := newFakeFetcher()
	c := newTestController(t, f)

	done := c.GoToPage(t.Context(), -4)
	p := f.next(t)
	assert.Equal(t, 1, p.req.Page)
	p.succeed(nil, 0)
	await(t, done)

	assert.Equal(t, 1, c.State().CurrentPage)
	assert.True(t, c.State().IsEmpty())
}

func TestStaleResultIsDiscarded(t *testing.T) {
	f := newFakeFetcher()
	c := newTestController(t, f)

	first := c.GoToPage(t.Context(), 1)
	p1 := f.next(t)
	second := c.GoToPage(t.Context(), 2)
	p2 := f.next(t)

	p2.succeed([]string{"page-2"}, 20)
	o2 := await(t, second)
	assert.True(t, o2.Applied)

	p1.succeed([]string{"page-1"}, 99)
	o1 := await(t, first)
	assert.False(t, o1.Applied)
	assert.Less(t, o1.Generation, o2.Generation)

	s := c.State()
	assert.Equal(t, []string{"page-2"}, s.Items)
	assert.Equal(t, 20, s.TotalItems)
	assert.Equal(t, 2, s.CurrentPage)
	assert.Equal(t, PhaseLoaded, s.Phase)
}

func TestStaleResultWhileNewerStillLoading(t *testing.T) {
	f := newFakeFetcher()
	c := newTestController(t, f)

	first := c.GoToPage(t.Context(), 1)
	p1 := f.next(t)
	second := c.GoToPage(t.Context(), 2)
	p2 := f.next(t)

	p1.succeed([]string{"page-1"}, 10)
	assert.False(t, await(t, first).Applied)
	assert.Equal(t, PhaseLoading, c.State().Phase)
	assert.Empty(t, c.State().Items)

	p2.succeed([]string{"page-2"}, 20)
	assert.True(t, await(t, second).Applied)
	assert.Equal(t, []string{"page-2"}, c.State().Items)
}

func TestStaleErrorDoesNotOverrideNewerSuccess(t *testing.T) {
	f := newFakeFetcher()
	c := newTestController(t, f)

	first := c.GoToPage(t.Context(), 1)
	p1 := f.next(t)
	second := c.GoToPage(t.Context(), 2)
	p2 := f.next(t)

	p2.succeed([]string{"ok"}, 1)
	await(t, second)
	p1.fail(&NetworkError{Op: "fetch", StatusCode: 500})
	o1 := await(t, first)

	assert.False(t, o1.Applied)
	assert.Error(t, o1.Err)
	assert.Equal(t, PhaseLoaded, c.State().Phase)
	assert.Empty(t, c.State().ErrorMessage)
}

func TestSearchResetsToFirstPage(t *testing.T) {
	f := newFakeFetcher()
	c := newTestController(t, f)

	done := c.GoToPage(t.Context(), 5)
	f.next(t).succeed([]string{"e"}, 100)
	await(t, done)

	done = c.Search(t.Context(), "x")
	p := f.next(t)
	assert.Equal(t, 1, p.req.Page)
	assert.Equal(t, "x", p.req.Query)
	assert.Equal(t, 1, c.State().CurrentPage)
	p.succeed([]string{"x1"}, 1)
	await(t, done)

	assert.Equal(t, "x", c.State().Query)
}

func TestEmptySearchStillFetches(t *testing.T) {
	f := newFakeFetcher()
	c := newTestController(t, f)

	done := c.Search(t.Context(), "abc")
	f.next(t).succeed(nil, 0)
	await(t, done)

	done = c.Search(t.Context(), "")
	p := f.next(t)
	assert.Equal(t, "", p.req.Query)
	p.succeed([]string{"all"}, 1)
	assert.True(t, await(t, done).Applied)
	f.assertIdle(t)
}

func TestSetFilterResetsPageAndCopiesFilters(t *testing.T) {
	f := newFakeFetcher()
	c := newTestController(t, f)

	done := c.GoToPage(t.Context(), 4)
	f.next(t).succeed(nil, 80)
	await(t, done)

	done = c.SetFilter(t.Context(), "showDeactivatedUsers", "true")
	p := f.next(t)
	assert.Equal(t, 1, p.req.Page)
	assert.Equal(t, map[string]string{"showDeactivatedUsers": "true"}, p.req.ExtraFilters)

	// the request must not alias controller state
	p.req.ExtraFilters["showDeactivatedUsers"] = "mutated"
	assert.Equal(t, "true", c.State().Filters["showDeactivatedUsers"])

	p.succeed(nil, 0)
	await(t, done)
}

func TestSetItemsPerPageResetsPageAndPersists(t *testing.T) {
	f := newFakeFetcher()
	store := &memLimitStore{limits: map[string]int{}}
	c := newTestController(t, f, WithLimitStore(store))

	done := c.GoToPage(t.Context(), 7)
	f.next(t).succeed(nil, 200)
	await(t, done)

	done = c.SetItemsPerPage(t.Context(), 25)
	p := f.next(t)
	assert.Equal(t, 1, p.req.Page)
	assert.Equal(t, 25, p.req.Limit)
	p.succeed(nil, 200)
	await(t, done)

	assert.Equal(t, 25, store.limits["mobile_workers"])

	done = c.SetItemsPerPage(t.Context(), 1000)
	p = f.next(t)
	assert.Equal(t, 50, p.req.Limit)
	p.succeed(nil, 200)
	await(t, done)
}

func TestStartRestoresPersistedLimit(t *testing.T) {
	f := newFakeFetcher()
	store := &memLimitStore{limits: map[string]int{"mobile_workers": 30}}
	c := newTestController(t, f, WithLimitStore(store))

	done := c.Start(t.Context())
	p := f.next(t)
	assert.Equal(t, 1, p.req.Page)
	assert.Equal(t, 30, p.req.Limit)
	p.succeed(nil, 0)
	await(t, done)
}

func TestStartIgnoresLimitStoreFailure(t *testing.T) {
	f := newFakeFetcher()
	store := &memLimitStore{err: errors.New("redis down")}
	c := newTestController(t, f, WithLimitStore(store))

	done := c.Start(t.Context())
	p := f.next(t)
	assert.Equal(t, 10, p.req.Limit)
	p.succeed(nil, 0)
	assert.True(t, await(t, done).Applied)
}

func TestErrorPhaseAndRetry(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"network", &NetworkError{Op: "fetch", StatusCode: 502}},
		{"server reported", &ServerReportedError{Message: "index unavailable"}},
		{"other", context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeFetcher()
			c := newTestController(t, f)

			done := c.GoToPage(t.Context(), 2)
			f.next(t).fail(tt.err)
			o := await(t, done)

			assert.True(t, o.Applied)
			assert.ErrorIs(t, o.Err, tt.err)
			s := c.State()
			assert.Equal(t, PhaseError, s.Phase)
			assert.Equal(t, GenericErrorMessage, s.ErrorMessage)

			done = c.Retry(t.Context())
			p := f.next(t)
			assert.Equal(t, 2, p.req.Page)
			assert.Equal(t, PhaseLoading, c.State().Phase)
			assert.Empty(t, c.State().ErrorMessage)
			p.succeed([]string{"back"}, 11)
			await(t, done)

			assert.Equal(t, PhaseLoaded, c.State().Phase)
		})
	}
}

func TestGoToCurrentPageRefetches(t *testing.T) {
	f := newFakeFetcher()
	c := newTestController(t, f)

	done := c.GoToPage(t.Context(), 2)
	f.next(t).succeed([]string{"a", "b"}, 12)
	first := await(t, done)

	done = c.GoToPage(t.Context(), c.State().CurrentPage)
	p := f.next(t)
	assert.Equal(t, 2, p.req.Page)
	p.succeed([]string{"a", "b"}, 12)
	second := await(t, done)

	assert.True(t, second.Applied)
	assert.Greater(t, second.Generation, first.Generation)
	assert.Equal(t, []string{"a", "b"}, c.State().Items)
}

func TestObserversSeeTransitions(t *testing.T) {
	f := newFakeFetcher()
	c := newTestController(t, f)

	var mu sync.Mutex
	var phases []Phase
	c.OnChange(func(s State[string]) {
		mu.Lock()
		defer mu.Unlock()
		phases = append(phases, s.Phase)
	})

	done := c.GoToPage(t.Context(), 1)
	f.next(t).succeed([]string{"a"}, 1)
	await(t, done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Phase{PhaseLoading, PhaseLoaded}, phases)
}

func TestFetcherFunc(t *testing.T) {
	var got PageRequest
	fetch := FetcherFunc[string](func(_ context.Context, req PageRequest) (PageResult[string], error) {
		got = req
		return PageResult[string]{Items: []string{"z"}, Total: -3}, nil
	})
	c := newTestController(t, fetch)

	o := await(t, c.Search(t.Context(), "q"))

	assert.True(t, o.Applied)
	assert.Equal(t, "q", got.Query)
	assert.Equal(t, 0, c.State().TotalItems)
}
