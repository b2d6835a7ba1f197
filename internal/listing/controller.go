package listing

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Fetcher loads one page of items from a list endpoint.
type Fetcher[T any] interface {
	FetchPage(ctx context.Context, req PageRequest) (PageResult[T], error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc[T any] func(ctx context.Context, req PageRequest) (PageResult[T], error)

func (f FetcherFunc[T]) FetchPage(ctx context.Context, req PageRequest) (PageResult[T], error) {
	return f(ctx, req)
}

// Outcome reports what happened to one fetch once it resolved. Applied is
// false when a newer fetch was started in the meantime and the result was
// dropped.
type Outcome struct {
	Generation uint64
	Applied    bool
	Err        error
}

// Controller owns the state of one paged, searchable list backed by a
// server endpoint.
//
// Fetches may overlap. Each one captures the generation counter when it
// starts and its result is applied only if no other fetch started since,
// so a slow old response never replaces a newer one. Requests are not
// cancelled; stale results are discarded when they arrive.
type Controller[T any] struct {
	cfg     Config
	fetcher Fetcher[T]
	limits  LimitStore
	logger  zerolog.Logger

	mu           sync.Mutex
	observers    []func(State[T])
	items        []T
	currentPage  int
	itemsPerPage int
	totalItems   int
	query        string
	filters      map[string]string
	phase        Phase
	errorMessage string
	generation   uint64
}

// New validates cfg and returns a controller in the Loading phase. It does
// not fetch; call Start or GoToPage.
func New[T any](cfg Config, fetcher Fetcher[T], opts ...Option) (*Controller[T], error) {
	if fetcher == nil {
		return nil, &ConfigError{Problems: []string{"fetcher is required"}}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	logger := log.Logger
	if o.logger != nil {
		logger = *o.logger
	}

	return &Controller[T]{
		cfg:          cfg,
		fetcher:      fetcher,
		limits:       o.limits,
		logger:       logger.With().Str("list", cfg.Name).Logger(),
		currentPage:  1,
		itemsPerPage: cfg.DefaultLimit,
		filters:      maps.Clone(cfg.Filters),
		phase:        PhaseLoading,
	}, nil
}

// OnChange registers fn to receive a snapshot after every state change.
// Snapshots from overlapping fetches may arrive out of order; compare
// Generation when that matters.
func (c *Controller[T]) OnChange(fn func(State[T])) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Start restores a persisted page size, if any, and fetches the first page.
func (c *Controller[T]) Start(ctx context.Context) <-chan Outcome {
	if c.limits != nil {
		limit, ok, err := c.limits.GetLimit(ctx, c.cfg.Name)
		switch {
		case err != nil:
			c.logger.Warn().Err(err).Msg("could not restore page size")
		case ok:
			c.mu.Lock()
			c.itemsPerPage = c.clampLimit(limit)
			c.mu.Unlock()
		}
	}
	return c.GoToPage(ctx, 1)
}

// GoToPage fetches the given page. Values below 1 are treated as 1.
func (c *Controller[T]) GoToPage(ctx context.Context, page int) <-chan Outcome {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.currentPage = page
	c.phase = PhaseLoading
	c.errorMessage = ""
	req := newPageRequest(page, c.query, c.itemsPerPage, c.filters)
	snap, observers := c.snapshotLocked(), slices.Clone(c.observers)
	c.mu.Unlock()

	notify(observers, snap)

	done := make(chan Outcome, 1)
	go func() {
		defer close(done)
		res, err := c.fetcher.FetchPage(ctx, req)
		done <- c.complete(gen, req, res, err)
	}()
	return done
}

// Search sets the query and goes back to the first page. The empty string
// is a query like any other and still triggers a fetch.
func (c *Controller[T]) Search(ctx context.Context, text string) <-chan Outcome {
	c.mu.Lock()
	c.query = text
	c.mu.Unlock()
	return c.GoToPage(ctx, 1)
}

// SetFilter sets an extra request filter and goes back to the first page.
func (c *Controller[T]) SetFilter(ctx context.Context, key, value string) <-chan Outcome {
	c.mu.Lock()
	if c.filters == nil {
		c.filters = map[string]string{}
	}
	c.filters[key] = value
	c.mu.Unlock()
	return c.GoToPage(ctx, 1)
}

// SetItemsPerPage changes the page size, persists it when a LimitStore is
// configured and refetches from the first page.
func (c *Controller[T]) SetItemsPerPage(ctx context.Context, n int) <-chan Outcome {
	c.mu.Lock()
	c.itemsPerPage = c.clampLimit(n)
	limit := c.itemsPerPage
	c.mu.Unlock()

	if c.limits != nil {
		if err := c.limits.SetLimit(ctx, c.cfg.Name, limit); err != nil {
			c.logger.Warn().Err(err).Int("limit", limit).Msg("could not persist page size")
		}
	}
	return c.GoToPage(ctx, 1)
}

// Retry refetches the current page.
func (c *Controller[T]) Retry(ctx context.Context) <-chan Outcome {
	c.mu.Lock()
	page := c.currentPage
	c.mu.Unlock()
	return c.GoToPage(ctx, page)
}

// State returns a snapshot of the list.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// PageWindow returns the page numbers a pager should show for the current
// state.
func (c *Controller[T]) PageWindow() []int {
	return c.State().PageWindow(c.cfg.MaxPagesShown)
}

func (c *Controller[T]) complete(gen uint64, req PageRequest, res PageResult[T], err error) Outcome {
	c.mu.Lock()
	if gen != c.generation {
		current := c.generation
		c.mu.Unlock()
		c.logger.Debug().
			Uint64("generation", gen).
			Uint64("current_generation", current).
			Int("page", req.Page).
			Msg("discarding stale page result")
		return Outcome{Generation: gen, Err: err}
	}

	if err != nil {
		c.phase = PhaseError
		c.errorMessage = GenericErrorMessage
	} else {
		c.items = slices.Clone(res.Items)
		c.totalItems = max(res.Total, 0)
		c.phase = PhaseLoaded
	}
	snap, observers := c.snapshotLocked(), slices.Clone(c.observers)
	c.mu.Unlock()

	if err != nil {
		c.logFailure(gen, req, err)
	}
	notify(observers, snap)
	return Outcome{Generation: gen, Applied: true, Err: err}
}

func (c *Controller[T]) logFailure(gen uint64, req PageRequest, err error) {
	ev := c.logger.Warn().Err(err).Uint64("generation", gen).Int("page", req.Page)

	var netErr *NetworkError
	var srvErr *ServerReportedError
	switch {
	case errors.As(err, &srvErr):
		ev = ev.Str("kind", "server_reported")
	case errors.As(err, &netErr):
		ev = ev.Str("kind", "network").Int("status_code", netErr.StatusCode)
	default:
		ev = ev.Str("kind", "unknown")
	}
	ev.Msg("page fetch failed")
}

func (c *Controller[T]) clampLimit(n int) int {
	return min(max(n, 1), c.cfg.MaxLimit)
}

func (c *Controller[T]) snapshotLocked() State[T] {
	return State[T]{
		Items:        slices.Clone(c.items),
		CurrentPage:  c.currentPage,
		ItemsPerPage: c.itemsPerPage,
		TotalItems:   c.totalItems,
		Query:        c.query,
		Filters:      maps.Clone(c.filters),
		Phase:        c.phase,
		ErrorMessage: c.errorMessage,
		Generation:   c.generation,
	}
}

func notify[T any](observers []func(State[T]), s State[T]) {
	for _, fn := range observers {
		fn(s)
	}
}
