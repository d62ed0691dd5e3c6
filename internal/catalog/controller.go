package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/vibedex/vibedex/pkg/types"
)

const (
	// DefaultPageSize is the number of items requested per page.
	DefaultPageSize = 20
	// DefaultDetailCacheSize caps the number of memoized detail documents.
	DefaultDetailCacheSize = 256
	// DefaultDemoPath is the proxied path used by the protected demo.
	DefaultDemoPath = "/__demo/protected"

	msgListFailed    = "Could not load the Pokemon list. Please try again."
	msgDetailsFailed = "Could not load Pokemon details. Please try again."
	msgDemoFailed    = "Could not load protected API data."
)

// Fetcher is the network surface the controller depends on. *client.Client
// satisfies it.
type Fetcher interface {
	FetchList(ctx context.Context, limit, offset int) (*types.ListPage, error)
	FetchDetails(ctx context.Context, detailURL string) (*types.Detail, error)
	FetchProtectedResource(ctx context.Context, path, query string) (any, error)
}

// detailedError is an error carrying a structured payload.
type detailedError interface {
	error
	Details() any
}

// Controller owns the browse state. Flows may run concurrently from any
// goroutine; each flow is exclusive with itself only.
type Controller struct {
	fetcher Fetcher
	logger  zerolog.Logger

	pageSize  int
	cacheSize int
	demoPath  string
	demoQuery string
	onChange  func(State)

	mu        sync.Mutex
	state     State
	cache     *lru.Cache[string, *types.Detail]
	detailGen uint64
}

// Option configures controller construction.
type Option func(*Controller)

// WithPageSize sets the number of items requested per page.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithDetailCacheSize caps the detail cache.
func WithDetailCacheSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.cacheSize = n
		}
	}
}

// WithDemoRequest sets the path and raw query used by RunProtectedDemo.
func WithDemoRequest(path, query string) Option {
	return func(c *Controller) {
		if strings.TrimSpace(path) != "" {
			c.demoPath = path
		}
		c.demoQuery = query
	}
}

// WithOnChange registers a hook called with a snapshot after every commit.
// It runs outside the controller lock and may be called from any goroutine.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a controller over fetcher.
func NewController(fetcher Fetcher, opts ...Option) (*Controller, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("catalog: fetcher is required")
	}

	c := &Controller{
		fetcher:   fetcher,
		logger:    zerolog.Nop(),
		pageSize:  DefaultPageSize,
		cacheSize: DefaultDetailCacheSize,
		demoPath:  DefaultDemoPath,
	}
	for _, opt := range opts {
		opt(c)
	}

	cache, err := lru.New[string, *types.Detail](c.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating detail cache: %w", err)
	}
	c.cache = cache
	c.state = NewState(c.pageSize)
	return c, nil
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Visible returns the currently visible items.
func (c *Controller) Visible() []Item {
	return Visible(c.State())
}

// ToggleSort switches to mode with ascending order, or flips the direction
// when mode is already active.
func (c *Controller) ToggleSort(mode SortMode) {
	c.apply(func(s State) State { return toggleSort(s, mode) })
}

// SetSearch sets the search query.
func (c *Controller) SetSearch(query string) {
	c.apply(func(s State) State { return setSearch(s, query) })
}

// LoadMore fetches the next page and appends it. It reports false without
// doing anything when a page load is already in flight.
func (c *Controller) LoadMore(ctx context.Context) bool {
	c.mu.Lock()
	if c.state.ListLoading {
		c.mu.Unlock()
		return false
	}
	limit, offset := c.state.Limit, c.state.Offset
	snapshot := c.commitLocked(beginPage)
	c.mu.Unlock()
	c.notify(snapshot)

	page, err := c.fetcher.FetchList(ctx, limit, offset)
	if err != nil {
		c.logger.Warn().Err(err).Int("offset", offset).Msg("loading page failed")
		c.apply(func(s State) State { return failPage(s, msgListFailed) })
		return true
	}

	c.logger.Debug().Int("offset", offset).Int("count", len(page.Results)).Msg("page loaded")
	c.apply(func(s State) State { return appendPage(s, page.Results) })
	return true
}

// Select marks url selected and loads its detail, from the cache when
// present. Only the most recent selection's result lands in state; earlier
// results are still memoized.
func (c *Controller) Select(ctx context.Context, url string) {
	c.mu.Lock()
	c.detailGen++
	gen := c.detailGen

	if detail, ok := c.cache.Get(url); ok {
		snapshot := c.commitLocked(func(s State) State { return selectCached(s, url, detail) })
		c.mu.Unlock()
		c.notify(snapshot)
		return
	}

	snapshot := c.commitLocked(func(s State) State { return beginDetail(s, url) })
	c.mu.Unlock()
	c.notify(snapshot)

	detail, err := c.fetcher.FetchDetails(ctx, url)

	c.mu.Lock()
	if err == nil {
		c.cache.Add(url, detail)
	}
	if gen != c.detailGen {
		c.mu.Unlock()
		c.logger.Debug().Str("url", url).Msg("discarding superseded detail result")
		return
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("url", url).Msg("loading details failed")
		snapshot = c.commitLocked(func(s State) State { return failDetail(s, msgDetailsFailed) })
	} else {
		snapshot = c.commitLocked(func(s State) State { return finishDetail(s, detail) })
	}
	c.mu.Unlock()
	c.notify(snapshot)
}

// RunProtectedDemo fetches the configured protected resource through the
// proxy. It reports false without doing anything when a demo call is
// already in flight.
func (c *Controller) RunProtectedDemo(ctx context.Context) bool {
	c.mu.Lock()
	if c.state.DemoLoading {
		c.mu.Unlock()
		return false
	}
	snapshot := c.commitLocked(beginDemo)
	c.mu.Unlock()
	c.notify(snapshot)

	result, err := c.fetcher.FetchProtectedResource(ctx, c.demoPath, c.demoQuery)
	if err != nil {
		message, details := describeDemoError(err)
		c.logger.Warn().Err(err).Str("path", c.demoPath).Msg("protected demo failed")
		c.apply(func(s State) State { return failDemo(s, message, details) })
		return true
	}

	c.apply(func(s State) State { return finishDemo(s, result) })
	return true
}

// CachedDetails reports how many detail documents are memoized.
func (c *Controller) CachedDetails() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

func describeDemoError(err error) (string, any) {
	var de detailedError
	if !errors.As(err, &de) {
		return msgDemoFailed, nil
	}
	message := strings.TrimSpace(de.Error())
	if message == "" {
		message = msgDemoFailed
	}
	return message, de.Details()
}

func (c *Controller) apply(reduce func(State) State) {
	c.mu.Lock()
	snapshot := c.commitLocked(reduce)
	c.mu.Unlock()
	c.notify(snapshot)
}

// commitLocked must be called with c.mu held.
func (c *Controller) commitLocked(reduce func(State) State) State {
	c.state = reduce(c.state)
	return c.state
}

func (c *Controller) notify(s State) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
