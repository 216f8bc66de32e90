package listing

import (
	"context"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/goliatone/go-listing-cache/cache"
	"github.com/goliatone/go-listing-cache/fetch"
	"github.com/goliatone/go-listing-cache/invalidation"
	"github.com/goliatone/go-listing-cache/querykey"
	"github.com/goliatone/go-listing-cache/tablestate"
)

// Fetcher resolves a query key into a validated page. fetch.Adapter
// implements it; tests substitute fakes.
type Fetcher[T any] interface {
	Fetch(ctx context.Context, key querykey.QueryKey) (fetch.Page[T], error)
}

// Controller is one mounted listing surface: it composes the table-state
// units with a fetch adapter and the shared cache, recomputes the query key
// on every state change, and publishes snapshots to its consumers.
//
// Responses are applied by key identity, never by arrival order: a fetch
// that resolves after the active key moved on is discarded, and nothing is
// applied after Close.
type Controller[T any] struct {
	kind    string
	fetcher Fetcher[T]
	cache   cache.CacheService
	logger  log.Interface
	parent  *querykey.ParentRef

	pagination *tablestate.Pagination
	sorting    *tablestate.Sorting
	primary    *tablestate.PrimaryFilter
	filters    *tablestate.Filters
	visibility *tablestate.Visibility
	selection  *tablestate.Selection

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	state       State
	page        fetch.Page[T]
	err         error
	activeKey   querykey.QueryKey
	inflight    string
	fetchCancel context.CancelFunc
	refreshing  bool
	closed      bool
	subscribers map[int]func(Snapshot[T])
	nextSub     int
	unregister  func()
}

// Option configures a Controller.
type Option[T any] func(*controllerConfig)

type controllerConfig struct {
	logger      log.Interface
	prefs       tablestate.PreferenceStore
	invalidator *invalidation.Invalidator
	debounce    time.Duration
	parent      *querykey.ParentRef
}

// WithLogger sets the controller's logger.
func WithLogger[T any](logger log.Interface) Option[T] {
	return func(c *controllerConfig) {
		c.logger = logger
	}
}

// WithPreferences wires the durable preference store the pagination unit
// persists page sizes to.
func WithPreferences[T any](prefs tablestate.PreferenceStore) Option[T] {
	return func(c *controllerConfig) {
		c.prefs = prefs
	}
}

// WithInvalidator registers the controller as an observer so mutations
// elsewhere in the process trigger its background refetch.
func WithInvalidator[T any](inv *invalidation.Invalidator) Option[T] {
	return func(c *controllerConfig) {
		c.invalidator = inv
	}
}

// WithDebounce overrides the primary filter's debounce window.
func WithDebounce[T any](window time.Duration) Option[T] {
	return func(c *controllerConfig) {
		c.debounce = window
	}
}

func withParent[T any](parent querykey.ParentRef) Option[T] {
	return func(c *controllerConfig) {
		c.parent = &parent
	}
}

// NewController mounts a listing controller for an entity kind. It issues
// the initial fetch before returning; consumers observe progress through
// Subscribe or Snapshot.
func NewController[T any](kind string, fetcher Fetcher[T], cacheService cache.CacheService, opts ...Option[T]) (*Controller[T], error) {
	cfg := controllerConfig{logger: log.Log}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller[T]{
		kind:        kind,
		fetcher:     fetcher,
		cache:       cacheService,
		logger:      cfg.logger,
		parent:      cfg.parent,
		ctx:         ctx,
		cancel:      cancel,
		state:       StateLoading,
		subscribers: make(map[int]func(Snapshot[T])),
	}

	c.pagination = tablestate.NewPagination(kind, cfg.prefs)
	c.sorting = tablestate.NewSorting()
	var filterOpts []tablestate.FilterOption
	if cfg.debounce > 0 {
		filterOpts = append(filterOpts, tablestate.WithDebounce(cfg.debounce))
	}
	c.primary = tablestate.NewPrimaryFilter(filterOpts...)
	c.filters = tablestate.NewFilters()
	c.visibility = tablestate.NewVisibility()
	c.selection = tablestate.NewSelection()

	// Validate that the mounted state composes into a legal key before any
	// callback can fire; a failure here is a wiring bug.
	if _, err := c.buildKey(); err != nil {
		cancel()
		return nil, err
	}

	c.pagination.OnChange(func() { c.recompute(false) })
	c.sorting.OnChange(func() { c.recompute(false) })
	// Filter changes move the cursor back to the first page: the filtered
	// result set has its own pagination.
	c.primary.OnChange(func() { c.recompute(true) })
	c.filters.OnChange(func() { c.recompute(true) })

	if cfg.invalidator != nil {
		c.unregister = cfg.invalidator.Register(c)
	}

	c.recompute(false)
	return c, nil
}

// Kind returns the entity kind this controller lists.
func (c *Controller[T]) Kind() string {
	return c.kind
}

// Pagination returns the pagination state unit.
func (c *Controller[T]) Pagination() *tablestate.Pagination {
	return c.pagination
}

// Sorting returns the sorting state unit.
func (c *Controller[T]) Sorting() *tablestate.Sorting {
	return c.sorting
}

// PrimaryFilter returns the debounced free-text filter.
func (c *Controller[T]) PrimaryFilter() *tablestate.PrimaryFilter {
	return c.primary
}

// Filters returns the secondary column filters.
func (c *Controller[T]) Filters() *tablestate.Filters {
	return c.filters
}

// Visibility returns the column visibility state. It never affects the key.
func (c *Controller[T]) Visibility() *tablestate.Visibility {
	return c.visibility
}

// Selection returns the row selection state. It never affects the key.
func (c *Controller[T]) Selection() *tablestate.Selection {
	return c.selection
}

// ActiveKey implements invalidation.Observer.
func (c *Controller[T]) ActiveKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ""
	}
	return c.activeKey.String()
}

// Snapshot returns the current read-only view.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers a consumer callback, delivers the current snapshot to
// it immediately, and returns the function that removes it.
func (c *Controller[T]) Subscribe(fn func(Snapshot[T])) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	snap := c.snapshotLocked()
	c.mu.Unlock()

	fn(snap)
	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

// Refetch re-issues the active key. It backs the user-facing retry action
// and the invalidation observer; when data is already rendered the refetch
// runs in the background and the UI is never blanked. A refetch for a key
// already in flight is a no-op, which keeps duplicate invalidations from
// stacking requests.
func (c *Controller[T]) Refetch() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	key := c.activeKey
	ks := key.String()
	if c.inflight == ks {
		c.mu.Unlock()
		return
	}
	if c.state == StateReady || c.state == StateEmpty {
		c.refreshing = true
	} else {
		c.state = StateLoading
	}
	// The cached entry for this key was either evicted or proven wrong;
	// drop it so GetOrFetch goes to the backend.
	_ = c.cache.Delete(c.ctx, ks)
	c.startFetchLocked(key)
	c.mu.Unlock()
	c.publish()
}

// Close unmounts the controller: pending commits are cancelled, in-flight
// responses are discarded, and the invalidation registration is removed.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.subscribers = make(map[int]func(Snapshot[T]))
	c.mu.Unlock()

	c.primary.Stop()
	if c.unregister != nil {
		c.unregister()
	}
	c.cancel()
}

func (c *Controller[T]) buildKey() (querykey.QueryKey, error) {
	page := querykey.Pagination{
		Page: c.pagination.PageIndex() + 1,
		Size: c.pagination.PageSize(),
	}
	if c.parent != nil {
		return querykey.BuildNested(*c.parent, c.kind, page, c.primary.Value(), c.sorting.Primary(), c.filters.Values())
	}
	return querykey.Build(c.kind, page, c.primary.Value(), c.sorting.Primary(), c.filters.Values())
}

// recompute reassembles the key from the state units and drives the state
// machine: a fresh cache entry for the new key renders immediately, a miss
// transitions to Loading and starts a fetch.
func (c *Controller[T]) recompute(resetPage bool) {
	if resetPage {
		// Re-enters recompute through the pagination callback when the
		// index actually moves; the second pass is coalesced by the
		// key-equality check below.
		c.pagination.ResetPageIndex()
	}

	key, err := c.buildKey()
	if err != nil {
		// Only reachable through a caller bug; the state units reject the
		// inputs that could produce one.
		c.logger.WithError(err).Error("query key construction failed")
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	ks := key.String()
	if ks == c.activeKey.String() && c.state != StateLoading {
		c.mu.Unlock()
		return
	}
	c.activeKey = key

	if cached, ok := cache.Peek[fetch.Page[T]](c.ctx, c.cache, ks); ok {
		c.page = cached
		c.err = nil
		c.refreshing = false
		if len(cached.Entities) == 0 {
			c.state = StateEmpty
		} else {
			c.state = StateReady
		}
		c.mu.Unlock()
		c.publish()
		return
	}

	c.state = StateLoading
	c.page = fetch.Page[T]{}
	c.err = nil
	c.refreshing = false
	c.startFetchLocked(key)
	c.mu.Unlock()
	c.publish()
}

// startFetchLocked launches the asynchronous resolve for key. Callers hold c.mu.
func (c *Controller[T]) startFetchLocked(key querykey.QueryKey) {
	ks := key.String()
	if c.inflight == ks {
		return
	}
	if c.fetchCancel != nil {
		c.fetchCancel()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.fetchCancel = cancel
	c.inflight = ks

	go func() {
		page, err := cache.GetOrFetch(ctx, c.cache, ks, func(ctx context.Context) (fetch.Page[T], error) {
			return c.fetcher.Fetch(ctx, key)
		})
		c.apply(ks, page, err)
	}()
}

// apply installs a resolved fetch, but only if ks is still the active key
// of a live controller. Anything else is a stale response and is dropped.
func (c *Controller[T]) apply(ks string, page fetch.Page[T], err error) {
	c.mu.Lock()
	if c.closed || ks != c.activeKey.String() {
		if c.inflight == ks {
			c.inflight = ""
		}
		c.mu.Unlock()
		c.logger.WithFields(log.Fields{
			"kind": c.kind,
			"key":  ks,
		}).Debug("stale response discarded")
		return
	}

	c.inflight = ""
	c.refreshing = false
	if err != nil {
		c.err = err
		c.state = StateError
	} else {
		c.page = page
		c.err = nil
		if len(page.Entities) == 0 {
			c.state = StateEmpty
		} else {
			c.state = StateReady
		}
	}
	c.mu.Unlock()
	c.publish()
}

func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Kind:          c.kind,
		Key:           c.activeKey.String(),
		State:         c.state,
		Entities:      c.page.Entities,
		PageCount:     c.page.PageCount,
		PageIndex:     c.pagination.PageIndex(),
		PageSize:      c.pagination.PageSize(),
		Sort:          c.sorting.Primary(),
		PrimaryFilter: c.primary.Value(),
		Filters:       c.filters.Values(),
		IsLoading:     c.state == StateLoading,
		IsRefreshing:  c.refreshing,
		IsError:       c.state == StateError,
		Err:           c.err,
	}
}

func (c *Controller[T]) publish() {
	c.mu.Lock()
	snap := c.snapshotLocked()
	subs := make([]func(Snapshot[T]), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
