package pagination

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	errors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-pagecache/cache"
	"github.com/goliatone/go-pagecache/counter"
	"github.com/goliatone/go-pagecache/fetch"
)

// Mode selects the fetcher and the cache namespace used for a key.
type Mode int

const (
	ModeCategory Mode = iota
	ModeSearch
)

func (m Mode) String() string {
	switch m {
	case ModeCategory:
		return "category"
	case ModeSearch:
		return "search"
	default:
		return "unknown"
	}
}

var (
	// ErrEmptyKey is returned when a page is requested without a key.
	ErrEmptyKey = errors.New("list key is empty", errors.CategoryBadInput).WithTextCode("EMPTY_KEY")
	// ErrFetcherMissing is returned when the active mode has no fetcher.
	ErrFetcherMissing = errors.New("no fetcher configured for list mode", errors.CategoryBadInput).WithTextCode("FETCHER_MISSING")
	// ErrStale is returned by LoadFirstPage when the view switched keys
	// while the first page was being fetched.
	ErrStale = errors.New("list response superseded by a newer query", errors.CategoryConflict).WithTextCode("STALE_RESPONSE")
)

// Fetchers holds the fetch collaborator used for each mode.
type Fetchers[T any] struct {
	Category fetch.Func[T]
	Search   fetch.Func[T]
}

func (f Fetchers[T]) forMode(m Mode) fetch.Func[T] {
	switch m {
	case ModeCategory:
		return f.Category
	case ModeSearch:
		return f.Search
	default:
		return nil
	}
}

// State is a snapshot of a controller's pagination state.
type State struct {
	Key     string `json:"key"`
	Mode    Mode   `json:"mode"`
	Page    int    `json:"page"`
	HasMore bool   `json:"has_more"`
	Loading bool   `json:"loading"`
}

// LoadResult reports the outcome of LoadMore. Success is false for no-op
// calls, failed fetches and stale responses.
type LoadResult[T any] struct {
	Success bool
	HasMore bool
	Items   []T
	Stale   bool
}

// Option customizes a Controller.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	counters *counter.Map
	keys     cache.KeySerializer
	pageSize int
	expiry   time.Duration
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCounters shares a counter map with other controllers of the same item type.
func WithCounters(counters *counter.Map) Option {
	return func(o *options) {
		if counters != nil {
			o.counters = counters
		}
	}
}

// WithKeySerializer overrides how mode and key are combined into cache keys.
func WithKeySerializer(keys cache.KeySerializer) Option {
	return func(o *options) {
		if keys != nil {
			o.keys = keys
		}
	}
}

// WithPageSize sets the page size requested from fetchers.
func WithPageSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.pageSize = size
		}
	}
}

// WithExpiry treats cached first pages older than d as misses.
func WithExpiry(d time.Duration) Option {
	return func(o *options) {
		o.expiry = d
	}
}

// Controller owns the pagination state of one list view.
type Controller[T cache.Item] struct {
	mu sync.Mutex

	id       string
	store    *cache.ListCache[T]
	fetchers Fetchers[T]
	counters *counter.Map
	keys     cache.KeySerializer
	pageSize int
	expiry   time.Duration
	logger   *slog.Logger

	key     string
	mode    Mode
	page    int
	hasMore bool
	loading bool
	items   []T
	// gen changes whenever the live query is superseded; fetches compare it
	// on completion to detect stale responses.
	gen uint64
}

// New creates a controller reading and writing store.
func New[T cache.Item](store *cache.ListCache[T], fetchers Fetchers[T], opts ...Option) *Controller[T] {
	o := options{
		logger:   slog.Default(),
		keys:     cache.NewDefaultKeySerializer(),
		pageSize: cache.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.counters == nil {
		o.counters = counter.New()
	}

	id := uuid.NewString()
	c := &Controller[T]{
		id:       id,
		store:    store,
		fetchers: fetchers,
		counters: o.counters,
		keys:     o.keys,
		pageSize: o.pageSize,
		expiry:   o.expiry,
		logger:   o.logger.With(slog.String("controller", id)),
	}
	c.resetLocked()
	return c
}

// ID returns the controller instance id used in log records.
func (c *Controller[T]) ID() string {
	return c.id
}

// PageSize returns the page size requested from fetchers.
func (c *Controller[T]) PageSize() int {
	return c.pageSize
}

// Counters returns the counter map refreshed by this controller.
func (c *Controller[T]) Counters() *counter.Map {
	return c.counters
}

// CacheKey returns the cache key used for key in mode.
func (c *Controller[T]) CacheKey(mode Mode, key string) string {
	return c.keys.SerializeKey(mode.String(), key)
}

// State returns a snapshot of the pagination state.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Key:     c.key,
		Mode:    c.mode,
		Page:    c.page,
		HasMore: c.hasMore,
		Loading: c.loading,
	}
}

// Items returns a copy of the live list.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// SetKey switches the view to key in mode. Switching to a different key or
// mode resets pagination first; setting the current key again is a no-op.
func (c *Controller[T]) SetKey(key string, mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setKeyLocked(key, mode)
}

func (c *Controller[T]) setKeyLocked(key string, mode Mode) {
	if key == c.key && mode == c.mode {
		return
	}
	c.resetLocked()
	c.key = key
	c.mode = mode
}

// Reset returns the view to its initial state. Cached entries are kept.
func (c *Controller[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller[T]) resetLocked() {
	c.gen++
	c.key = ""
	c.mode = ModeCategory
	c.page = 1
	c.hasMore = true
	c.loading = false
	c.items = nil
}

// LoadFirstPage shows the first page of key in the current mode. A usable
// cache entry is served without a fetch and restores the cached cursor;
// otherwise page 1 is fetched and cached. Fetch errors are returned as is
// and leave no cache entry. A response superseded by a newer query only
// fills the cache when key has no usable entry yet, and returns ErrStale.
func (c *Controller[T]) LoadFirstPage(ctx context.Context, key string) ([]T, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	c.mu.Lock()
	c.setKeyLocked(key, c.mode)
	mode := c.mode
	cacheKey := c.CacheKey(mode, key)
	c.gen++
	gen := c.gen
	log := c.logger.With(slog.String("mode", mode.String()), slog.String("key", key))

	if items, entry, ok := c.lookupLocked(cacheKey); ok {
		c.items = slices.Clone(items)
		c.page = max(entry.CurrentPage, 1)
		c.hasMore = entry.HasMore
		c.loading = false
		c.mu.Unlock()

		c.track(items)
		log.DebugContext(ctx, "first page served from cache",
			slog.Int("items", len(items)),
			slog.Int("page", entry.CurrentPage),
			slog.Bool("has_more", entry.HasMore),
		)
		return items, nil
	}

	fetchFn := c.fetchers.forMode(mode)
	if fetchFn == nil {
		c.mu.Unlock()
		return nil, ErrFetcherMissing
	}

	c.loading = true
	c.mu.Unlock()

	log.DebugContext(ctx, "first page cache miss")
	items, err := fetchFn(ctx, key, 1, c.pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()
	current := gen == c.gen

	if err != nil {
		if current {
			c.loading = false
		}
		c.logFetchError(ctx, log, err, 1)
		return nil, err
	}

	hasMore := len(items) >= c.pageSize

	if !current {
		warmed := c.store.SetIfAbsent(cacheKey, items, hasMore, 1)
		log.DebugContext(ctx, "discarding stale first page",
			slog.Int("items", len(items)),
			slog.Bool("cached", warmed),
		)
		return nil, ErrStale
	}

	c.store.Set(cacheKey, items, hasMore, 1)
	c.items = slices.Clone(items)
	c.page = 1
	c.hasMore = hasMore
	c.loading = false
	c.track(items)
	return slices.Clone(items), nil
}

func (c *Controller[T]) lookupLocked(cacheKey string) ([]T, cache.Entry, bool) {
	items, entry, ok := c.store.Lookup(cacheKey)
	if !ok {
		return nil, cache.Entry{}, false
	}
	if c.expiry > 0 && c.store.IsExpired(cacheKey, c.expiry) {
		return nil, cache.Entry{}, false
	}
	return items, entry, true
}

// LoadMore fetches the page after the current one and appends it to the
// live list. Calls while loading, after the last page or without a key are
// no-ops returning Success false and no error. On fetch failure the page
// cursor is kept so the call can be retried.
func (c *Controller[T]) LoadMore(ctx context.Context) (LoadResult[T], error) {
	c.mu.Lock()
	if c.loading || !c.hasMore || c.key == "" {
		res := LoadResult[T]{Success: false, HasMore: c.hasMore}
		c.mu.Unlock()
		return res, nil
	}

	fetchFn := c.fetchers.forMode(c.mode)
	if fetchFn == nil {
		res := LoadResult[T]{Success: false, HasMore: c.hasMore}
		c.mu.Unlock()
		return res, ErrFetcherMissing
	}

	key, mode, gen := c.key, c.mode, c.gen
	nextPage := c.page + 1
	cacheKey := c.CacheKey(mode, key)
	c.loading = true
	c.mu.Unlock()

	log := c.logger.With(slog.String("mode", mode.String()), slog.String("key", key))
	items, err := fetchFn(ctx, key, nextPage, c.pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		log.DebugContext(ctx, "discarding stale page", slog.Int("page", nextPage))
		return LoadResult[T]{Success: false, HasMore: c.hasMore, Stale: true}, nil
	}

	c.loading = false
	if err != nil {
		c.logFetchError(ctx, log, err, nextPage)
		return LoadResult[T]{Success: false, HasMore: false}, err
	}

	if len(items) < c.pageSize {
		c.hasMore = false
		c.store.UpdateHasMore(cacheKey, false)
	}
	c.page = nextPage
	c.store.UpdateCurrentPage(cacheKey, nextPage)
	c.items = append(c.items, items...)
	c.track(items)

	log.DebugContext(ctx, "page loaded",
		slog.Int("page", nextPage),
		slog.Int("items", len(items)),
		slog.Bool("has_more", c.hasMore),
	)
	return LoadResult[T]{Success: true, HasMore: c.hasMore, Items: slices.Clone(items)}, nil
}

// Refresh drops the cached first page of the current key and loads it again.
func (c *Controller[T]) Refresh(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	key, mode := c.key, c.mode
	c.mu.Unlock()

	if key == "" {
		return nil, ErrEmptyKey
	}
	c.store.Clear(c.CacheKey(mode, key))
	return c.LoadFirstPage(ctx, key)
}

// DeleteItem removes id from the live list and from the counter map. The
// cache entry of the current key keeps the item until that key is fetched
// again. It reports whether the item was in the live list.
func (c *Controller[T]) DeleteItem(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counters.Remove(id)
	idx := slices.IndexFunc(c.items, func(item T) bool {
		return item.ItemID() == id
	})
	if idx < 0 {
		return false
	}
	c.items = slices.Delete(c.items, idx, idx+1)
	return true
}

func (c *Controller[T]) track(items []T) {
	for _, item := range items {
		if counted, ok := any(item).(counter.Item); ok {
			c.counters.Upsert(counted)
		}
	}
}

func (c *Controller[T]) logFetchError(ctx context.Context, log *slog.Logger, err error, page int) {
	attrs := []slog.Attr{
		slog.Int("page", page),
		slog.String("error", err.Error()),
	}
	attrs = append(attrs, errors.ToSlogAttributes(err)...)
	log.LogAttrs(ctx, slog.LevelWarn, "page fetch failed", attrs...)
}
