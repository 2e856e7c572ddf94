package cache

import (
	"slices"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// Entry is a read-only view of the pagination metadata stored for a key.
type Entry struct {
	ItemCount   int       `json:"item_count"`
	HasMore     bool      `json:"has_more"`
	CurrentPage int       `json:"current_page"`
	CreatedAt   time.Time `json:"created_at"`
}

// KeyStats describes one key in a Stats snapshot.
type KeyStats struct {
	Key string `json:"key"`
	Entry
}

// Stats is a diagnostic snapshot of a ListCache.
type Stats struct {
	Count  int        `json:"count"`
	PerKey []KeyStats `json:"per_key"`
}

// listEntry is never mutated after it is published to the map; updates
// replace it with a modified copy.
type listEntry[T any] struct {
	items       []T
	hasMore     bool
	currentPage int
	createdAt   time.Time
}

// ListCache remembers the head of a paginated result per key together with
// the pagination cursor reached for that key. It has no knowledge of the
// network; see the pagination package for the fetch loop built on top.
type ListCache[T any] struct {
	entries  *xsync.MapOf[string, *listEntry[T]]
	capacity int
	maxAge   time.Duration
	now      func() time.Time
}

// ListOption customizes a ListCache.
type ListOption[T any] func(*ListCache[T])

// WithClock overrides the time source used for CreatedAt stamps.
func WithClock[T any](now func() time.Time) ListOption[T] {
	return func(c *ListCache[T]) {
		if now != nil {
			c.now = now
		}
	}
}

// NewListCache creates an empty cache. Non-positive Capacity or MaxAge values
// fall back to the package defaults.
func NewListCache[T any](cfg Config, opts ...ListOption[T]) *ListCache[T] {
	c := &ListCache[T]{
		entries:  xsync.NewMapOf[string, *listEntry[T]](),
		capacity: cfg.Capacity,
		maxAge:   cfg.MaxAge,
		now:      time.Now,
	}
	if c.capacity <= 0 {
		c.capacity = DefaultCapacity
	}
	if c.maxAge <= 0 {
		c.maxAge = DefaultMaxAge
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Capacity returns the per key item cap.
func (c *ListCache[T]) Capacity() int {
	return c.capacity
}

// Has reports whether key holds a usable entry. Entries with no items do not
// count, so an empty first page is retried on the next visit.
func (c *ListCache[T]) Has(key string) bool {
	e, ok := c.entries.Load(key)
	return ok && len(e.items) > 0
}

// Get returns a copy of the items cached for key, or an empty slice.
func (c *ListCache[T]) Get(key string) []T {
	e, ok := c.entries.Load(key)
	if !ok || len(e.items) == 0 {
		return []T{}
	}
	return slices.Clone(e.items)
}

// Entry returns the pagination metadata for key.
func (c *ListCache[T]) Entry(key string) (Entry, bool) {
	e, ok := c.entries.Load(key)
	if !ok {
		return Entry{}, false
	}
	return e.view(), true
}

// Lookup returns a copy of the items and the metadata of a usable entry for
// key, both taken from the same entry.
func (c *ListCache[T]) Lookup(key string) ([]T, Entry, bool) {
	e, ok := c.entries.Load(key)
	if !ok || len(e.items) == 0 {
		return []T{}, Entry{}, false
	}
	return slices.Clone(e.items), e.view(), true
}

// Set replaces the entry for key. Only the first Capacity items are kept.
func (c *ListCache[T]) Set(key string, items []T, hasMore bool, page int) {
	c.entries.Store(key, c.newEntry(items, hasMore, page))
}

// SetIfAbsent stores the entry like Set unless key already holds a usable
// entry. It reports whether the entry was written.
func (c *ListCache[T]) SetIfAbsent(key string, items []T, hasMore bool, page int) bool {
	next := c.newEntry(items, hasMore, page)
	written := false
	c.entries.Compute(key, func(old *listEntry[T], loaded bool) (*listEntry[T], bool) {
		if loaded && len(old.items) > 0 {
			return old, false
		}
		written = true
		return next, false
	})
	return written
}

// UpdateHasMore sets the hasMore flag of an existing entry. Missing keys are
// left alone.
func (c *ListCache[T]) UpdateHasMore(key string, hasMore bool) {
	c.update(key, func(e *listEntry[T]) {
		e.hasMore = hasMore
	})
}

// UpdateCurrentPage sets the page cursor of an existing entry. Missing keys
// are left alone.
func (c *ListCache[T]) UpdateCurrentPage(key string, page int) {
	c.update(key, func(e *listEntry[T]) {
		e.currentPage = page
	})
}

func (c *ListCache[T]) newEntry(items []T, hasMore bool, page int) *listEntry[T] {
	head := items
	if len(head) > c.capacity {
		head = head[:c.capacity]
	}
	return &listEntry[T]{
		items:       slices.Clone(head),
		hasMore:     hasMore,
		currentPage: page,
		createdAt:   c.now(),
	}
}

func (c *ListCache[T]) update(key string, fn func(*listEntry[T])) {
	c.entries.Compute(key, func(old *listEntry[T], loaded bool) (*listEntry[T], bool) {
		if !loaded {
			return nil, true
		}
		next := *old
		fn(&next)
		return &next, false
	})
}

// Clear removes the entry for key.
func (c *ListCache[T]) Clear(key string) {
	c.entries.Delete(key)
}

// ClearNamespace removes every entry whose key starts with prefix.
func (c *ListCache[T]) ClearNamespace(prefix string) int {
	var removed int
	c.entries.Range(func(key string, _ *listEntry[T]) bool {
		if strings.HasPrefix(key, prefix) {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// ClearAll removes every entry.
func (c *ListCache[T]) ClearAll() {
	c.entries.Clear()
}

// Len returns the number of stored keys, including empty entries.
func (c *ListCache[T]) Len() int {
	return c.entries.Size()
}

// IsExpired reports whether key is missing or older than maxAge. A
// non-positive maxAge uses the configured MaxAge.
func (c *ListCache[T]) IsExpired(key string, maxAge time.Duration) bool {
	if maxAge <= 0 {
		maxAge = c.maxAge
	}
	e, ok := c.entries.Load(key)
	if !ok {
		return true
	}
	return c.now().Sub(e.createdAt) > maxAge
}

// Stats returns a snapshot of the live entries, sorted by key.
func (c *ListCache[T]) Stats() Stats {
	stats := Stats{PerKey: make([]KeyStats, 0, c.entries.Size())}
	c.entries.Range(func(key string, e *listEntry[T]) bool {
		stats.PerKey = append(stats.PerKey, KeyStats{Key: key, Entry: e.view()})
		return true
	})
	slices.SortFunc(stats.PerKey, func(a, b KeyStats) int {
		return strings.Compare(a.Key, b.Key)
	})
	stats.Count = len(stats.PerKey)
	return stats
}

func (e *listEntry[T]) view() Entry {
	return Entry{
		ItemCount:   len(e.items),
		HasMore:     e.hasMore,
		CurrentPage: e.currentPage,
		CreatedAt:   e.createdAt,
	}
}
