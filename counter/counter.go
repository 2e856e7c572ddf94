// Package counter keeps per item engagement counters (likes, stars) next to
// paginated lists, so views can render and optimistically adjust them
// without touching the cached list entries.
package counter

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// Counters holds the engagement counters tracked for one item.
type Counters struct {
	Likes int `json:"like_count"`
	Stars int `json:"star_count"`
}

// Field selects a single counter.
type Field int

const (
	Likes Field = iota
	Stars
)

func (f Field) String() string {
	switch f {
	case Likes:
		return "likes"
	case Stars:
		return "stars"
	default:
		return "unknown"
	}
}

// Item is implemented by list records that carry counters.
type Item interface {
	ItemID() string
	ItemCounters() Counters
}

// Map stores the most recently seen counters per item id.
type Map struct {
	counters *xsync.MapOf[string, Counters]
}

// New creates an empty counter map.
func New() *Map {
	return &Map{counters: xsync.NewMapOf[string, Counters]()}
}

// Upsert overwrites the counters for item with the values it carries now.
func (m *Map) Upsert(item Item) {
	m.counters.Store(item.ItemID(), item.ItemCounters())
}

// Get returns the counters for id, or zero counters when id is unknown.
func (m *Map) Get(id string) Counters {
	c, _ := m.counters.Load(id)
	return c
}

// Bump adjusts one counter by delta, starting from zero for unknown ids.
// Counters never drop below zero, for known ids as well as unknown ones.
// It returns the updated counters.
func (m *Map) Bump(id string, field Field, delta int) Counters {
	next, _ := m.counters.Compute(id, func(old Counters, _ bool) (Counters, bool) {
		switch field {
		case Likes:
			old.Likes = max(old.Likes+delta, 0)
		case Stars:
			old.Stars = max(old.Stars+delta, 0)
		}
		return old, false
	})
	return next
}

// Remove drops the counters for id.
func (m *Map) Remove(id string) {
	m.counters.Delete(id)
}

// Len returns the number of tracked ids.
func (m *Map) Len() int {
	return m.counters.Size()
}
