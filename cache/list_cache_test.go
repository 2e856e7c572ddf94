package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type testItem struct {
	ID string
}

func (i testItem) ItemID() string { return i.ID }

func makeItems(n int) []testItem {
	items := make([]testItem, n)
	for i := range items {
		items[i] = testItem{ID: fmt.Sprint(i + 1)}
	}
	return items
}

func TestNewListCache_Defaults(t *testing.T) {
	c := NewListCache[testItem](Config{})
	if c.Capacity() != DefaultCapacity {
		t.Errorf("expected capacity %d, got %d", DefaultCapacity, c.Capacity())
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}

func TestListCache_CapAtCapacity(t *testing.T) {
	c := NewListCache[testItem](DefaultConfig())
	c.Set("Tech", makeItems(50), true, 1)

	got := c.Get("Tech")
	if len(got) != 40 {
		t.Fatalf("expected 40 items, got %d", len(got))
	}
	for i, item := range got {
		if item.ID != fmt.Sprint(i+1) {
			t.Fatalf("expected original order, item %d is %s", i, item.ID)
		}
	}
	if got[39].ID != "40" {
		t.Errorf("expected items[39] to be 40, got %s", got[39].ID)
	}
}

func TestListCache_MissThenHit(t *testing.T) {
	c := NewListCache[testItem](DefaultConfig())

	if c.Has("k") {
		t.Error("expected miss before Set")
	}
	if got := c.Get("k"); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice on miss, got %#v", got)
	}

	c.Set("k", makeItems(2), false, 1)
	if !c.Has("k") {
		t.Error("expected hit after Set")
	}

	c.Clear("k")
	if c.Has("k") {
		t.Error("expected miss after Clear")
	}
	if _, ok := c.Entry("k"); ok {
		t.Error("expected no entry after Clear")
	}
}

func TestListCache_EmptyFirstPageIsNotCached(t *testing.T) {
	c := NewListCache[testItem](DefaultConfig())
	c.Set("empty", nil, true, 1)

	if c.Has("empty") {
		t.Error("expected empty entry not to count as cached")
	}
	if c.Len() != 1 {
		t.Errorf("expected the empty entry to be stored, got %d entries", c.Len())
	}
}

func TestListCache_GetReturnsCopies(t *testing.T) {
	c := NewListCache[testItem](DefaultConfig())
	source := makeItems(3)
	c.Set("k", source, true, 1)

	source[0].ID = "mutated"
	first := c.Get("k")
	first[1].ID = "mutated"
	second := c.Get("k")

	if second[0].ID != "1" || second[1].ID != "2" {
		t.Errorf("expected cache to be isolated from callers, got %+v", second)
	}
	if len(first) != len(second) {
		t.Errorf("expected idempotent reads, got %d and %d items", len(first), len(second))
	}
}

func TestListCache_UpdateMetadata(t *testing.T) {
	c := NewListCache[testItem](DefaultConfig())
	c.Set("k", makeItems(20), true, 1)

	c.UpdateHasMore("k", false)
	c.UpdateCurrentPage("k", 3)

	entry, ok := c.Entry("k")
	if !ok {
		t.Fatal("expected entry")
	}
	if entry.HasMore || entry.CurrentPage != 3 || entry.ItemCount != 20 {
		t.Errorf("unexpected entry %+v", entry)
	}

	c.UpdateHasMore("missing", false)
	c.UpdateCurrentPage("missing", 9)
	if _, ok := c.Entry("missing"); ok {
		t.Error("expected updates on missing keys to be ignored")
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
}

func TestListCache_SetReplacesEntry(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c := NewListCache[testItem](DefaultConfig(), WithClock[testItem](func() time.Time { return now }))

	c.Set("k", makeItems(20), true, 1)
	c.UpdateCurrentPage("k", 4)

	now = now.Add(time.Minute)
	c.Set("k", makeItems(5), false, 1)

	entry, _ := c.Entry("k")
	if entry.ItemCount != 5 || entry.HasMore || entry.CurrentPage != 1 {
		t.Errorf("expected a fresh entry, got %+v", entry)
	}
	if !entry.CreatedAt.Equal(now) {
		t.Errorf("expected CreatedAt %v, got %v", now, entry.CreatedAt)
	}
}

func TestListCache_SetIfAbsent(t *testing.T) {
	c := NewListCache[testItem](DefaultConfig())

	if !c.SetIfAbsent("k", makeItems(3), true, 1) {
		t.Fatal("expected write on a missing key")
	}
	c.UpdateCurrentPage("k", 2)
	c.UpdateHasMore("k", false)

	if c.SetIfAbsent("k", makeItems(20), true, 1) {
		t.Error("expected a usable entry to be kept")
	}
	entry, _ := c.Entry("k")
	if entry.ItemCount != 3 || entry.CurrentPage != 2 || entry.HasMore {
		t.Errorf("expected the original entry, got %+v", entry)
	}

	c.Set("empty", nil, false, 1)
	if !c.SetIfAbsent("empty", makeItems(2), false, 1) {
		t.Error("expected an empty entry to be replaced")
	}
	if !c.Has("empty") {
		t.Error("expected a usable entry after replacing the empty one")
	}
}

func TestListCache_Lookup(t *testing.T) {
	c := NewListCache[testItem](DefaultConfig())

	if items, _, ok := c.Lookup("missing"); ok || len(items) != 0 {
		t.Errorf("expected miss, got ok=%v items=%d", ok, len(items))
	}

	c.Set("k", makeItems(4), false, 3)
	items, entry, ok := c.Lookup("k")
	if !ok {
		t.Fatal("expected hit")
	}
	if len(items) != 4 || entry.ItemCount != 4 || entry.CurrentPage != 3 || entry.HasMore {
		t.Errorf("unexpected lookup %d items, entry %+v", len(items), entry)
	}

	items[0] = testItem{ID: "mutated"}
	if c.Get("k")[0].ID == "mutated" {
		t.Error("expected Lookup to return a copy")
	}
}

func TestListCache_IsExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c := NewListCache[testItem](Config{MaxAge: 10 * time.Minute}, WithClock[testItem](func() time.Time { return now }))

	if !c.IsExpired("missing", time.Hour) {
		t.Error("expected a missing key to count as expired")
	}

	c.Set("k", makeItems(1), false, 1)

	tests := []struct {
		name    string
		advance time.Duration
		maxAge  time.Duration
		want    bool
	}{
		{name: "fresh", advance: 0, maxAge: time.Minute, want: false},
		{name: "exactly at max age", advance: time.Minute, maxAge: time.Minute, want: false},
		{name: "older than max age", advance: time.Minute + time.Second, maxAge: time.Minute, want: true},
		{name: "configured default", advance: 5 * time.Minute, maxAge: 0, want: false},
		{name: "configured default exceeded", advance: 11 * time.Minute, maxAge: 0, want: true},
	}

	start := now
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now = start.Add(tt.advance)
			if got := c.IsExpired("k", tt.maxAge); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListCache_ClearNamespace(t *testing.T) {
	c := NewListCache[testItem](DefaultConfig())
	keys := NewDefaultKeySerializer()

	c.Set(keys.SerializeKey("category", "Romance"), makeItems(1), false, 1)
	c.Set(keys.SerializeKey("category", "Tech"), makeItems(1), false, 1)
	c.Set(keys.SerializeKey("search", "Romance"), makeItems(1), false, 1)

	if removed := c.ClearNamespace(NamespacePrefix("category")); removed != 2 {
		t.Errorf("expected 2 removed entries, got %d", removed)
	}
	if c.Len() != 1 || !c.Has(keys.SerializeKey("search", "Romance")) {
		t.Error("expected only the search entry to remain")
	}

	c.ClearAll()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after ClearAll, got %d", c.Len())
	}
}

func TestListCache_Stats(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c := NewListCache[testItem](DefaultConfig(), WithClock[testItem](func() time.Time { return now }))

	c.Set("b", makeItems(3), true, 1)
	c.Set("a", makeItems(45), true, 1)

	stats := c.Stats()
	if stats.Count != 2 || len(stats.PerKey) != 2 {
		t.Fatalf("expected 2 keys, got %+v", stats)
	}
	if stats.PerKey[0].Key != "a" || stats.PerKey[0].ItemCount != 40 {
		t.Errorf("unexpected first key stats %+v", stats.PerKey[0])
	}

	// stats reflect updates made after the previous snapshot
	c.UpdateCurrentPage("b", 2)
	c.UpdateHasMore("b", false)
	stats = c.Stats()
	if b := stats.PerKey[1]; b.Key != "b" || b.CurrentPage != 2 || b.HasMore {
		t.Errorf("expected live stats for b, got %+v", b)
	}
	if !stats.PerKey[1].CreatedAt.Equal(now) {
		t.Errorf("expected CreatedAt %v, got %v", now, stats.PerKey[1].CreatedAt)
	}
}

func TestListCache_ConcurrentAccess(t *testing.T) {
	c := NewListCache[testItem](DefaultConfig())
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			c.Set(key, makeItems(i+1), true, 1)
			c.UpdateCurrentPage(key, i)
			_ = c.Get(key)
			_ = c.Stats()
		}(i)
	}
	wg.Wait()

	if c.Len() != 4 {
		t.Errorf("expected 4 keys, got %d", c.Len())
	}
}
