package testsupport

import (
	"context"
	"sync"
)

// PageCall records one request served by a PagedSource.
type PageCall struct {
	Key  string
	Page int
	Size int
}

// PagedSource is an in-memory list backend. Fetch matches fetch.Func and
// serves pages out of the items registered per key.
type PagedSource[T any] struct {
	mu       sync.Mutex
	items    map[string][]T
	calls    []PageCall
	failNext error
	gate     chan struct{}
	started  chan struct{}
}

// NewPagedSource creates an empty source.
func NewPagedSource[T any]() *PagedSource[T] {
	return &PagedSource[T]{items: make(map[string][]T)}
}

// Add appends items to the list served for key.
func (s *PagedSource[T]) Add(key string, items ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append(s.items[key], items...)
}

// Replace swaps the list served for key.
func (s *PagedSource[T]) Replace(key string, items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append([]T(nil), items...)
}

// FailNext makes the next Fetch return err.
func (s *PagedSource[T]) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

// Hold blocks the next Fetch until release is called. started receives once
// the held call is in flight.
func (s *PagedSource[T]) Hold() (started <-chan struct{}, release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := make(chan struct{}, 1)
	gate := make(chan struct{})
	s.started = st
	s.gate = gate

	var once sync.Once
	return st, func() { once.Do(func() { close(gate) }) }
}

// Fetch returns the window of key's items for page and size.
func (s *PagedSource[T]) Fetch(ctx context.Context, key string, page, size int) ([]T, error) {
	s.mu.Lock()
	s.calls = append(s.calls, PageCall{Key: key, Page: page, Size: size})
	err := s.failNext
	s.failNext = nil
	gate, started := s.gate, s.started
	s.gate, s.started = nil, nil
	window := s.window(key, page, size)
	s.mu.Unlock()

	if gate != nil {
		started <- struct{}{}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}
	return window, nil
}

func (s *PagedSource[T]) window(key string, page, size int) []T {
	all := s.items[key]
	start := (page - 1) * size
	if page < 1 || size < 1 || start >= len(all) {
		return []T{}
	}
	end := min(start+size, len(all))
	return append([]T(nil), all[start:end]...)
}

// Calls returns the requests served so far.
func (s *PagedSource[T]) Calls() []PageCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PageCall(nil), s.calls...)
}

// CallCount returns the number of requests served so far.
func (s *PagedSource[T]) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
