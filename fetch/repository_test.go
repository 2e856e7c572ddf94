package fetch

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	errors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type mockLister struct {
	mu       sync.Mutex
	calls    int
	criteria [][]repository.SelectCriteria
	records  []book
	err      error
}

func (m *mockLister) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]book, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.criteria = append(m.criteria, criteria)
	return m.records, len(m.records), m.err
}

func TestWindow(t *testing.T) {
	tests := []struct {
		page, size    int
		limit, offset int
	}{
		{page: 1, size: 20, limit: 20, offset: 0},
		{page: 2, size: 20, limit: 20, offset: 20},
		{page: 5, size: 7, limit: 7, offset: 28},
	}

	for _, tt := range tests {
		limit, offset := Window(tt.page, tt.size)
		if limit != tt.limit || offset != tt.offset {
			t.Errorf("Window(%d, %d) = (%d, %d), want (%d, %d)", tt.page, tt.size, limit, offset, tt.limit, tt.offset)
		}
	}
}

func TestRepositoryFetcher_Fetch(t *testing.T) {
	repo := &mockLister{records: []book{{BookID: "1"}, {BookID: "2"}}}
	f := NewRepositoryFetcher[book](repo, WhereEquals("category"))

	items, err := f.Func()(context.Background(), "Romance", 3, 20)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}

	if repo.calls != 1 {
		t.Fatalf("expected 1 List call, got %d", repo.calls)
	}
	if got := len(repo.criteria[0]); got != 2 {
		t.Fatalf("expected key criteria plus pagination, got %d criteria", got)
	}

	q := new(bun.SelectQuery)
	for _, c := range repo.criteria[0] {
		if q = c(q); q == nil {
			t.Fatal("criteria returned nil query")
		}
	}
}

func TestRepositoryFetcher_SearchCriteria(t *testing.T) {
	repo := &mockLister{}
	f := NewRepositoryFetcher[book](repo, WhereContains("title", "content"))

	items, err := f.Fetch(context.Background(), "golang", 1, 20)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", items)
	}

	q := new(bun.SelectQuery)
	for _, c := range repo.criteria[0] {
		q = c(q)
	}
	if q == nil {
		t.Fatal("criteria returned nil query")
	}
}

func TestLikePattern(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "golang", want: "%golang%"},
		{key: "50%", want: "%50!%%"},
		{key: "snake_case", want: "%snake!_case%"},
		{key: "wow!", want: "%wow!!%"},
		{key: "", want: "%%"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := LikePattern(tt.key); got != tt.want {
				t.Errorf("LikePattern(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestRepositoryFetcher_NilCriteriaOnlyPaginates(t *testing.T) {
	repo := &mockLister{}
	f := NewRepositoryFetcher[book](repo, nil)

	if _, err := f.Fetch(context.Background(), "ignored", 1, 10); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got := len(repo.criteria[0]); got != 1 {
		t.Errorf("expected only the pagination criteria, got %d", got)
	}
}

func TestRepositoryFetcher_Errors(t *testing.T) {
	dbErr := stderrors.New("connection reset")
	repo := &mockLister{err: dbErr}
	f := NewRepositoryFetcher[book](repo, nil)

	_, err := f.Fetch(context.Background(), "k", 1, 20)
	if !stderrors.Is(err, dbErr) {
		t.Errorf("expected wrapped repository error, got %v", err)
	}
	if !errors.IsCategory(err, errors.CategoryExternal) {
		t.Errorf("expected external category, got %v", err)
	}

	if _, err := f.Fetch(context.Background(), "k", 0, 20); !errors.IsCategory(err, errors.CategoryBadInput) {
		t.Errorf("expected bad input for page 0, got %v", err)
	}
	if repo.calls != 1 {
		t.Errorf("expected invalid page not to reach the repository, got %d calls", repo.calls)
	}
}
