package fetch

import (
	"context"
	"strings"

	errors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// Lister is the read side of a go-repository-bun repository needed to page
// through records.
type Lister[T any] interface {
	List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, int, error)
}

// KeyCriteria turns a list key into the select criteria that filter it.
type KeyCriteria func(key string) []repository.SelectCriteria

// RepositoryFetcher pages through a repository, one List call per page.
type RepositoryFetcher[T any] struct {
	repo     Lister[T]
	criteria KeyCriteria
}

// NewRepositoryFetcher creates a fetcher over repo. A nil criteria lists
// every record regardless of key.
func NewRepositoryFetcher[T any](repo Lister[T], criteria KeyCriteria) *RepositoryFetcher[T] {
	return &RepositoryFetcher[T]{repo: repo, criteria: criteria}
}

// Func returns the fetcher as a Func.
func (f *RepositoryFetcher[T]) Func() Func[T] {
	return f.Fetch
}

// Fetch lists the records of one page.
func (f *RepositoryFetcher[T]) Fetch(ctx context.Context, key string, page, size int) ([]T, error) {
	if err := ValidatePage(page, size); err != nil {
		return nil, err
	}

	var criteria []repository.SelectCriteria
	if f.criteria != nil {
		criteria = append(criteria, f.criteria(key)...)
	}
	criteria = append(criteria, Paginate(page, size))

	records, _, err := f.repo.List(ctx, criteria...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryExternal, "listing records").
			WithMetadata(map[string]any{"key": key, "page": page})
	}
	if records == nil {
		return []T{}, nil
	}
	return records, nil
}

// Paginate limits a select to one page.
func Paginate(page, size int) repository.SelectCriteria {
	limit, offset := Window(page, size)
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Limit(limit).Offset(offset)
	}
}

// WhereEquals filters on column = key, the usual category filter.
func WhereEquals(column string) KeyCriteria {
	return func(key string) []repository.SelectCriteria {
		return []repository.SelectCriteria{
			func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Where("? = ?", bun.Ident(column), key)
			},
		}
	}
}

// LikeEscape is the escape character used in LIKE patterns built by
// LikePattern.
const LikeEscape = "!"

var likeEscaper = strings.NewReplacer(
	LikeEscape, LikeEscape+LikeEscape,
	"%", LikeEscape+"%",
	"_", LikeEscape+"_",
)

// LikePattern returns a LIKE pattern matching key as a literal substring.
// Use it with ESCAPE '!'.
func LikePattern(key string) string {
	return "%" + likeEscaper.Replace(key) + "%"
}

// WhereContains matches key as a substring of any of columns, the usual
// keyword search. Wildcards in key match literally.
func WhereContains(columns ...string) KeyCriteria {
	return func(key string) []repository.SelectCriteria {
		pattern := LikePattern(key)
		return []repository.SelectCriteria{
			func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
					for _, col := range columns {
						q = q.WhereOr("? LIKE ? ESCAPE '"+LikeEscape+"'", bun.Ident(col), pattern)
					}
					return q
				})
			},
		}
	}
}
