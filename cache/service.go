package cache

import (
	"context"
	"fmt"

	errors "github.com/goliatone/go-errors"
)

// FetchFn loads a record from the source of truth on a cache miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService is the untyped TTL store EntityCache is built on. Alternate
// backends can be plugged in through NewEntityCacheWithService.
type CacheService interface {
	GetOrFetch(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error)
	Get(ctx context.Context, key string) (any, bool)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Keys(ctx context.Context) []string
}

// GetOrFetch reads key from service through fetchFn and asserts the stored
// value back to T.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	var zero T
	if fetchFn == nil {
		return zero, errors.New("fetch function is nil", errors.CategoryBadInput).
			WithTextCode("FETCH_FN_MISSING")
	}
	result, err := service.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		v, err := fetchFn(ctx)
		return v, err
	})
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	value, ok := result.(T)
	if !ok {
		return zero, errors.New(
			fmt.Sprintf("cached value for %q has type %T, want %T", key, result, zero),
			errors.CategoryInternal,
		).WithTextCode("CACHE_TYPE_MISMATCH")
	}
	return value, nil
}
