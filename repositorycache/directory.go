package repositorycache

import (
	"context"

	errors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"

	"github.com/goliatone/go-pagecache/cache"
)

// Store is the part of a go-repository-bun repository a Directory uses.
type Store[T any] interface {
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (T, error)
	Update(ctx context.Context, record T, criteria ...repository.UpdateCriteria) (T, error)
	Delete(ctx context.Context, record T) error
}

// Directory is a read-through, write-through cache of single records.
type Directory[T cache.Item] struct {
	store   Store[T]
	records *cache.EntityCache[T]
}

// New creates a directory over store caching into records.
func New[T cache.Item](store Store[T], records *cache.EntityCache[T]) *Directory[T] {
	return &Directory[T]{store: store, records: records}
}

// Get returns the cached record for id, loading it from the store on a miss.
// Store errors are wrapped and never cached.
func (d *Directory[T]) Get(ctx context.Context, id string) (T, error) {
	return d.records.GetOrFetch(ctx, id, func(ctx context.Context) (T, error) {
		record, err := d.store.GetByID(ctx, id)
		if err != nil {
			var zero T
			return zero, errors.Wrap(err, errors.CategoryExternal, "loading record").
				WithMetadata(map[string]any{"id": id})
		}
		return record, nil
	})
}

// Update writes record to the store and caches the stored version. When the
// store rejects the write the cached copy is dropped, and a failure to drop
// it is joined to the returned error.
func (d *Directory[T]) Update(ctx context.Context, record T) (T, error) {
	updated, err := d.store.Update(ctx, record)
	if err != nil {
		// stored state is unknown after a failed update
		if delErr := d.records.Delete(ctx, record.ItemID()); delErr != nil {
			return updated, errors.Join(err, delErr)
		}
		return updated, err
	}
	if err := d.records.Set(ctx, updated.ItemID(), updated); err != nil {
		return updated, err
	}
	return updated, nil
}

// Delete removes record from the store and from the cache.
func (d *Directory[T]) Delete(ctx context.Context, record T) error {
	if err := d.store.Delete(ctx, record); err != nil {
		return err
	}
	return d.records.Delete(ctx, record.ItemID())
}

// Invalidate drops the cached copy of id so the next Get reloads it.
func (d *Directory[T]) Invalidate(ctx context.Context, id string) error {
	return d.records.Delete(ctx, id)
}

// Cached reports whether id is currently served from the cache.
func (d *Directory[T]) Cached(ctx context.Context, id string) bool {
	return d.records.Has(ctx, id)
}
