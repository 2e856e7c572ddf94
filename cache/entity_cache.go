package cache

import (
	"context"
	"strings"
)

// EntityCache is a TTL cache for single records addressed by id, such as
// seller profiles shown next to book listings. Entries expire after the
// configured TTL; expiry and eviction are owned by the backing CacheService.
type EntityCache[T any] struct {
	service   CacheService
	keys      KeySerializer
	namespace string
}

// NewEntityCache creates an EntityCache backed by the default TTL store.
func NewEntityCache[T any](namespace string, cfg EntityConfig) (*EntityCache[T], error) {
	service, err := NewCacheService(cfg)
	if err != nil {
		return nil, err
	}
	return NewEntityCacheWithService[T](namespace, service, NewDefaultKeySerializer()), nil
}

// NewEntityCacheWithService creates an EntityCache on top of an existing
// service. Several caches may share one service as long as their namespaces
// differ.
func NewEntityCacheWithService[T any](namespace string, service CacheService, keys KeySerializer) *EntityCache[T] {
	if keys == nil {
		keys = NewDefaultKeySerializer()
	}
	if namespace == "" {
		namespace = "entity"
	}
	return &EntityCache[T]{
		service:   service,
		keys:      keys,
		namespace: namespace,
	}
}

func (c *EntityCache[T]) key(id string) string {
	return c.keys.SerializeKey(c.namespace, id)
}

// Get returns the live record for id.
func (c *EntityCache[T]) Get(ctx context.Context, id string) (T, bool) {
	var zero T
	v, ok := c.service.Get(ctx, c.key(id))
	if !ok {
		return zero, false
	}
	value, ok := v.(T)
	if !ok {
		return zero, false
	}
	return value, true
}

// Has reports whether a live record exists for id.
func (c *EntityCache[T]) Has(ctx context.Context, id string) bool {
	_, ok := c.Get(ctx, id)
	return ok
}

// Set stores value for id, restarting its TTL.
func (c *EntityCache[T]) Set(ctx context.Context, id string, value T) error {
	return c.service.Set(ctx, c.key(id), value)
}

// GetOrFetch returns the cached record for id or loads it with fetchFn.
// Failed fetches are not cached.
func (c *EntityCache[T]) GetOrFetch(ctx context.Context, id string, fetchFn FetchFn[T]) (T, error) {
	return GetOrFetch(ctx, c.service, c.key(id), fetchFn)
}

// Update applies fn to the cached record and stores the result with a fresh
// TTL. It reports false, without calling fn, when id is not cached.
func (c *EntityCache[T]) Update(ctx context.Context, id string, fn func(T) T) (bool, error) {
	current, ok := c.Get(ctx, id)
	if !ok {
		return false, nil
	}
	if err := c.Set(ctx, id, fn(current)); err != nil {
		return false, err
	}
	return true, nil
}

// Delete drops the record for id.
func (c *EntityCache[T]) Delete(ctx context.Context, id string) error {
	return c.service.Delete(ctx, c.key(id))
}

// Clear drops every record in this cache's namespace.
func (c *EntityCache[T]) Clear(ctx context.Context) error {
	return c.service.DeleteByPrefix(ctx, NamespacePrefix(c.namespace))
}

// Len returns the number of keys held in this cache's namespace.
func (c *EntityCache[T]) Len(ctx context.Context) int {
	prefix := NamespacePrefix(c.namespace)
	var n int
	for _, key := range c.service.Keys(ctx) {
		if strings.HasPrefix(key, prefix) {
			n++
		}
	}
	return n
}
