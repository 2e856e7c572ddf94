// Package cache provides the stores behind paginated list views.
//
// # Overview
//
// The package exports two caches and the pieces they share:
//
//   - ListCache: remembers the first page of each list key (a category or a
//     search keyword) together with the pagination cursor reached for it
//   - EntityCache: a TTL cache for single records, such as seller profiles
//   - KeySerializer: builds namespaced cache keys
//   - CacheService: the TTL store EntityCache is built on
//
// # List Cache
//
// A ListCache holds at most Capacity items per key, the head of the list.
// Later pages are never cached; the pagination package fetches them on every
// visit and only moves the cached cursor forward:
//
//	articles := cache.NewListCache[model.Article](cache.DefaultConfig())
//	articles.Set("category::Romance", firstPage, len(firstPage) >= 20, 1)
//
//	if articles.Has("category::Romance") {
//		items := articles.Get("category::Romance") // copy, safe to modify
//	}
//
// An entry with no items is stored but does not count for Has, so an empty
// first page is fetched again on the next visit. Operations on missing keys
// never fail; Get returns an empty slice and the Update methods do nothing.
//
// # Key Serialization
//
// Keys are built as namespace::part[::part...]. Parts longer than
// MaxSegmentLength are replaced by an xxhash digest so long search phrases
// produce bounded keys:
//
//	keys := cache.NewDefaultKeySerializer()
//	keys.SerializeKey("search", "go generics") // "search::go generics"
//
// Every key of a namespace starts with NamespacePrefix(namespace), which is
// what ListCache.ClearNamespace and EntityCache.Clear match on.
//
// # Entity Cache
//
// EntityCache is backed by a sturdyc client by default. Records expire after
// EntityConfig.TTL and failed fetches are never stored:
//
//	sellers, err := cache.NewEntityCache[model.Seller]("seller", cache.DefaultEntityConfig())
//	seller, err := sellers.GetOrFetch(ctx, id, func(ctx context.Context) (model.Seller, error) {
//		return api.Seller(ctx, id)
//	})
//
// Any CacheService implementation can be plugged in with
// NewEntityCacheWithService.
package cache
