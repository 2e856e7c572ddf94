// Package repositorycache serves single records from a go-repository-bun
// repository through a cache.EntityCache.
//
// A Directory reads through the cache on Get and keeps it coherent on
// writes: Update stores the record returned by the repository with a fresh
// TTL and Delete drops the cached copy. Records are addressed by their
// cache.Item id.
//
//	sellers := repositorycache.New[model.Seller](sellerRepo, container.Sellers())
//	seller, err := sellers.Get(ctx, book.SellerID)
//
// The cache namespace is usually derived from the record type with
// Namespace, so model.Seller records live under "seller::<id>".
package repositorycache
