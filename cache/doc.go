// Package cache provides the shared page cache for entity listings.
//
// # Overview
//
// The package exports CacheService, a read-through cache keyed by the
// canonical strings the querykey package produces. One cache instance is
// shared by every mounted table of every entity kind; the key, not the
// controller, is the unit of ownership.
//
// # Read path
//
// Listings resolve through GetOrFetch: a hit returns the cached page, a
// miss runs the supplied fetch function and stores the result under the
// key. Peek is the synchronous variant used when a table switches back to
// a key it has already served, so previously visited pages render without
// a fetch.
//
//	page, err := cache.GetOrFetch(ctx, service, key.String(),
//		func(ctx context.Context) (fetch.Page[User], error) {
//			return adapter.Fetch(ctx, key)
//		})
//
// # Invalidation
//
// Delete, DeleteByPrefix and InvalidateKeys are the eviction surface the
// invalidation package drives after mutations. Prefix deletes exist
// because list keys form open-ended families: any page/sort/filter
// combination of a kind may be cached, so a single entity change can only
// be reflected by evicting the whole family.
//
// # Freshness
//
// Entries expire on the configured TTL; sturdyc's early refresh keeps hot
// keys warm without stampedes. Explicit invalidation always wins over the
// freshness window by removing the entry outright.
package cache
