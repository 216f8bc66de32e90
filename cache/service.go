package cache

import "context"

// FetchFn is the function signature CacheService expects when fetching a
// page from the backend on a cache miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService exposes the read-through and invalidation operations the
// listing layer needs. The process-wide cache is shared across every
// controller instance; writes to a key happen only through a successful
// GetOrFetch for that key or an explicit invalidation.
type CacheService interface {
	// GetOrFetch returns the cached value for key, fetching it with
	// fetchFn when absent or expired. fetchFn must be a FetchFn[T].
	GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error)

	// Peek returns the cached value for key without triggering a fetch.
	// It is the synchronous hit test used when a controller switches to a
	// key it has served before.
	Peek(ctx context.Context, key string) (any, bool)

	// Delete evicts a single key.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix evicts every cached key sharing the given prefix.
	// Family-wide invalidation of list views goes through here, since the
	// pagination/sort/filter tail of a list key is caller-determined and
	// unbounded.
	DeleteByPrefix(ctx context.Context, prefix string) error

	// InvalidateKeys evicts the given concrete keys in one call.
	InvalidateKeys(ctx context.Context, keys []string) error
}

// GetOrFetch is a type-safe wrapper around CacheService.GetOrFetch.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	result, err := service.GetOrFetch(ctx, key, fetchFn)
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// Peek is a type-safe wrapper around CacheService.Peek. The boolean is
// false both on a miss and when the cached value has a different type.
func Peek[T any](ctx context.Context, service CacheService, key string) (T, bool) {
	raw, ok := service.Peek(ctx, key)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := raw.(T)
	return typed, ok
}
