package cache

import "context"

// KeySerializer builds a stable cache key for a statement execution: a method
// name, the CQL text, and the bound values. Implementations must produce the
// same key for the same inputs across calls.
type KeySerializer interface {
	SerializeKey(method, stmt string, values ...any) (string, error)
}

// FetchFn is the function signature CacheService expects when fetching from
// the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService exposes the read-through caching operations needed when
// decorating a statement template. It is exported so that other packages can
// reuse the default serializer or provide alternate cache backends.
type CacheService interface {
	GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// GetOrFetch is a type-safe wrapper function that provides generic support
// for CacheService.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	result, err := service.GetOrFetch(ctx, key, fetchFn)
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		// nil interface results surface as the zero value of T
		var zero T
		return zero, nil
	}
	return typed, nil
}
