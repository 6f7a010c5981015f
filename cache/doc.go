// Package cache provides caching interfaces and key serialization for
// statement-result caching.
//
// # Overview
//
// This package exports two main interfaces and their default implementations:
//
//   - CacheService: a generic caching interface for read-through operations
//   - KeySerializer: builds stable cache keys from a method name, a CQL
//     statement, and its bound values
//
// The cache package is designed to work with template decorators that cache
// SELECT results while maintaining type safety through generics. It is
// unrelated to the conversion registry's internal resolution caches, which
// never evict and live in internal/typecache.
//
// # Basic Usage
//
//	serializer := cache.NewStatementKeySerializer()
//	key, err := serializer.SerializeKey("Select",
//		"SELECT id, name FROM users WHERE id = ?", userID)
//
// For statement caching, you would typically combine this with a CacheService
// implementation:
//
//	rows, err := cache.GetOrFetch(ctx, cacheService, key,
//		func(ctx context.Context) ([]cassandra.Row, error) {
//			return template.Select(ctx, stmt, userID)
//		})
//
// # Key Serialization Strategy
//
// The default serializer folds the statement text and the msgpack encoding of
// every bound value into a single xxhash digest. That keeps keys short,
// deterministic across runs, and free of characters external backends such as
// Redis or Memcache reject. Values msgpack cannot encode (functions,
// channels) are reported as errors so callers can fall through to the
// uncached path instead of caching under an unstable key.
//
// # Custom Key Serializers
//
// Implement KeySerializer for specialized key generation, for example to add
// a tenant prefix or to include a schema version in every key.
//
// # See Also
//
// For the caching template decorator, see the cassandra package. For the
// sturdyc-backed CacheService implementation, see NewCacheService.
package cache
