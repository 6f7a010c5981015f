// Package cassandra provides a thin statement template over a Cassandra
// session that maps values through a custom conversion registry.
//
// # Overview
//
// Template executes CQL against the narrow Session interface (a gocql adapter
// is provided) and consults a conversion.CustomConversions registry on both
// sides of the driver boundary:
//
//   - write path: every bound value whose type has a custom write target is
//     converted into that target before it reaches the driver
//   - read path: ReadColumn and ScanColumn convert driver-native column
//     values into domain types when a reading conversion is registered
//
// The template owns neither statement construction nor session lifecycle;
// callers hand it finished CQL strings and an established session.
//
// # Basic Usage
//
//	conversions, err := conversion.New([]any{
//		conversion.NewConverter(func(k ApiKey) (string, error) {
//			return k.Value, nil
//		}).Writing(),
//	})
//	// ...
//	template, err := cassandra.NewTemplate(cassandra.NewGocqlSession(session), conversions)
//
//	err = template.Execute(ctx, "INSERT INTO api_keys (id, key) VALUES (?, ?)", id, key)
//	row, err := template.SelectOne(ctx, "SELECT key FROM api_keys WHERE id = ?", id)
//
// # Cached vs Pass-through Operations
//
// CachedTemplate decorates a Template with read-through caching:
//
//   - Select and SelectOne are cached, keyed by a table-namespaced digest of
//     the statement and its bound values
//   - Execute passes through and invalidates the cached entries of the table
//     the statement touches; WithCacheTables extends invalidation to tables
//     the statement parser cannot see
//
// Cache errors are handled gracefully: an unserializable bound value skips
// the cache, and invalidation failures never fail a write that already
// succeeded.
//
// # See Also
//
// For the conversion registry and converter shapes, see the conversion
// package. For cache configuration and key serialization, see the cache
// package.
package cassandra
