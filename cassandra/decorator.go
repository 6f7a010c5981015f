package cassandra

import (
	"context"

	"github.com/goliatone/go-cassandra-mapper/cache"
)

// CachedTemplate decorates a Template with read-through caching of SELECT
// results. Writes pass through to the base template and invalidate cached
// entries for the table they touch. Cache keys are namespaced per table so
// invalidation stays a prefix operation.
type CachedTemplate struct {
	base          *Template
	cache         cache.CacheService
	keySerializer cache.KeySerializer
}

// NewCached wraps a base template with caching.
func NewCached(base *Template, cacheService cache.CacheService, keySerializer cache.KeySerializer) *CachedTemplate {
	return &CachedTemplate{
		base:          base,
		cache:         cacheService,
		keySerializer: keySerializer,
	}
}

// Base returns the undecorated template for callers that need to bypass the
// cache, such as reads inside a lightweight-transaction flow.
func (c *CachedTemplate) Base() *Template {
	return c.base
}

// Select returns cached rows for the statement when available, querying and
// caching them otherwise. Statements whose bound values cannot be serialized
// into a stable key skip the cache entirely.
func (c *CachedTemplate) Select(ctx context.Context, stmt string, values ...any) ([]Row, error) {
	key, err := c.statementKey("Select", stmt, values...)
	if err != nil {
		return c.base.Select(ctx, stmt, values...)
	}
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) ([]Row, error) {
		return c.base.Select(ctx, stmt, values...)
	})
}

// SelectOne is the cached counterpart of Template.SelectOne. ErrNotFound
// outcomes are not cached; negative caching for missing rows is the cache
// backend's missing-record storage concern.
func (c *CachedTemplate) SelectOne(ctx context.Context, stmt string, values ...any) (Row, error) {
	key, err := c.statementKey("SelectOne", stmt, values...)
	if err != nil {
		return c.base.SelectOne(ctx, stmt, values...)
	}
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (Row, error) {
		return c.base.SelectOne(ctx, stmt, values...)
	})
}

// Execute runs a write through the base template and, on success, invalidates
// cached results for the statement's table plus any tables attached to the
// context via WithCacheTables.
func (c *CachedTemplate) Execute(ctx context.Context, stmt string, values ...any) error {
	if err := c.base.Execute(ctx, stmt, values...); err != nil {
		return err
	}

	tables := append([]string{tableFromStatement(stmt)}, cacheTablesFromContext(ctx)...)
	for _, table := range dedupeStrings(tables) {
		// Invalidation failures leave stale entries behind until TTL; they
		// must not fail the write that already succeeded.
		_ = c.cache.DeleteByPrefix(ctx, toSnake(table)+cache.KeySeparator)
	}
	return nil
}

// statementKey builds the table-namespaced cache key for a statement.
func (c *CachedTemplate) statementKey(method, stmt string, values ...any) (string, error) {
	key, err := c.keySerializer.SerializeKey(method, stmt, values...)
	if err != nil {
		return "", err
	}
	return toSnake(tableFromStatement(stmt)) + cache.KeySeparator + key, nil
}
