// Package typecache provides the concurrent memoization structure backing the
// conversion registry's resolution accessors. Outcomes are two-state: either a
// resolved target type or an explicit "no conversion exists" marker, so that
// repeated negative lookups cost one map read instead of a pair-set scan.
package typecache

import (
	"reflect"

	"github.com/puzpuzpuz/xsync/v3"
)

// Result is a cached resolution outcome. The zero Result means "resolved to
// nothing", which is distinct from a key that has not been resolved yet.
type Result struct {
	target reflect.Type
}

// Resolved wraps a resolution outcome; target may be nil for a negative
// result.
func Resolved(target reflect.Type) Result {
	return Result{target: target}
}

// Target returns the resolved type and whether a conversion exists.
func (r Result) Target() (reflect.Type, bool) {
	return r.target, r.target != nil
}

// Cache memoizes resolution outcomes per key. Entries are never evicted or
// invalidated; the key universe is bounded by the distinct types an
// application maps, not by request volume. Individual insertions are atomic,
// so no reader observes a partially written entry.
type Cache[K comparable] struct {
	entries *xsync.MapOf[K, Result]
}

// New creates an empty cache.
func New[K comparable]() *Cache[K] {
	return &Cache[K]{entries: xsync.NewMapOf[K, Result]()}
}

// LoadOrCompute returns the outcome for key, running produce and storing its
// result on the first miss. produce must be pure. Concurrent misses for the
// same key may both compute; last write wins, which is safe because produce is
// deterministic over the registry's immutable pair sets.
func (c *Cache[K]) LoadOrCompute(key K, produce func() reflect.Type) (reflect.Type, bool) {
	if result, ok := c.entries.Load(key); ok {
		return result.Target()
	}

	result := Resolved(produce())
	c.entries.Store(key, result)

	return result.Target()
}

// Len reports how many outcomes are cached.
func (c *Cache[K]) Len() int {
	return c.entries.Size()
}
