package cassandra

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-cassandra-mapper/cache"
)

// mapCacheService is a synchronous in-memory CacheService for decorator
// tests; it avoids depending on the sturdyc adapter's timing behavior.
type mapCacheService struct {
	mu      sync.Mutex
	entries map[string]any
}

func newMapCacheService() *mapCacheService {
	return &mapCacheService{entries: make(map[string]any)}
}

func (m *mapCacheService) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	m.mu.Lock()
	if value, ok := m.entries[key]; ok {
		m.mu.Unlock()
		return value, nil
	}
	m.mu.Unlock()

	var value any
	var err error
	switch fn := fetchFn.(type) {
	case cache.FetchFn[[]Row]:
		value, err = fn(ctx)
	case cache.FetchFn[Row]:
		value, err = fn(ctx)
	default:
		panic("unexpected fetchFn shape in test cache")
	}
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.entries[key] = value
	m.mu.Unlock()
	return value, nil
}

func (m *mapCacheService) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *mapCacheService) DeleteByPrefix(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func newCachedTemplate(t *testing.T, session Session) (*CachedTemplate, *mapCacheService) {
	t.Helper()

	base := newTestTemplate(t, session)
	service := newMapCacheService()
	return NewCached(base, service, cache.NewStatementKeySerializer()), service
}

func TestCachedTemplate_SelectIsCached(t *testing.T) {
	session := &mockSession{rows: []map[string]any{{"id": "s-1"}}}
	cached, _ := newCachedTemplate(t, session)

	ctx := context.Background()
	stmt := "SELECT id FROM sessions WHERE id = ?"

	for i := 0; i < 3; i++ {
		rows, err := cached.Select(ctx, stmt, "s-1")
		require.NoError(t, err)
		require.Len(t, rows, 1)
	}

	assert.Len(t, session.calls(), 1, "repeated Selects should be served from cache")
}

func TestCachedTemplate_ExecuteInvalidatesTable(t *testing.T) {
	session := &mockSession{rows: []map[string]any{{"id": "s-1"}}}
	cached, _ := newCachedTemplate(t, session)

	ctx := context.Background()

	_, err := cached.Select(ctx, "SELECT id FROM sessions WHERE id = ?", "s-1")
	require.NoError(t, err)
	_, err = cached.Select(ctx, "SELECT id FROM audit_log LIMIT 10")
	require.NoError(t, err)
	require.Len(t, session.calls(), 2)

	// Writing to sessions drops only the sessions entries.
	err = cached.Execute(ctx, "INSERT INTO sessions (id) VALUES (?)", "s-2")
	require.NoError(t, err)

	_, err = cached.Select(ctx, "SELECT id FROM sessions WHERE id = ?", "s-1")
	require.NoError(t, err)
	_, err = cached.Select(ctx, "SELECT id FROM audit_log LIMIT 10")
	require.NoError(t, err)

	// insert + refreshed sessions select; the audit_log select stays cached.
	assert.Len(t, session.calls(), 4)
}

func TestCachedTemplate_ContextTablesExtendInvalidation(t *testing.T) {
	session := &mockSession{rows: []map[string]any{{"id": "s-1"}}}
	cached, _ := newCachedTemplate(t, session)

	ctx := context.Background()

	_, err := cached.Select(ctx, "SELECT id FROM sessions_by_user LIMIT 1")
	require.NoError(t, err)
	require.Len(t, session.calls(), 1)

	// The write touches sessions, but the materialized view is attached via
	// the context.
	writeCtx := WithCacheTables(ctx, "sessions_by_user")
	err = cached.Execute(writeCtx, "INSERT INTO sessions (id) VALUES (?)", "s-2")
	require.NoError(t, err)

	_, err = cached.Select(ctx, "SELECT id FROM sessions_by_user LIMIT 1")
	require.NoError(t, err)
	assert.Len(t, session.calls(), 3, "view select should re-hit the database after invalidation")
}

func TestCachedTemplate_UnserializableValuesBypassCache(t *testing.T) {
	session := &mockSession{rows: []map[string]any{{"id": "s-1"}}}
	cached, _ := newCachedTemplate(t, session)

	ctx := context.Background()
	stmt := "SELECT id FROM sessions WHERE token = ?"

	// Channels cannot be keyed; both calls must reach the session. The bound
	// value never reaches the driver in this test setup, the mock ignores it.
	ch := make(chan int)
	for i := 0; i < 2; i++ {
		_, err := cached.Select(ctx, stmt, ch)
		require.NoError(t, err)
	}
	assert.Len(t, session.calls(), 2)
}

func TestCachedTemplate_SelectOneCached(t *testing.T) {
	session := &mockSession{rows: []map[string]any{{"id": "s-1"}}}
	cached, _ := newCachedTemplate(t, session)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		row, err := cached.SelectOne(ctx, "SELECT id FROM sessions LIMIT 1")
		require.NoError(t, err)
		assert.Equal(t, "s-1", row["id"])
	}
	assert.Len(t, session.calls(), 1)
}
