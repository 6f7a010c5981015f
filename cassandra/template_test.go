package cassandra

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-cassandra-mapper/conversion"
)

// sessionID is a domain type tests register converters for.
type sessionID struct {
	raw string
}

// executedStmt records one statement the mock session received.
type executedStmt struct {
	stmt   string
	values []any
}

// mockSession records executed statements and serves canned rows.
type mockSession struct {
	mu       sync.Mutex
	executed []executedStmt
	rows     []map[string]any
	queryErr error
	execErr  error
}

func (m *mockSession) Query(ctx context.Context, stmt string, values ...any) ([]map[string]any, error) {
	m.record(stmt, values)
	return m.rows, m.queryErr
}

func (m *mockSession) Exec(ctx context.Context, stmt string, values ...any) error {
	m.record(stmt, values)
	return m.execErr
}

func (m *mockSession) record(stmt string, values []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.executed = append(m.executed, executedStmt{stmt: stmt, values: values})
}

func (m *mockSession) calls() []executedStmt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]executedStmt(nil), m.executed...)
}

func newTestTemplate(t *testing.T, session Session, converters ...any) *Template {
	t.Helper()

	conversions, err := conversion.New(converters)
	require.NoError(t, err)

	template, err := NewTemplate(session, conversions)
	require.NoError(t, err)
	return template
}

func sessionIDConverters() []any {
	return []any{
		conversion.NewConverter(func(id sessionID) (string, error) {
			return id.raw, nil
		}).Writing(),
		conversion.NewConverter(func(raw string) (sessionID, error) {
			return sessionID{raw: raw}, nil
		}).Reading(),
	}
}

func TestTemplate_ExecuteConvertsBoundValues(t *testing.T) {
	session := &mockSession{}
	template := newTestTemplate(t, session, sessionIDConverters()...)

	err := template.Execute(context.Background(),
		"INSERT INTO sessions (id, active) VALUES (?, ?)",
		sessionID{raw: "s-42"}, true)
	require.NoError(t, err)

	calls := session.calls()
	require.Len(t, calls, 1)
	// The sessionID was converted to its write target; the bool is native
	// and passes through untouched.
	assert.Equal(t, []any{"s-42", true}, calls[0].values)
}

func TestTemplate_ExecuteNilValuePassthrough(t *testing.T) {
	session := &mockSession{}
	template := newTestTemplate(t, session)

	err := template.Execute(context.Background(),
		"INSERT INTO sessions (id, note) VALUES (?, ?)", "s-1", nil)
	require.NoError(t, err)

	require.Len(t, session.calls(), 1)
	assert.Equal(t, []any{"s-1", nil}, session.calls()[0].values)
}

func TestTemplate_SelectOne(t *testing.T) {
	session := &mockSession{rows: []map[string]any{
		{"id": "s-1", "active": true},
		{"id": "s-2", "active": false},
	}}
	template := newTestTemplate(t, session)

	row, err := template.SelectOne(context.Background(), "SELECT * FROM sessions")
	require.NoError(t, err)
	assert.Equal(t, "s-1", row["id"])
}

func TestTemplate_SelectOneNotFound(t *testing.T) {
	session := &mockSession{}
	template := newTestTemplate(t, session)

	_, err := template.SelectOne(context.Background(), "SELECT * FROM sessions WHERE id = ?", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTemplate_ScanColumn(t *testing.T) {
	session := &mockSession{rows: []map[string]any{
		{"id": "s-9", "count": int64(3)},
	}}
	template := newTestTemplate(t, session, sessionIDConverters()...)

	row, err := template.SelectOne(context.Background(), "SELECT id, count FROM sessions LIMIT 1")
	require.NoError(t, err)

	// Reading conversion: the text column comes back as the domain type.
	id, err := ScanColumn[sessionID](template, row, "id")
	require.NoError(t, err)
	assert.Equal(t, "s-9", id.raw)

	// Assignable values pass through without a converter.
	count, err := ScanColumn[int64](template, row, "count")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestTemplate_ReadColumnErrors(t *testing.T) {
	session := &mockSession{}
	template := newTestTemplate(t, session)

	row := Row{"active": true}

	_, err := template.ReadColumn(row, "missing", conversion.TypeOf[string]())
	assert.Error(t, err)

	// No reading conversion bool -> sessionID exists.
	_, err = template.ReadColumn(row, "active", conversion.TypeOf[sessionID]())
	assert.Error(t, err)
}

func TestNewTemplate_Validation(t *testing.T) {
	conversions, err := conversion.New(nil)
	require.NoError(t, err)

	_, err = NewTemplate(nil, conversions)
	assert.Error(t, err)

	_, err = NewTemplate(&mockSession{}, nil)
	assert.Error(t, err)
}
