package cassandra

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"
)

// Session is the narrow slice of a driver session the template needs. Query
// executes a statement and returns its rows as column-name keyed maps; Exec
// executes a statement that produces no rows. Connection lifecycle, retries
// and topology belong to the driver, not to this package.
type Session interface {
	Query(ctx context.Context, stmt string, values ...any) ([]map[string]any, error)
	Exec(ctx context.Context, stmt string, values ...any) error
}

// GocqlSession adapts a *gocql.Session to the Session interface.
type GocqlSession struct {
	session *gocql.Session
}

// NewGocqlSession wraps an established gocql session. The caller owns the
// session and is responsible for closing it.
func NewGocqlSession(session *gocql.Session) *GocqlSession {
	return &GocqlSession{session: session}
}

func (s *GocqlSession) Query(ctx context.Context, stmt string, values ...any) ([]map[string]any, error) {
	iter := s.session.Query(stmt, values...).WithContext(ctx).Iter()

	var rows []map[string]any
	for {
		row := make(map[string]any)
		if !iter.MapScan(row) {
			break
		}
		rows = append(rows, row)
	}

	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("cassandra: query failed: %w", err)
	}
	return rows, nil
}

func (s *GocqlSession) Exec(ctx context.Context, stmt string, values ...any) error {
	if err := s.session.Query(stmt, values...).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("cassandra: exec failed: %w", err)
	}
	return nil
}
