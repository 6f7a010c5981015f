package conversion

import (
	"net/url"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// builtinConverters returns the default converter groups appended after user
// converters during registry construction. Group order is fixed and
// documented: UUID, temporal, net. Within a group, slice order is
// registration order, so earlier entries win assignability ties.
func builtinConverters() []any {
	var out []any
	out = append(out, uuidConverters()...)
	out = append(out, temporalConverters()...)
	out = append(out, netConverters()...)
	return out
}

// uuidConverters bridges github.com/google/uuid and the driver's native UUID
// type. The gocql.UUID pair is registered before the string pair, so the raw
// write target for uuid.UUID is gocql.UUID; the string target remains
// reachable through an exact-pair request.
func uuidConverters() []any {
	return []any{
		NewConverter(func(id uuid.UUID) (gocql.UUID, error) {
			return gocql.UUID(id), nil
		}).Writing(),
		NewConverter(func(id gocql.UUID) (uuid.UUID, error) {
			return uuid.UUID(id), nil
		}).Reading(),
		NewConverter(func(id uuid.UUID) (string, error) {
			return id.String(), nil
		}).Writing(),
		NewConverter(func(s string) (uuid.UUID, error) {
			return uuid.Parse(s)
		}).Reading(),
	}
}

// temporalConverters stores durations as bigint nanoseconds and reads
// epoch-millisecond columns into time.Time.
func temporalConverters() []any {
	return []any{
		NewConverter(func(d time.Duration) (int64, error) {
			return d.Nanoseconds(), nil
		}).Writing(),
		NewConverter(func(n int64) (time.Duration, error) {
			return time.Duration(n), nil
		}).Reading(),
		NewConverter(func(ms int64) (time.Time, error) {
			return time.UnixMilli(ms).UTC(), nil
		}).Reading(),
	}
}

// netConverters stores URLs as text columns.
func netConverters() []any {
	return []any{
		NewConverter(func(u url.URL) (string, error) {
			return u.String(), nil
		}).Writing(),
		NewConverter(func(s string) (url.URL, error) {
			parsed, err := url.Parse(s)
			if err != nil {
				return url.URL{}, err
			}
			return *parsed, nil
		}).Reading(),
	}
}
