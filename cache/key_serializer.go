package cache

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// statementKeySerializer hashes the statement text and the msgpack encoding
// of each bound value into an xxhash digest. Hashing keeps keys bounded in
// length and free of characters external cache backends reject, while msgpack
// gives a deterministic encoding for the argument values.
type statementKeySerializer struct{}

// NewStatementKeySerializer creates the default key serializer for statement
// caching.
func NewStatementKeySerializer() KeySerializer {
	return &statementKeySerializer{}
}

// SerializeKey builds a key of the form "method::<digest>". Values that
// msgpack cannot encode (functions, channels) make the statement uncacheable
// and are reported as an error rather than silently producing unstable keys.
func (s *statementKeySerializer) SerializeKey(method, stmt string, values ...any) (string, error) {
	digest := xxhash.New()
	_, _ = digest.WriteString(stmt)

	for i, value := range values {
		encoded, err := msgpack.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("cache: serializing bound value %d: %w", i, err)
		}
		_, _ = digest.Write(encoded)
	}

	return strings.Join([]string{
		method,
		strconv.FormatUint(digest.Sum64(), 16),
	}, KeySeparator), nil
}
