package cassandra

import (
	"strings"
	"unicode"
)

// tableFromStatement extracts the table a CQL statement touches, without the
// keyspace qualifier or quoting. It understands the verbs the template
// issues: SELECT, INSERT, UPDATE, DELETE and TRUNCATE. An empty string means
// the table could not be determined; callers fall back to unscoped cache
// keys in that case.
func tableFromStatement(stmt string) string {
	fields := strings.Fields(stmt)
	if len(fields) == 0 {
		return ""
	}

	switch strings.ToUpper(fields[0]) {
	case "SELECT", "DELETE":
		for i, field := range fields {
			if strings.EqualFold(field, "FROM") && i+1 < len(fields) {
				return trimIdentifier(fields[i+1])
			}
		}
	case "INSERT":
		if len(fields) >= 3 && strings.EqualFold(fields[1], "INTO") {
			return trimIdentifier(fields[2])
		}
	case "UPDATE", "TRUNCATE":
		if len(fields) >= 2 {
			return trimIdentifier(fields[1])
		}
	}
	return ""
}

// trimIdentifier strips the trailing statement syntax, quoting, and keyspace
// prefix from a table reference.
func trimIdentifier(s string) string {
	s = strings.TrimRight(s, ";")
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return strings.Trim(s, `"`)
}

// toSnake converts the provided string to snake_case using ASCII-aware rules.
// We keep this implementation local so we can aggressively strip punctuation
// that can show up in quoted CQL identifiers; leaving those characters in the
// cache namespace would break prefix-based invalidation and produce keys
// external backends reject.
func toSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	lastUnderscore := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case unicode.IsUpper(r):
			if b.Len() > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if (unicode.IsLower(prev) || unicode.IsDigit(prev) || nextLower) && !lastUnderscore {
					b.WriteByte('_')
					lastUnderscore = true
				}
			}
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false

		case unicode.IsLower(r):
			b.WriteRune(r)
			lastUnderscore = false

		case unicode.IsDigit(r):
			if b.Len() > 0 {
				prev := runes[i-1]
				if !unicode.IsDigit(prev) && prev != '_' && !lastUnderscore {
					b.WriteByte('_')
				}
			}
			b.WriteRune(r)
			lastUnderscore = false

		case r == '_':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}

		case r == '-' || unicode.IsSpace(r):
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}

		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	return strings.Trim(b.String(), "_")
}
