package cassandra

import "context"

type cacheTablesContextKey struct{}

// WithCacheTables attaches additional table names to the context. A write
// executed with this context also invalidates cached SELECT results for those
// tables, which covers statements whose side effects the table parser cannot
// see (batches, triggers, materialized views).
func WithCacheTables(ctx context.Context, tables ...string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(tables) == 0 {
		return ctx
	}

	combined := append(cacheTablesFromContext(ctx), tables...)
	combined = dedupeStrings(combined)
	if len(combined) == 0 {
		return ctx
	}

	return context.WithValue(ctx, cacheTablesContextKey{}, combined)
}

func cacheTablesFromContext(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	if tables, ok := ctx.Value(cacheTablesContextKey{}).([]string); ok {
		return append([]string(nil), tables...)
	}
	return nil
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
