package di

import (
	"context"
	"testing"

	"github.com/goliatone/go-cassandra-mapper/cache"
	"github.com/goliatone/go-cassandra-mapper/conversion"
)

type stubSession struct {
	queries int
}

func (s *stubSession) Query(ctx context.Context, stmt string, values ...any) ([]map[string]any, error) {
	s.queries++
	return []map[string]any{{"id": "a-1"}}, nil
}

func (s *stubSession) Exec(ctx context.Context, stmt string, values ...any) error {
	return nil
}

func TestNewContainerWithDefaults(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults: %v", err)
	}

	if container.Conversions() == nil {
		t.Error("Conversions should not be nil")
	}
	if container.CacheService() == nil {
		t.Error("CacheService should not be nil")
	}
	if container.KeySerializer() == nil {
		t.Error("KeySerializer should not be nil")
	}
	if got := container.Config(); got.Capacity != cache.DefaultConfig().Capacity {
		t.Errorf("Config().Capacity = %d, want default %d", got.Capacity, cache.DefaultConfig().Capacity)
	}
}

func TestNewContainerSingletons(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults: %v", err)
	}

	if container.Conversions() != container.Conversions() {
		t.Error("Conversions should return the same instance")
	}
	if container.CacheService() != container.CacheService() {
		t.Error("CacheService should return the same instance")
	}
}

func TestNewContainerInvalidCacheConfig(t *testing.T) {
	cfg := cache.DefaultConfig()
	cfg.Capacity = 0

	if _, err := NewContainer(nil, cfg); err == nil {
		t.Fatal("expected error for invalid cache config")
	}
}

func TestNewContainerUnsupportedConverter(t *testing.T) {
	if _, err := NewContainer([]any{
		"not a converter",
	}, cache.DefaultConfig()); err == nil {
		t.Fatal("expected error for unsupported converter shape")
	}
}

func TestNewContainerRegistersUserConverters(t *testing.T) {
	container, err := NewContainer([]any{
		conversion.NewConverter(func(s string) ([]byte, error) {
			return []byte(s), nil
		}).Writing(),
	}, cache.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	if !container.Conversions().HasCustomWriteTarget(conversion.TypeOf[string]()) {
		t.Error("expected string write target from user converter")
	}
}

func TestContainerNewTemplate(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults: %v", err)
	}

	tmpl, err := container.NewTemplate(&stubSession{})
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}
	if tmpl == nil {
		t.Fatal("NewTemplate returned nil template")
	}
}

func TestContainerNewCachedTemplateCaches(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults: %v", err)
	}

	session := &stubSession{}
	tmpl, err := container.NewCachedTemplate(session)
	if err != nil {
		t.Fatalf("NewCachedTemplate: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		rows, err := tmpl.Select(ctx, "SELECT * FROM accounts WHERE id = ?", "a-1")
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("got %d rows, want 1", len(rows))
		}
	}

	if session.queries != 1 {
		t.Errorf("session queried %d times, want 1", session.queries)
	}
}
