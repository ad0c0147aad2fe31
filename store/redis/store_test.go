package redis

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/typedflow/component"
	"github.com/kbukum/typedflow/errors"
	"github.com/kbukum/typedflow/logger"
	"github.com/kbukum/typedflow/store"
)

// newTestClient creates a Client backed by miniredis for testing.
func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() { mini.Close() })

	client, err := New(Config{Addr: mini.Addr(), KeyPrefix: "test"}, logger.NewNop())
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, mini
}

func TestStore_SetAndGet(t *testing.T) {
	client, _ := newTestClient(t)
	ts := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	s := NewStore[string](client, "texts").WithClock(func() time.Time { return ts })
	ctx := context.Background()

	if err := s.Set(ctx, "k1", "improving"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := s.Get(ctx, "k1")
	if err != nil || got != "improving" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	e, _ := s.Entry(ctx, "k1")
	if !e.Timestamp.Equal(ts) {
		t.Errorf("expected timestamp %v, got %v", ts, e.Timestamp)
	}
}

func TestStore_NotFound(t *testing.T) {
	client, _ := newTestClient(t)
	s := NewStore[int](client, "numbers")
	ctx := context.Background()

	s.Set(ctx, "a", 1)
	s.Set(ctx, "b", 2)
	if _, err := s.Get(ctx, "c"); !store.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if v, err := s.Get(ctx, "a"); err != nil || v != 1 {
		t.Fatalf("Get(a) = %d, %v", v, err)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "a"); !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected NOT_FOUND after delete, got %v", err)
	}
}

func TestStore_KeyPrefix(t *testing.T) {
	client, mini := newTestClient(t)
	s := NewStore[string](client, "texts")
	s.Set(context.Background(), "k1", "v")

	raw, err := mini.Get("test:texts:k1")
	if err != nil {
		t.Fatalf("expected prefixed key in Redis, err: %v", err)
	}
	if raw == "" {
		t.Fatal("expected non-empty value at prefixed key")
	}
}

func TestStore_KeysScan(t *testing.T) {
	client, mini := newTestClient(t)
	texts := NewStore[string](client, "texts")
	numbers := NewStore[int](client, "numbers")
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		texts.Set(ctx, fmt.Sprintf("t%03d", i), "x")
	}
	numbers.Set(ctx, "n", 1)
	mini.Set("unrelated", "ignored")

	keys, err := texts.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 250 {
		t.Fatalf("expected 250 keys, got %d", len(keys))
	}
	if keys[0] != "t000" || keys[249] != "t249" {
		t.Errorf("expected sorted unprefixed keys, got %s..%s", keys[0], keys[249])
	}

	empty, err := NewStore[int](client, "empty").Keys(ctx)
	if err != nil || len(empty) != 0 {
		t.Errorf("expected no keys, got %v, %v", empty, err)
	}
}

func TestStore_DecodeMismatch(t *testing.T) {
	client, mini := newTestClient(t)
	mini.Set("test:numbers:bad", `{"key":"bad","value":"text"}`)

	_, err := NewStore[int](client, "numbers").Get(context.Background(), "bad")
	if !errors.IsCode(err, errors.ErrCodeStorageError) {
		t.Fatalf("expected STORAGE_ERROR, got %v", err)
	}
}

func TestStore_ServerDown(t *testing.T) {
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client, err := New(Config{Addr: mini.Addr(), MaxRetries: 1}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Close()
	mini.Close()

	err = NewStore[int](client, "numbers").Set(context.Background(), "a", 1)
	if !errors.IsRetryable(err) {
		t.Fatalf("expected retryable storage error, got %v", err)
	}
}

func TestNumericStore_Add(t *testing.T) {
	client, _ := newTestClient(t)
	s := NewNumericStore[int8](client, "counters")
	ctx := context.Background()

	if got, err := s.Add(ctx, "n", 100); err != nil || got != 100 {
		t.Fatalf("Add = %d, %v", got, err)
	}
	if _, err := s.Add(ctx, "n", 100); !errors.Is(err, errors.ErrOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
	if v, _ := s.Get(ctx, "n"); v != 100 {
		t.Errorf("overflow must leave the value unchanged, got %d", v)
	}
}

func TestNumericStore_ConcurrentAdd(t *testing.T) {
	client, _ := newTestClient(t)
	s := NewNumericStore[int](client, "counters")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add(ctx, "n", 1)
		}()
	}
	wg.Wait()

	v, err := s.Get(ctx, "n")
	if err != nil || v != 8 {
		t.Errorf("expected 8 after concurrent adds, got %d, %v", v, err)
	}
}

func TestConfig(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Addr != "localhost:6379" || cfg.KeyPrefix != "typedflow" || cfg.PoolSize != 10 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}

	cfg.ReadTimeout = "soon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid read_timeout")
	}
}

func TestComponent(t *testing.T) {
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mini.Close()

	c := NewComponent(Config{Addr: mini.Addr()}, nil)
	ctx := context.Background()
	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %+v", h)
	}
	if c.Client() == nil {
		t.Fatal("expected client after start")
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestComponentStartFailsWithoutServer(t *testing.T) {
	c := NewComponent(Config{Addr: "127.0.0.1:1", DialTimeout: "100ms", MaxRetries: 1}, nil)
	if err := c.Start(context.Background()); err == nil {
		t.Fatal("expected start to fail")
	}
}
