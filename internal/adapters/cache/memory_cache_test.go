package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/phishhook/phishhook/internal/core"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache(time.Hour, time.Hour, zap.NewNop())
	defer c.Stop()
	ctx := context.Background()

	stats := map[string]int{"malicious": 2, "harmless": 50}
	if err := c.Set(ctx, "https://a.com/x", stats); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := c.Get(ctx, "https://a.com/x")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got["malicious"] != 2 || got["harmless"] != 50 {
		t.Errorf("Get = %v, want %v", got, stats)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache(time.Hour, time.Hour, zap.NewNop())
	defer c.Stop()

	_, err := c.Get(context.Background(), "https://never-stored.example")
	if !errors.Is(err, core.ErrCacheMiss) {
		t.Errorf("err = %v, want core.ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(10*time.Millisecond, time.Hour, zap.NewNop())
	defer c.Stop()
	ctx := context.Background()

	if err := c.Set(ctx, "https://a.com/x", map[string]int{"malicious": 1}); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	time.Sleep(25 * time.Millisecond)

	if _, err := c.Get(ctx, "https://a.com/x"); !errors.Is(err, core.ErrCacheMiss) {
		t.Errorf("err = %v, want core.ErrCacheMiss after expiry", err)
	}
}

func TestMemoryCacheCleanupRemovesExpired(t *testing.T) {
	c := NewMemoryCache(10*time.Millisecond, time.Hour, zap.NewNop())
	defer c.Stop()
	ctx := context.Background()

	_ = c.Set(ctx, "https://a.com/x", map[string]int{})
	time.Sleep(25 * time.Millisecond)

	if err := c.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup returned error: %v", err)
	}

	c.mu.RLock()
	remaining := len(c.entries)
	c.mu.RUnlock()
	if remaining != 0 {
		t.Errorf("entries remaining after cleanup = %d, want 0", remaining)
	}
}

func TestMemoryCacheOverwrite(t *testing.T) {
	c := NewMemoryCache(time.Hour, time.Hour, zap.NewNop())
	defer c.Stop()
	ctx := context.Background()

	_ = c.Set(ctx, "https://a.com/x", map[string]int{"malicious": 1})
	_ = c.Set(ctx, "https://a.com/x", map[string]int{"malicious": 9})

	got, err := c.Get(ctx, "https://a.com/x")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got["malicious"] != 9 {
		t.Errorf("Get = %v, want the overwritten value", got)
	}
}
