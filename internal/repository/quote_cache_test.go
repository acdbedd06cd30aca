package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestQuoteCache(t *testing.T, ttl time.Duration) (*QuoteCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewQuoteCache(client, ttl), mr
}

func TestQuoteCacheMissReturnsEmpty(t *testing.T) {
	cache, _ := newTestQuoteCache(t, time.Hour)

	quote, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if quote != "" {
		t.Errorf("expected empty on miss, got %q", quote)
	}
}

func TestQuoteCacheRoundTrip(t *testing.T) {
	cache, _ := newTestQuoteCache(t, time.Hour)
	ctx := context.Background()

	if err := cache.Set(ctx, "学习是唯一的财富。"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	quote, err := cache.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if quote != "学习是唯一的财富。" {
		t.Errorf("got %q", quote)
	}
}

func TestQuoteCacheExpires(t *testing.T) {
	cache, mr := newTestQuoteCache(t, time.Hour)
	ctx := context.Background()

	if err := cache.Set(ctx, "短句"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(2 * time.Hour)

	quote, err := cache.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if quote != "" {
		t.Error("expected quote to expire")
	}
}
