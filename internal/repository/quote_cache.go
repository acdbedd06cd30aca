package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const quoteKey = "quote:weekly"

// QuoteCache 每周励志短句的 redis 缓存，全局共享一条，TTL 到期后重新生成
type QuoteCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewQuoteCache(client *redis.Client, ttl time.Duration) *QuoteCache {
	return &QuoteCache{client: client, ttl: ttl}
}

// Get 未命中时返回 ("", nil)
func (c *QuoteCache) Get(ctx context.Context) (string, error) {
	quote, err := c.client.Get(ctx, quoteKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return quote, nil
}

func (c *QuoteCache) Set(ctx context.Context, quote string) error {
	return c.client.Set(ctx, quoteKey, quote, c.ttl).Err()
}
