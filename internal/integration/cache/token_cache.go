package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache stores short-lived bearer tokens in Redis.
type TokenCache struct {
	client redis.UniversalClient
	prefix string
}

// NewTokenCache creates a token cache whose keys start with prefix.
func NewTokenCache(client redis.UniversalClient, prefix string) *TokenCache {
	return &TokenCache{client: client, prefix: prefix}
}

// Get returns the cached token for key, or ok == false when none is cached.
func (c *TokenCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set caches token for ttl.
func (c *TokenCache) Set(ctx context.Context, key, token string, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, token, ttl).Err()
}
