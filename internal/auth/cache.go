package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "auth:token:"

// TokenCache memoizes token key to user id lookups in Redis. A nil cache or
// client turns every call into a miss.
type TokenCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenCache instantiates the cache helper.
func NewTokenCache(client *redis.Client, ttl time.Duration) *TokenCache {
	return &TokenCache{client: client, ttl: ttl}
}

// Get returns the cached user id for key.
func (c *TokenCache) Get(ctx context.Context, key string) (int64, bool, error) {
	if c == nil || c.client == nil {
		return 0, false, nil
	}
	raw, err := c.client.Get(ctx, tokenKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		_ = c.client.Del(ctx, tokenKeyPrefix+key).Err()
		return 0, false, nil
	}
	return id, true, nil
}

// Set stores the user id for key.
func (c *TokenCache) Set(ctx context.Context, key string, userID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, tokenKeyPrefix+key, strconv.FormatInt(userID, 10), c.ttl).Err()
}

// Delete evicts key.
func (c *TokenCache) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, tokenKeyPrefix+key).Err()
}
