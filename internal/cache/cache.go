// Package cache wraps an optional redis connection. A nil *Cache is
// valid and means caching is disabled; every method is nil-safe so
// callers never have to branch on configuration.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"fintrack/internal/logger"
)

// Cache is a small JSON cache over redis.
type Cache struct {
	client *redis.Client
}

// New connects to redis at the given URL. An empty URL or a failed
// connection returns nil; the application continues without caching.
func New(ctx context.Context, url string) *Cache {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.Get().Warnw("Invalid redis URL, continuing without cache", "error", err)
		return nil
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Get().Warnw("Redis unreachable, continuing without cache", "error", err)
		return nil
	}
	logger.Get().Info("Connected to redis")
	return &Cache{client: client}
}

// Enabled reports whether a redis connection is available.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON loads the value at key into dest. Returns false on miss,
// disabled cache, or any redis error.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	if !c.Enabled() {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// SetJSON stores value at key with a TTL. Errors are logged and
// swallowed; a failed cache write never fails the request.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Get().Warnw("Cache write failed", "key", key, "error", err)
	}
}

// DeletePrefix removes every key that starts with prefix. Errors are
// logged and swallowed; anything missed still ages out by TTL.
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) {
	if !c.Enabled() {
		return
	}
	iter := c.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Get().Warnw("Cache scan failed", "prefix", prefix, "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Get().Warnw("Cache delete failed", "error", err)
	}
}

// Ping checks the redis connection for health reporting.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return redis.ErrClosed
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the redis connection.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
