package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

// Cache is a thin read-through cache on Redis. When Redis is unreachable the
// cache silently bypasses itself; every caller must tolerate misses anyway.
type Cache struct {
	client *redis.Client

	warnedUnavailable atomic.Bool
}

func New(addr, password string) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, bypassing cache", "addr", addr, "err", err)
		_ = client.Close()
		return &Cache{client: nil}
	}

	return &Cache{client: client}
}

func (c *Cache) available() bool {
	return c != nil && c.client != nil
}

func (c *Cache) warnOnce(err error) {
	if c == nil {
		return
	}
	if c.warnedUnavailable.CompareAndSwap(false, true) {
		slog.Warn("redis error, bypassing cache", "err", err)
	}
}

// GetJSON reads key into out. The bool reports whether the key was present.
func (c *Cache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !c.available() {
		return false, nil
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		c.warnOnce(err)
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if !c.available() {
		return
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, b, ttl).Err(); err != nil {
		c.warnOnce(err)
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.available() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.warnOnce(err)
	}
}
