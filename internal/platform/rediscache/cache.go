// Package rediscache provides a small Redis-backed byte cache used to
// memoize slow external lookups such as dictionary and image provider
// responses. The cache is strictly best-effort: a nil client or an
// unreachable Redis degrades every operation to a miss instead of an error.
package rediscache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vocabloom/vocabloom-api/internal/platform/logger"
)

// dialTimeout bounds the initial connectivity probe.
const dialTimeout = 5 * time.Second

// Cache wraps a Redis client for get/set of opaque byte payloads.
// The zero value and a nil *Cache are both safe to use and always miss.
type Cache struct {
	client *redis.Client
	logger *slog.Logger
}

// New connects to Redis at addr and returns a Cache around the client.
// An empty addr returns a nil Cache, which disables caching entirely.
// Connection failures are logged and also return a nil Cache so the
// caller can run without Redis.
func New(addr string, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "redis_cache"))

	if addr == "" {
		log.Info("redis address not configured, caching disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: dialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, caching disabled",
			slog.String("addr", addr),
			slog.String("error", err.Error()))
		_ = client.Close()
		return nil
	}

	log.Info("redis cache connected", slog.String("addr", addr))
	return &Cache{client: client, logger: log}
}

// NewWithClient wraps an existing Redis client. Used by tests with a
// miniredis-style or fake client address.
func NewWithClient(client *redis.Client, log *slog.Logger) *Cache {
	if client == nil {
		return nil
	}
	if log == nil {
		log = slog.Default()
	}
	return &Cache{
		client: client,
		logger: log.With(slog.String("component", "redis_cache")),
	}
}

// Get returns the cached payload for key and whether it was present.
// All failure modes report a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	log := logger.FromContextOrDefault(ctx, c.logger)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn("cache get failed",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return nil, false
	}

	return payload, true
}

// Set stores payload under key with the given TTL. Failures are logged
// and swallowed; the cache never blocks the request path with an error.
func (c *Cache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}

	log := logger.FromContextOrDefault(ctx, c.logger)

	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		log.Warn("cache set failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

// Close releases the underlying client. Safe on a nil Cache.
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
