// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go provides a Redis-backed cache for rendered JSON responses.
// The public article listing and the dashboard totals are the only
// endpoints hot enough to cache; article detail reads are never cached
// because each one must increment the view counter.
package cache

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// articleKeyPrefix namespaces cached article-list responses.
	articleKeyPrefix = "articles:list:"

	// statsKey holds the cached dashboard totals.
	statsKey = "dashboard:stats"

	// DefaultTTL is the freshness window for cached responses.
	DefaultTTL = time.Minute
)

// ResponseCache stores rendered JSON response bodies in Redis.
// Misses and Redis failures degrade to a direct database read.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given Redis client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// ArticleListKey builds a cache key from the listing query parameters.
// Encode sorts keys, so equivalent queries share an entry.
func ArticleListKey(query url.Values) string {
	return articleKeyPrefix + query.Encode()
}

// StatsKey returns the dashboard totals cache key.
func StatsKey() string {
	return statsKey
}

// Get retrieves a cached response body. Returns (nil, false) on miss.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a response body under the configured TTL.
func (c *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if err := c.client.Set(ctx, key, body, c.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// InvalidateArticles drops every cached article listing and the dashboard
// totals. Called after any article mutation.
func (c *ResponseCache) InvalidateArticles(ctx context.Context) {
	c.deleteByPrefix(ctx, articleKeyPrefix)
	if err := c.client.Del(ctx, statsKey).Err(); err != nil {
		slog.Warn("response cache invalidate error", "key", statsKey, "error", err)
	}
}

// deleteByPrefix removes all keys under the prefix by cursor scanning.
func (c *ResponseCache) deleteByPrefix(ctx context.Context, prefix string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("response cache invalidated", "prefix", prefix, "deleted", deleted)
	}
}
