// Cache tests require a running Redis instance and skip when none is
// reachable.
package cache

import (
	"context"
	"net/url"
	"os"
	"testing"
	"time"
)

func testCache(t *testing.T) *ResponseCache {
	t.Helper()

	addr := os.Getenv("REDIS_HOST")
	if addr == "" {
		addr = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client, err := Connect(addr+":"+port, os.Getenv("REDIS_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return NewResponseCache(client, time.Minute)
}

func TestArticleListKeyIsOrderIndependent(t *testing.T) {
	a, _ := url.ParseQuery("page=2&limit=5&tags=go")
	b, _ := url.ParseQuery("tags=go&page=2&limit=5")

	if ArticleListKey(a) != ArticleListKey(b) {
		t.Errorf("equivalent queries should share a key: %q vs %q",
			ArticleListKey(a), ArticleListKey(b))
	}
}

func TestResponseCacheRoundTrip(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()

	q, _ := url.ParseQuery("page=1&limit=10")
	key := ArticleListKey(q)
	body := []byte(`{"success":true,"data":[]}`)

	c.Set(ctx, key, body)

	got, ok := c.Get(ctx, key)
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if string(got) != string(body) {
		t.Errorf("body: got %q, want %q", got, body)
	}
}

func TestResponseCacheMiss(t *testing.T) {
	c := testCache(t)

	if _, ok := c.Get(context.Background(), "articles:list:no-such-key"); ok {
		t.Error("expected a miss for an unknown key")
	}
}

func TestInvalidateArticles(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()

	q1, _ := url.ParseQuery("page=1")
	q2, _ := url.ParseQuery("page=2")
	c.Set(ctx, ArticleListKey(q1), []byte("a"))
	c.Set(ctx, ArticleListKey(q2), []byte("b"))
	c.Set(ctx, StatsKey(), []byte("c"))

	c.InvalidateArticles(ctx)

	if _, ok := c.Get(ctx, ArticleListKey(q1)); ok {
		t.Error("listing page 1 should be invalidated")
	}
	if _, ok := c.Get(ctx, ArticleListKey(q2)); ok {
		t.Error("listing page 2 should be invalidated")
	}
	if _, ok := c.Get(ctx, StatsKey()); ok {
		t.Error("dashboard stats should be invalidated")
	}
}
