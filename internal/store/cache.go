package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nikhilv/blogfeed/internal/models"
)

const feedCacheTTL = 30 * time.Second

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// FeedCache caches feed pages in Redis. Keys embed a generation counter;
// invalidation bumps the counter so stale pages simply expire. Cache
// failures are treated as misses so a Redis outage never fails a request.
type FeedCache struct {
	rdb *redis.Client
}

func NewFeedCache(rdb *redis.Client) *FeedCache {
	return &FeedCache{rdb: rdb}
}

func (c *FeedCache) pageKey(ctx context.Context, page int) string {
	gen, err := c.rdb.Get(ctx, "feed:gen").Int64()
	if err != nil {
		gen = 0
	}
	return fmt.Sprintf("feed:%d:page:%d", gen, page)
}

// Get returns the cached page, or nil on a miss.
func (c *FeedCache) Get(ctx context.Context, page int) *models.PostPage {
	raw, err := c.rdb.Get(ctx, c.pageKey(ctx, page)).Bytes()
	if err != nil {
		return nil
	}
	var pg models.PostPage
	if err := json.Unmarshal(raw, &pg); err != nil {
		return nil
	}
	return &pg
}

// Set stores a page under the current generation.
func (c *FeedCache) Set(ctx context.Context, page int, pg *models.PostPage) {
	raw, err := json.Marshal(pg)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, c.pageKey(ctx, page), raw, feedCacheTTL)
}

// Invalidate starts a new generation, orphaning every cached page.
func (c *FeedCache) Invalidate(ctx context.Context) {
	c.rdb.Incr(ctx, "feed:gen")
}
