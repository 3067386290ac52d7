package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	countsTTL    = 5 * time.Minute
	countsPrefix = "annotation_counts"
	genKey       = countsPrefix + ":gen"
)

// CountsCache caches the per-video annotation count aggregation in Redis.
// Keys embed a generation counter; invalidation bumps the generation so
// every stale view (admin and per-user alike) falls out at once, without
// scanning the keyspace. Old generations expire via TTL.
type CountsCache struct {
	client *redis.Client
}

// NewCountsCache creates a CountsCache wrapping the given Redis client.
func NewCountsCache(client *redis.Client) *CountsCache {
	return &CountsCache{client: client}
}

// Get returns the cached counts for the scope ("" = the admin all-users
// view). The second return is false on a cache miss.
func (c *CountsCache) Get(ctx context.Context, userID string) (map[string]int64, bool, error) {
	key, err := c.key(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("counts cache get: %w", err)
	}

	var counts map[string]int64
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil, false, fmt.Errorf("counts cache decode: %w", err)
	}
	return counts, true, nil
}

// Set stores the counts for the scope with a short TTL.
func (c *CountsCache) Set(ctx context.Context, userID string, counts map[string]int64) error {
	key, err := c.key(ctx, userID)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("counts cache encode: %w", err)
	}
	return c.client.Set(ctx, key, raw, countsTTL).Err()
}

// Invalidate bumps the generation counter, orphaning every cached view.
func (c *CountsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, genKey).Err(); err != nil {
		return fmt.Errorf("counts cache invalidate: %w", err)
	}
	return nil
}

func (c *CountsCache) key(ctx context.Context, userID string) (string, error) {
	gen, err := c.client.Get(ctx, genKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("counts cache generation: %w", err)
		}
		gen = "0"
	}

	scope := userID
	if scope == "" {
		scope = "all"
	}
	return fmt.Sprintf("%s:%s:%s", countsPrefix, gen, scope), nil
}
