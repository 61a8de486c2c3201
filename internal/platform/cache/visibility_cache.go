// Package cache provides the optional redis-backed cache for per-user
// visibility flags. The admin console reads flags for every user of a
// company; caching them keeps the matrix endpoint off the database between
// toggles.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

// VisibilityCache caches one user's visibility flags under a prefixed key.
// A nil *VisibilityCache is valid and disables caching, so callers never
// need to branch on whether redis is configured.
type VisibilityCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewVisibilityCache connects to redis and verifies the connection. An empty
// URL returns a nil cache and no error: caching is opt-in.
func NewVisibilityCache(redisURL string) (*VisibilityCache, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &VisibilityCache{client: client, prefix: "visibility:", ttl: defaultTTL}, nil
}

// NewVisibilityCacheWithClient creates a cache from an existing client.
func NewVisibilityCacheWithClient(client *redis.Client) *VisibilityCache {
	return &VisibilityCache{client: client, prefix: "visibility:", ttl: defaultTTL}
}

func (c *VisibilityCache) key(userID string) string {
	return c.prefix + userID
}

// Get returns the cached flags for a user and whether they were present.
// Cache errors degrade to a miss; the caller falls through to the database.
func (c *VisibilityCache) Get(ctx context.Context, userID string) (domain.VisibilityFlags, bool) {
	if c == nil || c.client == nil {
		return domain.VisibilityFlags{}, false
	}
	raw, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		return domain.VisibilityFlags{}, false
	}
	var flags domain.VisibilityFlags
	if err := json.Unmarshal(raw, &flags); err != nil {
		return domain.VisibilityFlags{}, false
	}
	return flags, true
}

// Set stores a user's flags with the cache TTL. Errors are ignored; the
// cache is an optimization, not a source of truth.
func (c *VisibilityCache) Set(ctx context.Context, userID string, flags domain.VisibilityFlags) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(flags)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key(userID), raw, c.ttl).Err()
}

// Invalidate drops a user's cached flags after a visibility toggle.
func (c *VisibilityCache) Invalidate(ctx context.Context, userID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(userID)).Err()
}
