package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brightdesk/user-directory/internal/api/metrics"
	"github.com/brightdesk/user-directory/internal/core/domain"
)

const (
	activeUsersKey  = "users:active"
	defaultCacheTTL = 5 * time.Minute
)

// ActiveUserCache caches the active-user listing in Redis as a JSON blob.
// Entries expire after the configured TTL; a stale read within the window is
// acceptable to callers.
type ActiveUserCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewActiveUserCache creates the cache with the given TTL.
// A TTL <= 0 falls back to the 5 minute default.
func NewActiveUserCache(client *redis.Client, ttl time.Duration) *ActiveUserCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ActiveUserCache{client: client, ttl: ttl}
}

// Get retrieves the cached user list. Returns (nil, false) on a miss or any
// deserialization error.
func (c *ActiveUserCache) Get(ctx context.Context) ([]*domain.User, bool) {
	data, err := c.client.Get(ctx, activeUsersKey).Bytes()
	if err != nil {
		metrics.CacheRequestsTotal.WithLabelValues("active_users", "miss").Inc()
		return nil, false
	}

	var users []*domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		metrics.CacheRequestsTotal.WithLabelValues("active_users", "miss").Inc()
		return nil, false
	}

	metrics.CacheRequestsTotal.WithLabelValues("active_users", "hit").Inc()
	return users, true
}

// Set stores the user list, replacing any previous entry.
func (c *ActiveUserCache) Set(ctx context.Context, users []*domain.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("cache active users: marshal: %w", err)
	}
	if err := c.client.Set(ctx, activeUsersKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache active users: %w", err)
	}
	return nil
}

// Invalidate drops the cached listing, forcing the next read to go to the
// repository.
func (c *ActiveUserCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, activeUsersKey).Err()
}
