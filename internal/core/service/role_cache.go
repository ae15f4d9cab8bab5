package service

import (
	"sync"
	"time"

	"github.com/brightdesk/user-directory/internal/core/domain"
)

const defaultRoleLevelTTL = 60 * time.Second

type roleLevelEntry struct {
	level     int
	expiresAt time.Time
}

// RoleLevelCache memoizes computed role hierarchy levels per user ID with a
// short TTL. Roles rarely change mid-process, so callers accept staleness up
// to the TTL window; Invalidate drops an entry early when a role does change.
type RoleLevelCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[int64]roleLevelEntry
}

// NewRoleLevelCache creates a cache with the given TTL.
// A TTL <= 0 falls back to the 60s default.
func NewRoleLevelCache(ttl time.Duration) *RoleLevelCache {
	if ttl <= 0 {
		ttl = defaultRoleLevelTTL
	}
	return &RoleLevelCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[int64]roleLevelEntry),
	}
}

// Level returns the user's hierarchy level, served from cache when a fresh
// entry exists. Users without an assigned ID are computed directly.
func (c *RoleLevelCache) Level(u *domain.User) int {
	if u.ID == 0 {
		return u.Role.HierarchyLevel()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if entry, ok := c.entries[u.ID]; ok && now.Before(entry.expiresAt) {
		return entry.level
	}

	level := u.Role.HierarchyLevel()
	c.entries[u.ID] = roleLevelEntry{level: level, expiresAt: now.Add(c.ttl)}
	return level
}

// Invalidate drops the cached level for the given user ID.
func (c *RoleLevelCache) Invalidate(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}
