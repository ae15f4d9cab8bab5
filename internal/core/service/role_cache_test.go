package service

import (
	"testing"
	"time"

	"github.com/brightdesk/user-directory/internal/core/domain"
)

func TestRoleLevelCache_ServesStaleWithinTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewRoleLevelCache(60 * time.Second)
	cache.now = func() time.Time { return now }

	u := storedUser(1, "a@example.com", domain.RoleModerator, domain.StatusActive)
	if got := cache.Level(u); got != 2 {
		t.Fatalf("Level = %d, want 2", got)
	}

	// Role changes but the cached level survives within the TTL window.
	u.Role = domain.RoleAdmin
	now = now.Add(59 * time.Second)
	if got := cache.Level(u); got != 2 {
		t.Errorf("Level inside TTL = %d, want stale 2", got)
	}
}

func TestRoleLevelCache_RecomputesAfterExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewRoleLevelCache(60 * time.Second)
	cache.now = func() time.Time { return now }

	u := storedUser(1, "a@example.com", domain.RoleModerator, domain.StatusActive)
	cache.Level(u)

	u.Role = domain.RoleAdmin
	now = now.Add(61 * time.Second)
	if got := cache.Level(u); got != 3 {
		t.Errorf("Level after expiry = %d, want recomputed 3", got)
	}
}

func TestRoleLevelCache_InvalidateDropsEntry(t *testing.T) {
	cache := NewRoleLevelCache(time.Hour)

	u := storedUser(1, "a@example.com", domain.RoleModerator, domain.StatusActive)
	cache.Level(u)
	cache.Invalidate(u.ID)

	u.Role = domain.RoleSuperAdmin
	if got := cache.Level(u); got != 4 {
		t.Errorf("Level after invalidation = %d, want 4", got)
	}
}

func TestRoleLevelCache_UnsavedUserBypassesCache(t *testing.T) {
	cache := NewRoleLevelCache(time.Hour)

	u := domain.NewUser("a@example.com", "anon", "A", "")
	u.Role = domain.RoleAdmin
	if got := cache.Level(u); got != 3 {
		t.Fatalf("Level = %d, want 3", got)
	}

	u.Role = domain.RoleUser
	if got := cache.Level(u); got != 1 {
		t.Errorf("unsaved user must not be cached: Level = %d, want 1", got)
	}
}
