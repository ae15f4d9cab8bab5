package domain

import (
	"fmt"
	"time"
)

// ToMap serializes the user to a generic string-keyed map. The derived
// fields full_name, is_admin, and is_active are included for consumers'
// convenience; they are not independently settable state. Timestamps
// serialize as RFC 3339.
func (u *User) ToMap() map[string]any {
	var id any
	if u.ID != 0 {
		id = u.ID
	}
	return map[string]any{
		"id":         id,
		"email":      u.Email,
		"username":   u.Username,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"full_name":  u.FullName(),
		"role":       string(u.Role),
		"status":     string(u.Status),
		"permissions": map[string]any{
			"can_read":           u.Permissions.CanRead,
			"can_write":          u.Permissions.CanWrite,
			"can_delete":         u.Permissions.CanDelete,
			"can_admin":          u.Permissions.CanAdmin,
			"custom_permissions": u.Permissions.Custom,
		},
		"metadata":   u.Metadata,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
		"is_admin":   u.IsAdmin(),
		"is_active":  u.IsActive(),
	}
}

// UserFromMap reconstructs a user from a generic string-keyed map. Missing
// keys fall back to defaults (role user, status active, read-only
// permissions, empty metadata). An unrecognized role or status value is a
// hard failure.
func UserFromMap(data map[string]any) (*User, error) {
	u := NewUser(
		stringKey(data, "email"),
		stringKey(data, "username"),
		stringKey(data, "first_name"),
		stringKey(data, "last_name"),
	)
	u.ID = intKey(data, "id")

	if raw, ok := data["role"]; ok {
		role, err := ParseRole(fmt.Sprintf("%v", raw))
		if err != nil {
			return nil, fmt.Errorf("user from map: %w: %v", err, raw)
		}
		u.Role = role
	}
	if raw, ok := data["status"]; ok {
		status, err := ParseStatus(fmt.Sprintf("%v", raw))
		if err != nil {
			return nil, fmt.Errorf("user from map: %w: %v", err, raw)
		}
		u.Status = status
	}

	if perms, ok := data["permissions"].(map[string]any); ok {
		u.Permissions = Permissions{
			CanRead:   boolKey(perms, "can_read", true),
			CanWrite:  boolKey(perms, "can_write", false),
			CanDelete: boolKey(perms, "can_delete", false),
			CanAdmin:  boolKey(perms, "can_admin", false),
			Custom:    customPermissions(perms["custom_permissions"]),
		}
	}
	if meta, ok := data["metadata"].(map[string]any); ok {
		copied := make(map[string]any, len(meta))
		for k, v := range meta {
			copied[k] = v
		}
		u.Metadata = copied
	}

	if ts, ok := parseTimeKey(data, "created_at"); ok {
		u.CreatedAt = ts
	}
	if ts, ok := parseTimeKey(data, "updated_at"); ok {
		u.UpdatedAt = ts
	}

	return u, nil
}

func stringKey(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// intKey accepts the numeric types a map round-trip can produce: int64 from
// direct construction, float64 after a JSON pass.
func intKey(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func boolKey(m map[string]any, key string, fallback bool) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return fallback
}

func customPermissions(raw any) map[string]bool {
	switch v := raw.(type) {
	case map[string]bool:
		out := make(map[string]bool, len(v))
		for k, b := range v {
			out[k] = b
		}
		return out
	case map[string]any:
		out := make(map[string]bool, len(v))
		for k, val := range v {
			if b, ok := val.(bool); ok {
				out[k] = b
			}
		}
		return out
	}
	return map[string]bool{}
}

func parseTimeKey(m map[string]any, key string) (time.Time, bool) {
	s, ok := m[key].(string)
	if !ok {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
