package domain

import (
	"strings"
	"time"
)

// Role is the privilege tier assigned to a user. Roles form a total order;
// HierarchyLevel exposes the numeric rank for comparisons.
type Role string

const (
	RoleUser       Role = "user"
	RoleModerator  Role = "moderator"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// roleLevels maps each role to its privilege rank.
var roleLevels = map[Role]int{
	RoleUser:       1,
	RoleModerator:  2,
	RoleAdmin:      3,
	RoleSuperAdmin: 4,
}

// ParseRole converts a raw string into a Role.
// Unknown values are a hard failure.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleLevels[r]; !ok {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Valid reports whether the role is one of the enumerated values.
func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// HierarchyLevel returns the numeric privilege rank of the role.
// Unrecognized roles rank 0, below every valid role.
func (r Role) HierarchyLevel() int {
	return roleLevels[r]
}

// Status is the lifecycle state of a user account. Statuses are a flat
// enumeration: the entity does not restrict transitions between them.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
	StatusDeleted   Status = "deleted"
)

var validStatuses = map[Status]struct{}{
	StatusActive:    {},
	StatusInactive:  {},
	StatusSuspended: {},
	StatusDeleted:   {},
}

// ParseStatus converts a raw string into a Status.
// Unknown values are a hard failure.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := validStatuses[st]; !ok {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Valid reports whether the status is one of the enumerated values.
func (s Status) Valid() bool {
	_, ok := validStatuses[s]
	return ok
}

// Permissions holds the four standard permission flags plus an open map of
// named custom permissions.
type Permissions struct {
	CanRead   bool            `json:"can_read" bson:"can_read"`
	CanWrite  bool            `json:"can_write" bson:"can_write"`
	CanDelete bool            `json:"can_delete" bson:"can_delete"`
	CanAdmin  bool            `json:"can_admin" bson:"can_admin"`
	Custom    map[string]bool `json:"custom_permissions" bson:"custom_permissions"`
}

// DefaultPermissions returns the read-only permission set new users start with.
func DefaultPermissions() Permissions {
	return Permissions{CanRead: true, Custom: map[string]bool{}}
}

// User is the core domain entity: identity, role, status, permissions, and
// free-form metadata. It is a plain in-memory value; callers serialize
// concurrent access externally.
type User struct {
	// ID is the unique numeric identifier. Zero means not yet persisted.
	// Equality between users is defined solely by assigned IDs.
	ID           int64          `json:"id"`
	Email        string         `json:"email"`
	Username     string         `json:"username"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	PasswordHash string         `json:"-"`
	Role         Role           `json:"role"`
	Status       Status         `json:"status"`
	Permissions  Permissions    `json:"permissions"`
	Metadata     map[string]any `json:"metadata"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	relationships map[string][]*User
}

// NewUser constructs a user with defaults: role user, status active,
// read-only permissions, empty metadata, timestamps set to now (UTC).
// UpdatedAt is not auto-refreshed by any mutator; it is caller managed.
func NewUser(email, username, firstName, lastName string) *User {
	now := time.Now().UTC()
	return &User{
		Email:       email,
		Username:    username,
		FirstName:   firstName,
		LastName:    lastName,
		Role:        RoleUser,
		Status:      StatusActive,
		Permissions: DefaultPermissions(),
		Metadata:    map[string]any{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// FullName returns first and last name joined by a single space, with
// surrounding whitespace trimmed.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin reports whether the user holds the admin or super_admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// IsActive reports whether the user's status is active.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// HasPermission reports whether the user holds the named permission.
// Admins bypass all permission checks. The four standard names resolve to
// their flags; anything else is looked up in the custom map, absent = false.
func (u *User) HasPermission(name string) bool {
	if u.IsAdmin() {
		return true
	}
	switch name {
	case "read":
		return u.Permissions.CanRead
	case "write":
		return u.Permissions.CanWrite
	case "delete":
		return u.Permissions.CanDelete
	case "admin":
		return u.Permissions.CanAdmin
	}
	return u.Permissions.Custom[name]
}

// CanManage reports whether this user may manage other: the user must be an
// admin and rank strictly above other. A non-admin never manages anyone,
// regardless of raw hierarchy levels.
func (u *User) CanManage(other *User) bool {
	if other == nil {
		return false
	}
	return u.IsAdmin() && u.Role.HierarchyLevel() > other.Role.HierarchyLevel()
}

// Equal reports whether both users carry the same assigned ID. Users without
// an assigned ID are never equal to anything, including themselves.
func (u *User) Equal(other *User) bool {
	if other == nil {
		return false
	}
	return u.ID != 0 && u.ID == other.ID
}

// AddRelationship records a non-owning link to another user under the given
// relationship type. Adding the same (type, target) pair twice is a no-op.
// The target must have an assigned ID, since deduplication is by identity.
func (u *User) AddRelationship(relType string, other *User) error {
	if other == nil || other.ID == 0 {
		return ErrMissingID
	}
	for _, existing := range u.relationships[relType] {
		if existing.Equal(other) {
			return nil
		}
	}
	if u.relationships == nil {
		u.relationships = map[string][]*User{}
	}
	u.relationships[relType] = append(u.relationships[relType], other)
	return nil
}

// Relationships returns the ordered users linked under the given type.
// Unknown types yield an empty slice.
func (u *User) Relationships(relType string) []*User {
	return u.relationships[relType]
}

// RelationshipIDs returns the linked user IDs per relationship type,
// preserving insertion order. Used by the persistence layer; the entity
// itself only ever holds object references.
func (u *User) RelationshipIDs() map[string][]int64 {
	if len(u.relationships) == 0 {
		return map[string][]int64{}
	}
	out := make(map[string][]int64, len(u.relationships))
	for relType, linked := range u.relationships {
		ids := make([]int64, 0, len(linked))
		for _, other := range linked {
			ids = append(ids, other.ID)
		}
		out[relType] = ids
	}
	return out
}
