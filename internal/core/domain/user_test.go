package domain

import (
	"testing"
)

func testUser(id int64, role Role) *User {
	u := NewUser("a@b.com", "alice", "Alice", "Smith")
	u.ID = id
	u.Role = role
	return u
}

// ---------------------------------------------------------------------------
// Names, roles, statuses
// ---------------------------------------------------------------------------

func TestUser_FullName(t *testing.T) {
	tests := []struct {
		first, last, want string
	}{
		{"Alice", "Smith", "Alice Smith"},
		{"Alice", "", "Alice"},
		{"", "Smith", "Smith"},
		{"", "", ""},
	}
	for _, tc := range tests {
		u := NewUser("a@b.com", "alice", tc.first, tc.last)
		if got := u.FullName(); got != tc.want {
			t.Errorf("FullName(%q, %q) = %q, want %q", tc.first, tc.last, got, tc.want)
		}
	}
}

func TestRole_HierarchyLevel(t *testing.T) {
	tests := []struct {
		role Role
		want int
	}{
		{RoleUser, 1},
		{RoleModerator, 2},
		{RoleAdmin, 3},
		{RoleSuperAdmin, 4},
		{Role("intern"), 0},
	}
	for _, tc := range tests {
		if got := tc.role.HierarchyLevel(); got != tc.want {
			t.Errorf("HierarchyLevel(%q) = %d, want %d", tc.role, got, tc.want)
		}
	}
}

func TestParseRole_RejectsUnknown(t *testing.T) {
	if _, err := ParseRole("root"); err != ErrInvalidRole {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
	role, err := ParseRole("moderator")
	if err != nil || role != RoleModerator {
		t.Errorf("ParseRole(moderator) = (%q, %v)", role, err)
	}
}

func TestParseStatus_RejectsUnknown(t *testing.T) {
	if _, err := ParseStatus("banned"); err != ErrInvalidStatus {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	status, err := ParseStatus("suspended")
	if err != nil || status != StatusSuspended {
		t.Errorf("ParseStatus(suspended) = (%q, %v)", status, err)
	}
}

func TestUser_IsAdminAndIsActive(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleSuperAdmin} {
		if !testUser(1, role).IsAdmin() {
			t.Errorf("role %q should be admin", role)
		}
	}
	for _, role := range []Role{RoleUser, RoleModerator} {
		if testUser(1, role).IsAdmin() {
			t.Errorf("role %q should not be admin", role)
		}
	}

	u := testUser(1, RoleUser)
	if !u.IsActive() {
		t.Error("new user should be active")
	}
	u.Status = StatusSuspended
	if u.IsActive() {
		t.Error("suspended user should not be active")
	}
}

// ---------------------------------------------------------------------------
// Permissions
// ---------------------------------------------------------------------------

func TestUser_HasPermission_AdminBypassesEverything(t *testing.T) {
	u := testUser(1, RoleAdmin)
	u.Permissions = Permissions{Custom: map[string]bool{}} // all flags false

	for _, name := range []string{"read", "write", "delete", "admin", "export_reports", "anything"} {
		if !u.HasPermission(name) {
			t.Errorf("admin should have permission %q regardless of flags", name)
		}
	}
}

func TestUser_HasPermission_StandardFlags(t *testing.T) {
	u := testUser(1, RoleUser)
	u.Permissions = Permissions{CanRead: true, CanWrite: true, Custom: map[string]bool{}}

	if !u.HasPermission("read") || !u.HasPermission("write") {
		t.Error("expected read and write permissions")
	}
	if u.HasPermission("delete") || u.HasPermission("admin") {
		t.Error("delete and admin flags are off")
	}
}

func TestUser_HasPermission_CustomDefaultsFalse(t *testing.T) {
	u := testUser(1, RoleModerator)
	u.Permissions.Custom = map[string]bool{"export_reports": true, "purge_cache": false}

	if !u.HasPermission("export_reports") {
		t.Error("expected custom permission export_reports")
	}
	if u.HasPermission("purge_cache") {
		t.Error("purge_cache is explicitly false")
	}
	if u.HasPermission("unknown_permission") {
		t.Error("absent custom permission must default to false")
	}
}

func TestDefaultPermissions_ReadOnly(t *testing.T) {
	p := DefaultPermissions()
	if !p.CanRead || p.CanWrite || p.CanDelete || p.CanAdmin {
		t.Errorf("default permissions must be read-only, got %+v", p)
	}
}

// ---------------------------------------------------------------------------
// Management hierarchy
// ---------------------------------------------------------------------------

func TestUser_CanManage(t *testing.T) {
	tests := []struct {
		name    string
		actor   Role
		subject Role
		want    bool
	}{
		{"super admin manages admin", RoleSuperAdmin, RoleAdmin, true},
		{"admin manages moderator", RoleAdmin, RoleModerator, true},
		{"admin manages user", RoleAdmin, RoleUser, true},
		{"admin cannot manage equal rank", RoleAdmin, RoleAdmin, false},
		{"admin cannot manage higher rank", RoleAdmin, RoleSuperAdmin, false},
		// Non-admins never manage, even with a higher raw level.
		{"moderator cannot manage user", RoleModerator, RoleUser, false},
		{"user cannot manage anyone", RoleUser, RoleUser, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actor := testUser(1, tc.actor)
			subject := testUser(2, tc.subject)
			if got := actor.CanManage(subject); got != tc.want {
				t.Errorf("%s.CanManage(%s) = %v, want %v", tc.actor, tc.subject, got, tc.want)
			}
		})
	}
}

func TestUser_CanManage_NilSubject(t *testing.T) {
	if testUser(1, RoleSuperAdmin).CanManage(nil) {
		t.Error("managing nil must be false")
	}
}

// ---------------------------------------------------------------------------
// Equality and relationships
// ---------------------------------------------------------------------------

func TestUser_Equal(t *testing.T) {
	a := testUser(7, RoleUser)
	b := testUser(7, RoleAdmin) // same ID, different everything else
	c := testUser(8, RoleUser)
	unsaved := testUser(0, RoleUser)

	if !a.Equal(b) {
		t.Error("users with the same assigned ID must be equal")
	}
	if a.Equal(c) {
		t.Error("users with different IDs must not be equal")
	}
	if unsaved.Equal(unsaved) {
		t.Error("a user without an assigned ID is never equal, even to itself")
	}
}

func TestUser_AddRelationship_Idempotent(t *testing.T) {
	u := testUser(1, RoleUser)
	friend := testUser(2, RoleUser)

	if err := u.AddRelationship("friends", friend); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := u.AddRelationship("friends", friend); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(u.Relationships("friends")); got != 1 {
		t.Errorf("expected 1 relationship after duplicate add, got %d", got)
	}
}

func TestUser_AddRelationship_RequiresAssignedID(t *testing.T) {
	u := testUser(1, RoleUser)
	unsaved := testUser(0, RoleUser)

	if err := u.AddRelationship("friends", unsaved); err != ErrMissingID {
		t.Errorf("expected ErrMissingID, got %v", err)
	}
	if err := u.AddRelationship("friends", nil); err != ErrMissingID {
		t.Errorf("expected ErrMissingID for nil target, got %v", err)
	}
}

func TestUser_Relationships_PreservesOrderAndType(t *testing.T) {
	u := testUser(1, RoleAdmin)
	first := testUser(2, RoleUser)
	second := testUser(3, RoleUser)

	_ = u.AddRelationship("manages", first)
	_ = u.AddRelationship("manages", second)
	_ = u.AddRelationship("mentors", second)

	managed := u.Relationships("manages")
	if len(managed) != 2 || managed[0].ID != 2 || managed[1].ID != 3 {
		t.Errorf("unexpected manages bucket: %+v", managed)
	}
	if got := len(u.Relationships("mentors")); got != 1 {
		t.Errorf("expected 1 mentor relationship, got %d", got)
	}
	if got := len(u.Relationships("blocked")); got != 0 {
		t.Errorf("unknown type must yield empty slice, got %d entries", got)
	}
}
