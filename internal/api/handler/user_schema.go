package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type createUserRequest struct {
	Email     string         `json:"email"      validate:"required,email"`
	Username  string         `json:"username"   validate:"required,min=3"`
	FirstName string         `json:"first_name" validate:"required"`
	LastName  string         `json:"last_name"`
	Role      string         `json:"role"       validate:"omitempty,oneof=user moderator admin super_admin"`
	Status    string         `json:"status"     validate:"omitempty,oneof=active inactive suspended deleted"`
	Metadata  map[string]any `json:"metadata"`
}

type addRelationshipRequest struct {
	Type    string `json:"type"     validate:"required"`
	OtherID int64  `json:"other_id" validate:"required"`
}

type batchNotifyRequest struct {
	UserIDs []int64        `json:"user_ids" validate:"required,min=1"`
	Event   string         `json:"event"    validate:"required"`
	Payload map[string]any `json:"payload"`
}

type permissionsResponse struct {
	CanRead           bool            `json:"can_read"`
	CanWrite          bool            `json:"can_write"`
	CanDelete         bool            `json:"can_delete"`
	CanAdmin          bool            `json:"can_admin"`
	CustomPermissions map[string]bool `json:"custom_permissions"`
}

// userResponse mirrors the entity's serialized form, including the derived
// full_name/is_admin/is_active convenience fields.
type userResponse struct {
	ID          int64               `json:"id"`
	Email       string              `json:"email"`
	Username    string              `json:"username"`
	FirstName   string              `json:"first_name"`
	LastName    string              `json:"last_name"`
	FullName    string              `json:"full_name"`
	Role        string              `json:"role"`
	Status      string              `json:"status"`
	Permissions permissionsResponse `json:"permissions"`
	Metadata    map[string]any      `json:"metadata"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	IsAdmin     bool                `json:"is_admin"`
	IsActive    bool                `json:"is_active"`
}

type userListResponse struct {
	Items []userResponse `json:"items"`
	Total int            `json:"total"`
}

type relationshipResponse struct {
	UserID  int64  `json:"user_id"`
	OtherID int64  `json:"other_id"`
	Type    string `json:"type"`
}

type relationshipListResponse struct {
	UserID int64          `json:"user_id"`
	Type   string         `json:"type"`
	Items  []userResponse `json:"items"`
	Total  int            `json:"total"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}
