package ports

import (
	"context"

	"github.com/brightdesk/user-directory/internal/core/domain"
)

// CreateUserInput carries all data needed to create a new user.
// PasswordHash is set by the auth flow only; plain passwords never reach
// the user service.
type CreateUserInput struct {
	Email        string
	Username     string
	FirstName    string
	LastName     string
	Role         string
	Status       string
	Metadata     map[string]any
	PasswordHash string
}

// DeleteUserInput identifies the user to delete and the acting user whose
// management rights are checked.
type DeleteUserInput struct {
	UserID  int64
	ActorID int64
}

// AddRelationshipInput links two users under a named relationship type.
type AddRelationshipInput struct {
	UserID  int64
	OtherID int64
	Type    string
}

// UserService defines use-case operations for users.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	// ActiveUsers returns every user whose status is active.
	ActiveUsers(ctx context.Context) ([]*domain.User, error)
	UsersByStatus(ctx context.Context, status string) ([]*domain.User, error)
	DeleteUser(ctx context.Context, input DeleteUserInput) error
	AddRelationship(ctx context.Context, input AddRelationshipInput) (*domain.User, error)
}
