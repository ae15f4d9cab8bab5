package ports

import (
	"context"

	"github.com/brightdesk/user-directory/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// ListByStatus returns all users with the given status, ordered by ID.
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.User, error)
	// SaveRelationships replaces the stored relationship ID lists for a user.
	SaveRelationships(ctx context.Context, userID int64, rels map[string][]int64) error
	Delete(ctx context.Context, id int64) error
}
