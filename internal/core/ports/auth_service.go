package ports

import (
	"context"

	"github.com/brightdesk/user-directory/internal/core/domain"
)

// RegisterInput carries the data needed to register a new account.
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
