package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/rs/zerolog"

	"github.com/brightdesk/user-directory/internal/core/domain"
	"github.com/brightdesk/user-directory/internal/core/ports"
)

// UserService implements user management use cases on top of the repository.
type UserService struct {
	repo   ports.UserRepository
	ids    *snowflake.Node
	levels *RoleLevelCache
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, ids *snowflake.Node, levels *RoleLevelCache, logger zerolog.Logger) *UserService {
	if levels == nil {
		levels = NewRoleLevelCache(0)
	}
	return &UserService{repo: repo, ids: ids, levels: levels, logger: logger}
}

// CreateUser validates the input, assigns a fresh ID, and persists the user.
// Business-rule violations are returned as a *domain.ValidationError; an
// unknown role or status fails immediately with the enum sentinel.
func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	user := domain.NewUser(input.Email, input.Username, input.FirstName, input.LastName)

	if input.Role != "" {
		role, err := domain.ParseRole(input.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role
	}
	if input.Status != "" {
		status, err := domain.ParseStatus(input.Status)
		if err != nil {
			return nil, err
		}
		user.Status = status
	}
	if input.Metadata != nil {
		user.Metadata = input.Metadata
	}
	user.PasswordHash = input.PasswordHash

	if errs := user.Validate(); len(errs) > 0 {
		return nil, &domain.ValidationError{Fields: errs}
	}

	user.ID = s.ids.Generate().Int64()
	if err := s.repo.Create(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("email", input.Email).Msg("failed to create user")
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("user created")
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// ActiveUsers returns every user whose status is active.
func (s *UserService) ActiveUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.ListByStatus(ctx, domain.StatusActive)
}

// UsersByStatus lists users by a raw status value. Unknown values are a hard
// failure rather than an empty result.
func (s *UserService) UsersByStatus(ctx context.Context, status string) ([]*domain.User, error) {
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByStatus(ctx, parsed)
}

// DeleteUser removes a user after checking that the actor may manage the
// target: the actor must be an admin ranking strictly above the target.
// Hierarchy levels come from the TTL cache, so a recent role change may take
// up to the TTL to be observed.
func (s *UserService) DeleteUser(ctx context.Context, input ports.DeleteUserInput) error {
	actor, err := s.repo.FindByID(ctx, input.ActorID)
	if err != nil {
		return fmt.Errorf("delete user: actor: %w", err)
	}
	target, err := s.repo.FindByID(ctx, input.UserID)
	if err != nil {
		return fmt.Errorf("delete user: target: %w", err)
	}

	if !actor.IsAdmin() || s.levels.Level(actor) <= s.levels.Level(target) {
		s.logger.Warn().
			Int64("actor_id", actor.ID).
			Int64("target_id", target.ID).
			Msg("delete rejected: actor cannot manage target")
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, input.UserID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.levels.Invalidate(input.UserID)
	s.logger.Info().Int64("user_id", input.UserID).Int64("actor_id", input.ActorID).Msg("user deleted")
	return nil
}

// AddRelationship links two stored users under the given relationship type
// and returns the updated source user. Adding an existing link is a no-op.
func (s *UserService) AddRelationship(ctx context.Context, input ports.AddRelationshipInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("add relationship: %w", err)
	}
	other, err := s.repo.FindByID(ctx, input.OtherID)
	if err != nil {
		return nil, fmt.Errorf("add relationship: target: %w", err)
	}

	if err := user.AddRelationship(input.Type, other); err != nil {
		return nil, err
	}
	if err := s.repo.SaveRelationships(ctx, user.ID, user.RelationshipIDs()); err != nil {
		return nil, fmt.Errorf("add relationship: save: %w", err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Int64("other_id", other.ID).
		Str("type", input.Type).
		Msg("relationship added")
	return user, nil
}
