package app

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/brightdesk/user-directory/internal/core/domain"
	"github.com/brightdesk/user-directory/internal/core/ports"
)

const batchEventComplete = "batch_processing_complete"

// ListCache caches the active-user listing between requests.
type ListCache interface {
	Get(ctx context.Context) ([]*domain.User, bool)
	Set(ctx context.Context, users []*domain.User) error
}

// Initializer prepares a storage backend for use (indexes, migrations).
type Initializer interface {
	EnsureIndexes(ctx context.Context) error
}

// Application wires the user and notification services into the high-level
// workflows the API exposes: cached active-user listings and batch
// notification runs.
type Application struct {
	users         ports.UserService
	notifications ports.NotificationService
	cache         ListCache
	storage       Initializer
	closers       []io.Closer
	log           zerolog.Logger
}

func New(
	users ports.UserService,
	notifications ports.NotificationService,
	cache ListCache,
	storage Initializer,
	log zerolog.Logger,
) *Application {
	return &Application{
		users:         users,
		notifications: notifications,
		cache:         cache,
		storage:       storage,
		log:           log,
	}
}

// AddCloser registers a resource to be released during Cleanup, in reverse
// registration order.
func (a *Application) AddCloser(c io.Closer) {
	a.closers = append(a.closers, c)
}

// Initialize prepares storage for use. Connection establishment itself
// happens before the Application is constructed.
func (a *Application) Initialize(ctx context.Context) error {
	if a.storage != nil {
		if err := a.storage.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("initialize application: %w", err)
		}
	}
	a.log.Info().Msg("application initialized")
	return nil
}

// ActiveUsers returns all active users, served from the cache when a fresh
// entry exists. A cache write failure is logged but does not fail the read.
func (a *Application) ActiveUsers(ctx context.Context) ([]*domain.User, error) {
	if users, ok := a.cache.Get(ctx); ok {
		return users, nil
	}

	users, err := a.users.ActiveUsers(ctx)
	if err != nil {
		return nil, err
	}

	if err := a.cache.Set(ctx, users); err != nil {
		a.log.Warn().Err(err).Msg("failed to cache active users")
	}
	return users, nil
}

// ProcessUserBatch loads each user, drops the missing and inactive ones with
// a warning, and fans the event out to the rest. Returns how many users were
// notified. An entirely-skipped batch is not an error.
func (a *Application) ProcessUserBatch(ctx context.Context, userIDs []int64, event string, payload map[string]any) (int, error) {
	if event == "" {
		event = batchEventComplete
	}

	users := make([]*domain.User, 0, len(userIDs))
	for _, id := range userIDs {
		user, err := a.users.GetUser(ctx, id)
		if err != nil {
			a.log.Warn().Int64("user_id", id).Err(err).Msg("skipping user in batch")
			continue
		}
		if !user.IsActive() {
			a.log.Warn().Int64("user_id", id).Str("status", string(user.Status)).Msg("skipping inactive user in batch")
			continue
		}
		users = append(users, user)
	}

	if len(users) == 0 {
		a.log.Info().Str("event", event).Msg("batch contained no notifiable users")
		return 0, nil
	}

	merged := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		merged[k] = v
	}
	merged["batch_size"] = len(users)

	if err := a.notifications.SendBulk(ctx, users, event, merged); err != nil {
		return 0, err
	}
	return len(users), nil
}

// Run executes the example workflow: list active users, then notify the
// first ten active admins.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Initialize(ctx); err != nil {
		return err
	}

	active, err := a.ActiveUsers(ctx)
	if err != nil {
		return fmt.Errorf("run application: %w", err)
	}
	a.log.Info().Int("count", len(active)).Msg("found active users")

	adminIDs := make([]int64, 0, 10)
	for _, u := range active {
		if u.Role == domain.RoleAdmin {
			adminIDs = append(adminIDs, u.ID)
			if len(adminIDs) == 10 {
				break
			}
		}
	}
	if len(adminIDs) == 0 {
		return nil
	}

	_, err = a.ProcessUserBatch(ctx, adminIDs, batchEventComplete, nil)
	return err
}

// Cleanup releases registered resources in reverse order.
func (a *Application) Cleanup() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn().Err(err).Msg("cleanup: close failed")
		}
	}
	a.log.Info().Msg("application cleanup completed")
}
