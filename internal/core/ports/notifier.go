package ports

import (
	"context"

	"github.com/brightdesk/user-directory/internal/core/domain"
)

// Notification is a single message addressed to one user.
type Notification struct {
	UserID  int64
	Email   string
	Event   string
	Payload map[string]any
}

// Notifier delivers a notification to its external channel.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
	Close() error
}

// NotificationProcessor delivers a single queued notification. Implemented
// by the core service; called by the queue workers.
type NotificationProcessor interface {
	Process(ctx context.Context, n Notification) error
}

// NotificationService fans a single event out to many users.
type NotificationService interface {
	SendBulk(ctx context.Context, users []*domain.User, event string, payload map[string]any) error
}
