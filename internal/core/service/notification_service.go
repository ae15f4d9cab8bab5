package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/brightdesk/user-directory/internal/core/domain"
	"github.com/brightdesk/user-directory/internal/core/ports"
)

// NotificationDispatcher is the interface the service uses to enqueue
// notifications for asynchronous delivery.
type NotificationDispatcher interface {
	Enqueue(n ports.Notification)
	EnqueueBatch(notifications []ports.Notification)
}

// NotificationService fans events out to users through the sharded
// dispatcher. Delivery is asynchronous; SendBulk returns once all
// notifications are enqueued.
type NotificationService struct {
	dispatcher NotificationDispatcher
	log        zerolog.Logger
}

func NewNotificationService(dispatcher NotificationDispatcher, log zerolog.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, log: log}
}

// SendBulk enqueues one notification per user for the given event.
func (s *NotificationService) SendBulk(_ context.Context, users []*domain.User, event string, payload map[string]any) error {
	if len(users) == 0 {
		return fmt.Errorf("send bulk: empty user list")
	}

	notifications := make([]ports.Notification, 0, len(users))
	for _, u := range users {
		notifications = append(notifications, ports.Notification{
			UserID:  u.ID,
			Email:   u.Email,
			Event:   event,
			Payload: payload,
		})
	}

	s.dispatcher.EnqueueBatch(notifications)
	s.log.Info().Str("event", event).Int("count", len(notifications)).Msg("notifications enqueued")
	return nil
}

// DeliveryService hands queued notifications to the external channel.
// It is the processing side of the dispatcher.
type DeliveryService struct {
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewDeliveryService(notifier ports.Notifier, log zerolog.Logger) *DeliveryService {
	return &DeliveryService{notifier: notifier, log: log}
}

// Process delivers a single notification.
func (s *DeliveryService) Process(ctx context.Context, n ports.Notification) error {
	if err := s.notifier.Send(ctx, n); err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}

	s.log.Debug().
		Int64("user_id", n.UserID).
		Str("event", n.Event).
		Msg("notification delivered")
	return nil
}
