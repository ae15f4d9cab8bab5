package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brightdesk/user-directory/internal/core/ports"
)

const notificationStream = "user.notifications"

// message is the wire form appended to the notification stream.
type message struct {
	UserID    int64          `json:"user_id"`
	Email     string         `json:"email"`
	Event     string         `json:"event"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// StreamPublisher delivers notifications by appending them to a Redis
// stream. Downstream consumers (mailers, push gateways) read from the
// stream; this service only publishes.
type StreamPublisher struct {
	client *redis.Client
}

func NewStreamPublisher(client *redis.Client) *StreamPublisher {
	return &StreamPublisher{client: client}
}

// Send appends a single notification to the stream.
func (p *StreamPublisher) Send(ctx context.Context, n ports.Notification) error {
	msg := message{
		UserID:    n.UserID,
		Email:     n.Email,
		Event:     n.Event,
		Payload:   n.Payload,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("publish notification: marshal: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: notificationStream,
		Values: map[string]any{"notification": data},
	}
	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// Close is a no-op: the underlying Redis client is shared and closed by the
// owner of the connection.
func (p *StreamPublisher) Close() error {
	return nil
}
