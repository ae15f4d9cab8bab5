package queue

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/brightdesk/user-directory/internal/api/metrics"
	"github.com/brightdesk/user-directory/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes notifications to a fixed set of workers by sharding on
// the recipient's user ID, guaranteeing per-user delivery ordering.
type Dispatcher struct {
	workers   []chan ports.Notification
	processor ports.NotificationProcessor
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, processor ports.NotificationProcessor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan ports.Notification, numWorkers),
		processor: processor,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a notification to the worker responsible for its user.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(n ports.Notification) {
	idx := d.shardIndex(n.UserID)
	d.workers[idx] <- n
	metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// EnqueueBatch enqueues multiple notifications preserving per-user ordering.
func (d *Dispatcher) EnqueueBatch(notifications []ports.Notification) {
	for _, n := range notifications {
		d.Enqueue(n)
	}
}

// shardIndex maps a user ID deterministically to a worker index. The
// unsigned conversion keeps the modulo in range for every int64 value,
// including math.MinInt64, which has no positive counterpart.
func (d *Dispatcher) shardIndex(userID int64) int {
	return int(uint64(userID) % uint64(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Notification) {
	workerLabel := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotificationQueueDepth.WithLabelValues(workerLabel).Set(float64(len(ch)))
			if err := d.processor.Process(ctx, n); err != nil {
				metrics.NotificationErrorsTotal.WithLabelValues(n.Event).Inc()
				d.log.Error().Err(err).
					Int64("user_id", n.UserID).
					Str("event", n.Event).
					Int("worker_id", id).
					Msg("notification delivery failed")
				continue
			}
			metrics.NotificationsSentTotal.WithLabelValues(n.Event).Inc()
		}
	}
}
