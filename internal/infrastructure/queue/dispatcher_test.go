package queue

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/brightdesk/user-directory/internal/core/ports"
)

// recordingProcessor captures the order notifications are processed in.
type recordingProcessor struct {
	mu        sync.Mutex
	processed []ports.Notification
	done      chan struct{} // one send per processed notification
}

func newRecordingProcessor(expected int) *recordingProcessor {
	return &recordingProcessor{done: make(chan struct{}, expected)}
}

func (p *recordingProcessor) Process(_ context.Context, n ports.Notification) error {
	p.mu.Lock()
	p.processed = append(p.processed, n)
	p.mu.Unlock()
	p.done <- struct{}{}
	return nil
}

func (p *recordingProcessor) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-p.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for notification %d of %d", i+1, n)
		}
	}
}

func TestDispatcher_ProcessesAllNotifications(t *testing.T) {
	proc := newRecordingProcessor(3)
	d := NewDispatcher(4, proc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.EnqueueBatch([]ports.Notification{
		{UserID: 1, Event: "a"},
		{UserID: 2, Event: "b"},
		{UserID: 3, Event: "c"},
	})
	proc.wait(t, 3)

	proc.mu.Lock()
	defer proc.mu.Unlock()
	if len(proc.processed) != 3 {
		t.Errorf("processed %d notifications, want 3", len(proc.processed))
	}
}

func TestDispatcher_PerUserOrdering(t *testing.T) {
	const perUser = 20
	proc := newRecordingProcessor(perUser * 2)
	d := NewDispatcher(2, proc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	// Interleave two users; each user's sequence must survive intact.
	var batch []ports.Notification
	for i := 0; i < perUser; i++ {
		batch = append(batch,
			ports.Notification{UserID: 10, Payload: map[string]any{"seq": i}},
			ports.Notification{UserID: 11, Payload: map[string]any{"seq": i}},
		)
	}
	d.EnqueueBatch(batch)
	proc.wait(t, perUser*2)

	proc.mu.Lock()
	defer proc.mu.Unlock()
	next := map[int64]int{}
	for _, n := range proc.processed {
		want := next[n.UserID]
		if got := n.Payload["seq"].(int); got != want {
			t.Fatalf("user %d: got seq %d, want %d (ordering violated)", n.UserID, got, want)
		}
		next[n.UserID]++
	}
}

func TestDispatcher_ShardIsStablePerUser(t *testing.T) {
	d := NewDispatcher(8, nil, zerolog.Nop())

	for _, id := range []int64{1, 42, 1<<40 + 7, -5, math.MinInt64, math.MaxInt64} {
		first := d.shardIndex(id)
		for i := 0; i < 5; i++ {
			if got := d.shardIndex(id); got != first {
				t.Fatalf("shardIndex(%d) unstable: %d then %d", id, first, got)
			}
		}
		if first < 0 || first >= 8 {
			t.Errorf("shardIndex(%d) = %d, out of range", id, first)
		}
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, nil, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Errorf("got %d workers, want default %d", len(d.workers), defaultWorkers)
	}
}
