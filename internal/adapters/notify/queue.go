package notify

import (
	"context"
	"sync"

	"github.com/okian/dinger/internal/domain/model"
	"github.com/okian/dinger/pkg/metrics"
)

// Default queue configuration constants.
const defaultQueueCapacity = 256

// Queue is a bounded, non-blocking outbox of alerts.
type Queue struct {
	alerts chan model.Alert
	mu     sync.RWMutex
	closed bool
}

// NewQueue creates a queue holding at most capacity alerts.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	metrics.UpdateNotifyQueueSize(0)
	return &Queue{alerts: make(chan model.Alert, capacity)}
}

// Enqueue adds a without blocking. It returns false when the queue is
// full, closed, or ctx is done.
func (q *Queue) Enqueue(ctx context.Context, a model.Alert) bool { //nolint:gocritic // hugeParam: Alert must be passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed || ctx.Err() != nil {
		metrics.RecordNotificationDropped()
		return false
	}
	select {
	case q.alerts <- a:
		metrics.UpdateNotifyQueueSize(len(q.alerts))
		return true
	default:
		metrics.RecordNotificationDropped()
		return false
	}
}

// Dequeue returns the receive side. It is closed by Close once drained.
func (q *Queue) Dequeue() <-chan model.Alert { return q.alerts }

// Len returns the number of queued alerts.
func (q *Queue) Len() int { return len(q.alerts) }

// Close stops accepting alerts. Queued alerts remain readable.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.alerts)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *Queue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
