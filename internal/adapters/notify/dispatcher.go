package notify

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/dinger/internal/domain/model"
	"github.com/okian/dinger/pkg/logger"
	"github.com/okian/dinger/pkg/metrics"
)

// Default dispatcher configuration constants.
const defaultSendTimeout = 15 * time.Second

// Dispatcher delivers queued alerts one at a time on its own goroutine,
// so a slow notifier never holds up admission. Failures are logged and
// counted, never retried.
type Dispatcher struct {
	notifier  Notifier
	queue     *Queue
	queueSize int
	timeout   time.Duration
	logger    logger.Logger

	start   sync.Once
	started atomic.Bool
	done    chan struct{}
}

// NewDispatcher creates a dispatcher delivering through n.
func NewDispatcher(n Notifier, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		notifier:  n,
		queueSize: defaultQueueCapacity,
		timeout:   defaultSendTimeout,
		logger:    logger.Get().Named("notify"),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.queue = NewQueue(d.queueSize)
	return d
}

// Enqueue queues an alert without blocking.
func (d *Dispatcher) Enqueue(ctx context.Context, a model.Alert) bool { //nolint:gocritic // hugeParam: Alert must be passed by value for channel semantics
	return d.queue.Enqueue(ctx, a)
}

// Send delivers a preformatted message synchronously, bypassing the queue.
func (d *Dispatcher) Send(ctx context.Context, message string) error {
	return d.deliver(ctx, message)
}

// Start launches the delivery loop once. It runs until the queue is closed
// and drained; cancelling ctx aborts the in-flight delivery and stops it.
func (d *Dispatcher) Start(ctx context.Context) {
	d.start.Do(func() {
		d.started.Store(true)
		go d.run(ctx)
	})
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case a, ok := <-d.queue.Dequeue():
			if !ok {
				return
			}
			metrics.UpdateNotifyQueueSize(d.queue.Len())
			if err := d.deliver(ctx, FormatAlert(a)); err != nil {
				d.logger.Error(ctx, "alert not delivered",
					logger.String("event_id", a.EventID),
					logger.String("player", a.Subject),
					logger.Error(err),
				)
			}
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, message string) error {
	sctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	if err := d.notifier.Notify(sctx, message); err != nil {
		metrics.RecordNotificationFailed()
		return err
	}
	metrics.RecordNotificationSent()
	return nil
}

// Shutdown stops accepting alerts and waits for queued ones to be
// delivered or ctx to expire.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	if err := d.queue.Close(); err != nil {
		d.logger.Error(ctx, "error closing queue", logger.Error(err))
	}
	if !d.started.Load() {
		return nil
	}
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		d.logger.Warn(ctx, "shutdown timed out", logger.Int("pending", d.queue.Len()))
		return fmt.Errorf("%w: shutdown timed out: %w", ErrStopped, ctx.Err())
	}
}
