package service

import (
	"context"
	"time"

	"github.com/okian/dinger/internal/adapters/fetch"
	"github.com/okian/dinger/internal/adapters/source"
	"github.com/okian/dinger/pkg/clock"
	"github.com/okian/dinger/pkg/logger"
	"github.com/okian/dinger/pkg/metrics"
)

// Default watcher configuration constants.
const (
	defaultPollInterval    = 60 * time.Second
	defaultScheduleTimeout = 10 * time.Second
	defaultEmptyThreshold  = 2
	stageSchedule          = "schedule"
)

// Schedule lists a day's active games.
type Schedule interface {
	ActiveGames(ctx context.Context, day string) ([]source.Game, error)
}

// Watcher polls the schedule and live feeds and feeds home runs to the
// service, one tick at a time on a single goroutine.
type Watcher struct {
	svc      *Service
	schedule Schedule
	pool     *fetch.Pool

	interval        time.Duration
	scheduleTimeout time.Duration
	emptyThreshold  int
	emptyPolls      int

	clock  clock.Clock
	logger logger.Logger
}

// WatcherOption applies a configuration option to the Watcher.
type WatcherOption func(*Watcher)

// WithPollInterval sets the time between ticks.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithScheduleTimeout bounds each schedule request.
func WithScheduleTimeout(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.scheduleTimeout = d
		}
	}
}

// WithEmptyPollThreshold sets how many consecutive ticks without active
// games end the run.
func WithEmptyPollThreshold(n int) WatcherOption {
	return func(w *Watcher) {
		if n > 0 {
			w.emptyThreshold = n
		}
	}
}

// WithWatcherClock sets the clock used for the day-boundary check.
func WithWatcherClock(c clock.Clock) WatcherOption {
	return func(w *Watcher) {
		if c != nil {
			w.clock = c
		}
	}
}

// WithWatcherLogger sets a custom logger for the watcher.
func WithWatcherLogger(l logger.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher creates a watcher over a started service.
func NewWatcher(svc *Service, schedule Schedule, pool *fetch.Pool, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		svc:             svc,
		schedule:        schedule,
		pool:            pool,
		interval:        defaultPollInterval,
		scheduleTimeout: defaultScheduleTimeout,
		emptyThreshold:  defaultEmptyThreshold,
		clock:           clock.Real(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named("watcher")
	}
	return w
}

// Run ticks immediately and then every poll interval. It returns nil after
// the empty-poll threshold is reached or ctx is cancelled, having flushed
// state either way, and the persistence error if admission fails.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info(ctx, "watcher starting",
		logger.Duration("interval", w.interval),
		logger.Int("empty_poll_threshold", w.emptyThreshold),
	)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		stop, err := w.Tick(ctx)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "watcher interrupted, flushing state")
			return w.svc.Flush(context.WithoutCancel(ctx))
		case <-ticker.C:
		}
	}
}

// Tick runs one poll: day-boundary check, schedule, feeds, admission. It
// reports stop once the run should end. Fetch failures are logged and
// retried next tick; persistence failures are returned.
func (w *Watcher) Tick(ctx context.Context) (bool, error) {
	metrics.RecordPollTick()

	if changed, err := w.svc.Rollover(ctx, w.clock.Now()); err != nil {
		return true, err
	} else if changed {
		w.logger.Info(ctx, "rolled to new day", logger.String("day", w.svc.Day()))
	}
	day := w.svc.Day()

	games, err := w.activeGames(ctx, day)
	if err != nil {
		if ctx.Err() != nil {
			return false, nil
		}
		metrics.RecordFetchError(stageSchedule)
		w.logger.Error(ctx, "polling error", logger.String("day", day), logger.Error(err))
		return false, nil
	}
	metrics.UpdateActiveGames(len(games))
	w.svc.RecordPoll(len(games))
	w.logger.Info(ctx, "polling active games", logger.String("day", day), logger.Int("games", len(games)))

	if len(games) == 0 {
		w.emptyPolls++
		if w.emptyPolls >= w.emptyThreshold {
			w.logger.Info(ctx, "no active games, shutting down watcher", logger.Int("empty_polls", w.emptyPolls))
			return true, w.svc.Flush(ctx)
		}
		return false, nil
	}
	w.emptyPolls = 0

	for _, res := range w.pool.Fetch(ctx, games) {
		if res.Err != nil {
			continue
		}
		for _, ev := range res.Events {
			if _, err := w.svc.Admit(ctx, ev); err != nil {
				w.logger.Error(ctx, "persistence failed, stopping", logger.String("event_id", ev.ID), logger.Error(err))
				return true, err
			}
		}
	}
	return false, nil
}

func (w *Watcher) activeGames(ctx context.Context, day string) ([]source.Game, error) {
	sctx, cancel := context.WithTimeout(ctx, w.scheduleTimeout)
	defer cancel()
	start := time.Now()
	games, err := w.schedule.ActiveGames(sctx, day)
	metrics.RecordFetchLatency(stageSchedule, float64(time.Since(start).Milliseconds()))
	return games, err
}
