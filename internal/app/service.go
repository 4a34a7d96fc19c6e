// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/dinger/internal/domain/model"
	"github.com/okian/dinger/internal/domain/ranking"
	"github.com/okian/dinger/internal/domain/snapshot"
	"github.com/okian/dinger/internal/domain/tracker"
	"github.com/okian/dinger/internal/domain/types"
	"github.com/okian/dinger/pkg/clock"
	"github.com/okian/dinger/pkg/logger"
)

// Roster is the followed-player lookup the service needs.
type Roster interface {
	tracker.Roster
	Subjects() []string
}

// Service owns the tracker engine and serializes access to it. The
// watcher is the only writer; HTTP handlers read copies under the lock.
type Service struct {
	mu sync.RWMutex

	store  tracker.Store
	roster Roster
	days   tracker.Days
	engine *tracker.Engine

	alerts tracker.Alerter
	clock  clock.Clock

	started     bool
	startedAt   time.Time
	polls       int
	activeGames int
	lastPoll    time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithAlerter sets where admitted home runs are announced.
func WithAlerter(a tracker.Alerter) Option {
	return func(s *Service) {
		if a != nil {
			s.alerts = a
		}
	}
}

// WithClock sets the service clock.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Start restores state.
func New(store tracker.Store, roster Roster, days tracker.Days, opts ...Option) *Service {
	s := &Service{
		store:  store,
		roster: roster,
		days:   days,
		clock:  clock.Real(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start restores the engine from storage.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	opts := []tracker.Option{
		tracker.WithClock(s.clock),
		tracker.WithLogger(s.logger.Named("tracker")),
	}
	if s.alerts != nil {
		opts = append(opts, tracker.WithAlerter(s.alerts))
	}
	engine, err := tracker.New(ctx, s.store, s.roster, s.days, opts...)
	if err != nil {
		return err
	}
	s.engine = engine
	s.started = true
	s.startedAt = s.clock.Now()

	s.logger.Info(ctx, "service started",
		logger.String("day", engine.Day()),
		logger.Int("followed", len(s.roster.Subjects())),
	)
	return nil
}

// Stop flushes state. The service can be started again.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	err := s.engine.Flush(ctx)
	s.started = false
	s.logger.Info(ctx, "service stopped")
	return err
}

// Admit passes ev to the engine.
func (s *Service) Admit(ctx context.Context, ev model.Event) (tracker.Admission, error) { //nolint:gocritic // hugeParam: events are passed by value
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return tracker.Admission{}, ErrNotStarted
	}
	return s.engine.Admit(ctx, ev)
}

// Rollover moves the live buffer to the logical day containing now.
func (s *Service) Rollover(ctx context.Context, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return false, ErrNotStarted
	}
	return s.engine.Rollover(ctx, now)
}

// Flush writes all in-memory state.
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	return s.engine.Flush(ctx)
}

// Finalize snapshots day from the running state.
func (s *Service) Finalize(ctx context.Context, day string, allowEmpty bool) (model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return model.Snapshot{}, ErrNotStarted
	}
	return s.engine.Finalize(ctx, day, snapshot.WithEmptyDayPolicy(allowEmpty))
}

// Day returns the active logical day.
func (s *Service) Day() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ""
	}
	return s.engine.Day()
}

// RecordPoll notes one schedule poll for GetStats.
func (s *Service) RecordPoll(activeGames int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls++
	s.activeGames = activeGames
	s.lastPoll = s.clock.Now()
}

// Totals returns a copy of the running state.
func (s *Service) Totals() tracker.Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return tracker.Totals{}
	}
	return s.engine.Totals()
}

// Standings returns the team table with competition ranks.
func (s *Service) Standings(_ context.Context) []types.Standing {
	return ranking.Standings(s.Totals().Groups)
}

// Players returns every player with at least one home run, most first.
func (s *Service) Players(_ context.Context) []types.PlayerLine {
	totals := s.Totals()
	lines := make([]types.PlayerLine, 0, len(totals.Subjects))
	for name, t := range totals.Subjects {
		lines = append(lines, types.PlayerLine{
			Player:    name,
			Team:      s.roster.GroupOf(name),
			HomeRuns:  t.HomeRuns,
			Distances: t.Distances,
		})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].HomeRuns != lines[j].HomeRuns {
			return lines[i].HomeRuns > lines[j].HomeRuns
		}
		return lines[i].Player < lines[j].Player
	})
	return lines
}

// Buffer returns the live day and its records.
func (s *Service) Buffer(_ context.Context) (string, []model.Record) {
	totals := s.Totals()
	return totals.Day, totals.Buffer
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(_ context.Context) map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"polls":       s.polls,
		"activeGames": s.activeGames,
		"followed":    len(s.roster.Subjects()),
	}
	if !s.lastPoll.IsZero() {
		stats["lastPoll"] = s.lastPoll.UTC().Format(time.RFC3339)
	}
	if s.started {
		totals := s.engine.Totals()
		stats["day"] = totals.Day
		stats["seen"] = totals.Seen
		stats["players"] = len(totals.Subjects)
		stats["teams"] = len(totals.Groups)
		stats["buffered"] = len(totals.Buffer)
		stats["uptimeSeconds"] = int(s.clock.Now().Sub(s.startedAt).Seconds())
	}
	return stats
}
