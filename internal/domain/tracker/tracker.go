// Package tracker deduplicates reported home runs and accumulates the
// per-player and per-team running totals and the active day buffer.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/dinger/internal/domain/buffer"
	"github.com/okian/dinger/internal/domain/dedupe"
	"github.com/okian/dinger/internal/domain/model"
	"github.com/okian/dinger/internal/domain/ranking"
	"github.com/okian/dinger/internal/domain/snapshot"
	"github.com/okian/dinger/pkg/clock"
	"github.com/okian/dinger/pkg/logger"
	"github.com/okian/dinger/pkg/metrics"
)

// Rejection reasons reported in Admission.Reason.
const (
	ReasonAdmitted   = "admitted"
	ReasonDuplicate  = "duplicate"
	ReasonUnfollowed = "unfollowed"
	ReasonInvalid    = "invalid"
)

// Store is the persistence the Engine needs.
type Store interface {
	buffer.Store
	snapshot.Store
	LoadSeen(ctx context.Context) ([]string, error)
	SaveSeen(ctx context.Context, ids []string) error
	SaveSubjectTotals(ctx context.Context, totals map[string]model.SubjectTotal) error
	SaveGroupTotals(ctx context.Context, totals map[string]int) error
}

// Roster answers who is followed and which team they belong to.
type Roster interface {
	Follows(subject string) bool
	GroupOf(subject string) string
}

// Days maps instants to logical days.
type Days interface {
	LogicalDay(t time.Time) string
}

// Alerter accepts alerts without blocking. It returns false when the alert
// was dropped.
type Alerter interface {
	Enqueue(ctx context.Context, a model.Alert) bool
}

// Admission is the outcome of one Admit call.
type Admission struct {
	Admitted     bool
	Reason       string
	Subject      string
	SubjectCount int
	Group        string
	GroupCount   int
	Rank         string
}

// Totals is a consistent copy of the running state.
type Totals struct {
	Day      string
	Seen     int
	Subjects map[string]model.SubjectTotal
	Groups   map[string]int
	Buffer   []model.Record
}

// Engine owns the seen set, the running totals, and the day buffer. It is
// not safe for concurrent use; one goroutine admits events in source order.
type Engine struct {
	store    Store
	roster   Roster
	days     Days
	seen     *dedupe.SeenSet
	subjects map[string]model.SubjectTotal
	groups   map[string]int
	buf      *buffer.Manager
	alerts   Alerter
	clock    clock.Clock
	logger   logger.Logger
}

// New restores an Engine from store on the current logical day.
func New(ctx context.Context, store Store, roster Roster, days Days, opts ...Option) (*Engine, error) {
	e := &Engine{
		store:  store,
		roster: roster,
		days:   days,
		clock:  clock.Real(),
		logger: logger.Get().Named("tracker"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.Restore(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Restore replaces in-memory state with what store holds, and opens the
// buffer of the current logical day.
func (e *Engine) Restore(ctx context.Context) error {
	ids, err := e.store.LoadSeen(ctx)
	if err != nil {
		return fmt.Errorf("%w: seen: %w", ErrRestore, err)
	}
	subjects, err := e.store.LoadSubjectTotals(ctx)
	if err != nil {
		return fmt.Errorf("%w: player totals: %w", ErrRestore, err)
	}
	groups, err := e.store.LoadGroupTotals(ctx)
	if err != nil {
		return fmt.Errorf("%w: team totals: %w", ErrRestore, err)
	}
	day := e.days.LogicalDay(e.clock.Now())
	buf, err := buffer.Open(ctx, e.store, day, buffer.WithLogger(e.logger.Named("buffer")))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRestore, err)
	}

	e.seen = dedupe.NewSeenSet(dedupe.WithIDs(ids))
	e.subjects = model.CloneSubjectTotals(subjects)
	e.groups = model.CloneGroupTotals(groups)
	e.buf = buf
	metrics.UpdateTrackedSubjects(len(e.subjects))

	// Team totals are derived data; a crash between the player and team
	// writes is repaired from the player totals.
	if drift := e.groupDrift(); len(drift) > 0 {
		e.groups = e.derivedGroups()
		if err := e.store.SaveGroupTotals(ctx, e.groups); err != nil {
			return fmt.Errorf("%w: repair team totals: %w", ErrRestore, err)
		}
		e.logger.Warn(ctx, "team totals rebuilt from player totals", logger.Any("teams", drift))
	}
	e.logger.Info(ctx, "tracker restored",
		logger.String("day", day),
		logger.Int("seen", int(e.seen.Size())),
		logger.Int("players", len(e.subjects)),
		logger.Int("buffered", buf.Len()),
	)
	return nil
}

// derivedGroups sums player totals per team under the current roster.
func (e *Engine) derivedGroups() map[string]int {
	out := make(map[string]int, len(e.groups))
	for subject, t := range e.subjects {
		out[e.roster.GroupOf(subject)] += t.HomeRuns
	}
	return out
}

// groupDrift lists teams whose stored total differs from the sum of their
// players' totals under the current roster.
func (e *Engine) groupDrift() []string {
	want := e.derivedGroups()
	var drift []string
	for g, n := range want {
		if e.groups[g] != n {
			drift = append(drift, g)
		}
	}
	for g, n := range e.groups {
		if _, ok := want[g]; !ok && n != 0 {
			drift = append(drift, g)
		}
	}
	return drift
}

// Admit counts ev unless it is invalid, already seen, or for a player not
// on the roster. Rejections change nothing. An admitted event is persisted
// before Admit returns; a persistence failure is reported as ErrPersistence
// and the engine must not be used further.
func (e *Engine) Admit(ctx context.Context, ev model.Event) (Admission, error) { //nolint:gocritic // hugeParam: events are passed by value
	start := e.clock.Now()
	defer func() {
		metrics.RecordAdmissionLatency(float64(e.clock.Now().Sub(start).Milliseconds()))
	}()

	if ev.ID == "" || ev.Subject == "" {
		return Admission{Reason: ReasonInvalid, Subject: ev.Subject}, nil
	}
	if e.seen.Seen(ctx, ev.ID) {
		metrics.RecordEventDuplicate()
		return Admission{Reason: ReasonDuplicate, Subject: ev.Subject}, nil
	}
	if !e.roster.Follows(ev.Subject) {
		metrics.RecordEventUnfollowed()
		e.logger.Debug(ctx, "home run for unfollowed player", logger.String("player", ev.Subject))
		return Admission{Reason: ReasonUnfollowed, Subject: ev.Subject}, nil
	}

	e.seen.SeenAndRecord(ctx, ev.ID)

	total := e.subjects[ev.Subject]
	total.HomeRuns++
	if ev.Distance != nil {
		total.Distances = append(total.Distances, *ev.Distance)
	}
	e.subjects[ev.Subject] = total

	group := e.roster.GroupOf(ev.Subject)
	e.groups[group]++

	e.buf.Stage(model.NewRecord(ev, group))

	adm := Admission{
		Admitted:     true,
		Reason:       ReasonAdmitted,
		Subject:      ev.Subject,
		SubjectCount: total.HomeRuns,
		Group:        group,
		GroupCount:   e.groups[group],
		Rank:         ranking.RankGroups(e.groups)[group],
	}

	if err := e.persist(ctx); err != nil {
		metrics.RecordPersistenceError()
		return adm, err
	}
	metrics.RecordEventAdmitted()
	metrics.UpdateTrackedSubjects(len(e.subjects))

	e.logger.Info(ctx, "home run admitted",
		logger.String("event_id", ev.ID),
		logger.String("player", adm.Subject),
		logger.Int("player_total", adm.SubjectCount),
		logger.String("team", adm.Group),
		logger.Int("team_total", adm.GroupCount),
		logger.String("rank", adm.Rank),
	)

	if e.alerts != nil {
		a := model.Alert{
			EventID:      ev.ID,
			Subject:      adm.Subject,
			SubjectCount: adm.SubjectCount,
			Distance:     ev.Distance,
			Group:        adm.Group,
			GroupCount:   adm.GroupCount,
			Rank:         adm.Rank,
			Timestamp:    ev.Timestamp,
		}
		if !e.alerts.Enqueue(ctx, a) {
			e.logger.Warn(ctx, "alert dropped", logger.String("event_id", ev.ID))
		}
	}
	return adm, nil
}

// persist writes the seen set, player totals, team totals, and buffer in
// that order.
func (e *Engine) persist(ctx context.Context) error {
	if err := e.store.SaveSeen(ctx, e.seen.IDs()); err != nil {
		return fmt.Errorf("%w: seen: %w", ErrPersistence, err)
	}
	if err := e.store.SaveSubjectTotals(ctx, e.subjects); err != nil {
		return fmt.Errorf("%w: player totals: %w", ErrPersistence, err)
	}
	if err := e.store.SaveGroupTotals(ctx, e.groups); err != nil {
		return fmt.Errorf("%w: team totals: %w", ErrPersistence, err)
	}
	if err := e.buf.Flush(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// Flush writes all in-memory state.
func (e *Engine) Flush(ctx context.Context) error {
	if err := e.persist(ctx); err != nil {
		metrics.RecordPersistenceError()
		return err
	}
	return nil
}

// Totals returns a copy of the running state.
func (e *Engine) Totals() Totals {
	return Totals{
		Day:      e.buf.Day(),
		Seen:     int(e.seen.Size()),
		Subjects: model.CloneSubjectTotals(e.subjects),
		Groups:   model.CloneGroupTotals(e.groups),
		Buffer:   e.buf.Records(),
	}
}

// Day returns the active logical day.
func (e *Engine) Day() string { return e.buf.Day() }

// Rollover moves the buffer to the logical day containing now. It reports
// whether the day changed.
func (e *Engine) Rollover(ctx context.Context, now time.Time) (bool, error) {
	changed, err := e.buf.Rollover(ctx, e.days.LogicalDay(now))
	if err != nil {
		return changed, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return changed, nil
}

// Finalize snapshots day from persisted state. When day is the active day
// the in-memory buffer is cleared along with its file.
func (e *Engine) Finalize(ctx context.Context, day string, opts ...snapshot.Option) (model.Snapshot, error) {
	if err := e.Flush(ctx); err != nil {
		return model.Snapshot{}, err
	}
	opts = append([]snapshot.Option{snapshot.WithLogger(e.logger.Named("finalizer"))}, opts...)
	snap, err := snapshot.New(e.store, opts...).Finalize(ctx, day)
	if err != nil && !errors.Is(err, snapshot.ErrBufferReset) {
		return model.Snapshot{}, err
	}
	if day == e.buf.Day() {
		if err != nil {
			// The snapshot holds every buffered record; retry the reset.
			if cerr := e.buf.Clear(ctx); cerr != nil {
				return snap, fmt.Errorf("%w: %w", ErrPersistence, cerr)
			}
			return snap, nil
		}
		e.buf.Reset(nil)
	}
	return snap, err
}
