// Package snapshot freezes a logical day's buffer and the running totals
// into a write-once daily snapshot.
package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/dinger/internal/adapters/repository"
	"github.com/okian/dinger/internal/domain/gameday"
	"github.com/okian/dinger/internal/domain/model"
	"github.com/okian/dinger/pkg/logger"
	"github.com/okian/dinger/pkg/metrics"
)

// Store is the persistence the Finalizer needs.
type Store interface {
	SnapshotExists(ctx context.Context, day string) (bool, error)
	BufferExists(ctx context.Context, day string) (bool, error)
	LoadBuffer(ctx context.Context, day string) ([]model.Record, bool, error)
	SaveBuffer(ctx context.Context, day string, records []model.Record) error
	LoadSubjectTotals(ctx context.Context) (map[string]model.SubjectTotal, error)
	LoadGroupTotals(ctx context.Context) (map[string]int, error)
	CreateSnapshot(ctx context.Context, snap model.Snapshot) error
}

// Finalizer writes daily snapshots.
type Finalizer struct {
	store      Store
	allowEmpty bool
	logger     logger.Logger
}

// Option applies a configuration option to the Finalizer.
type Option func(*Finalizer)

// WithEmptyDayPolicy makes a day with no buffer file finalize to an empty
// snapshot instead of failing with ErrMissingBuffer.
func WithEmptyDayPolicy(allow bool) Option {
	return func(f *Finalizer) {
		f.allowEmpty = allow
	}
}

// WithLogger sets a custom logger for the finalizer.
func WithLogger(l logger.Logger) Option {
	return func(f *Finalizer) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a Finalizer over store.
func New(store Store, opts ...Option) *Finalizer {
	f := &Finalizer{store: store, logger: logger.Get().Named("finalizer")}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Finalize snapshots day. Totals are read as they stand and are not reset.
// On success the day's buffer file is rewritten as an empty list; on any
// error nothing has been written.
func (f *Finalizer) Finalize(ctx context.Context, day string) (model.Snapshot, error) {
	if !gameday.Valid(day) {
		return model.Snapshot{}, fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}

	done, err := f.store.SnapshotExists(ctx, day)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("check snapshot %s: %w", day, err)
	}
	if done {
		return model.Snapshot{}, fmt.Errorf("%w: %s", ErrAlreadyExists, day)
	}

	records, found, err := f.store.LoadBuffer(ctx, day)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("load buffer %s: %w", day, err)
	}
	if !found && !f.allowEmpty {
		return model.Snapshot{}, fmt.Errorf("%w: %s", ErrMissingBuffer, day)
	}

	subjects, err := f.store.LoadSubjectTotals(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("load player totals: %w", err)
	}
	groups, err := f.store.LoadGroupTotals(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("load team totals: %w", err)
	}

	snap := model.Snapshot{
		Date:         day,
		PlayerTotals: model.CloneSubjectTotals(subjects),
		TeamTotals:   model.CloneGroupTotals(groups),
		HomeRuns:     model.CloneRecords(records),
	}
	if err := f.store.CreateSnapshot(ctx, snap); err != nil {
		if errors.Is(err, repository.ErrSnapshotExists) {
			return model.Snapshot{}, fmt.Errorf("%w: %s", ErrAlreadyExists, day)
		}
		return model.Snapshot{}, fmt.Errorf("write snapshot %s: %w", day, err)
	}
	metrics.RecordSnapshotWritten()

	// The snapshot is durable at this point; a failed reset leaves a stale
	// buffer that a repeat Finalize rejects as already finalized.
	if err := f.store.SaveBuffer(ctx, day, []model.Record{}); err != nil {
		return snap, fmt.Errorf("%w: %s: %w", ErrBufferReset, day, err)
	}

	f.logger.Info(ctx, "day finalized",
		logger.String("day", day),
		logger.Int("home_runs", len(snap.HomeRuns)),
		logger.Int("players", len(snap.PlayerTotals)),
		logger.Bool("empty_day", !found),
	)
	return snap, nil
}
