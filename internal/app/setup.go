package service

import (
	"context"
	"fmt"

	"github.com/okian/dinger/internal/adapters/repository"
	"github.com/okian/dinger/internal/config"
	"github.com/okian/dinger/internal/domain/gameday"
	"github.com/okian/dinger/internal/domain/model"
	"github.com/okian/dinger/internal/roster"
	"github.com/okian/dinger/pkg/logger"
)

// Environment is the state every command opens from configuration.
type Environment struct {
	Config *config.Config
	Store  *repository.FileStore
	Days   *gameday.Resolver
}

// Open creates the file store and day resolver described by cfg.
func Open(cfg *config.Config, l logger.Logger) (*Environment, error) {
	if l == nil {
		l = logger.Get().Named("service")
	}
	store, err := repository.NewFileStore(cfg.DataDir,
		repository.WithSnapshotDir(cfg.SnapshotDir),
		repository.WithLogger(l.Named("store")),
	)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	days, err := gameday.New(cfg.Timezone, gameday.WithOffset(cfg.DayOffset()))
	if err != nil {
		return nil, fmt.Errorf("day resolver: %w", err)
	}
	return &Environment{Config: cfg, Store: store, Days: days}, nil
}

// Roster loads the followed players and their teams.
func (e *Environment) Roster() (*roster.Roster, error) {
	return roster.Load(e.Config.RosterPath, e.Config.GroupMapPath)
}

// Snapshots reads every finalized day in ascending order.
func (e *Environment) Snapshots(ctx context.Context) ([]model.Snapshot, error) {
	days, err := e.Store.ListSnapshotDays(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Snapshot, 0, len(days))
	for _, day := range days {
		snap, err := e.Store.ReadSnapshot(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", day, err)
		}
		out = append(out, snap)
	}
	return out, nil
}
