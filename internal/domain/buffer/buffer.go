// Package buffer holds the ordered records admitted during the active
// logical day and keeps them persisted under that day's key.
package buffer

import (
	"context"
	"fmt"

	"github.com/okian/dinger/internal/domain/model"
	"github.com/okian/dinger/pkg/logger"
	"github.com/okian/dinger/pkg/metrics"
)

// Store is the persistence the Manager needs.
type Store interface {
	LoadBuffer(ctx context.Context, day string) ([]model.Record, bool, error)
	SaveBuffer(ctx context.Context, day string, records []model.Record) error
}

// Manager owns the active day's buffer. It is not safe for concurrent use.
type Manager struct {
	store   Store
	day     string
	records []model.Record
	logger  logger.Logger
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithLogger sets a custom logger for the manager.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// Open loads day's buffer from store, or starts empty when none exists.
func Open(ctx context.Context, store Store, day string, opts ...Option) (*Manager, error) {
	if day == "" {
		return nil, ErrNoDay
	}
	m := &Manager{store: store, logger: logger.Get().Named("buffer")}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.load(ctx, day); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) load(ctx context.Context, day string) error {
	records, found, err := m.store.LoadBuffer(ctx, day)
	if err != nil {
		return fmt.Errorf("load buffer %s: %w", day, err)
	}
	m.day = day
	m.records = model.CloneRecords(records)
	metrics.UpdateBufferLength(len(m.records))
	m.logger.Info(ctx, "buffer opened",
		logger.String("day", day),
		logger.Bool("existing", found),
		logger.Int("records", len(m.records)),
	)
	return nil
}

// Day returns the active logical day.
func (m *Manager) Day() string { return m.day }

// Len returns the number of buffered records.
func (m *Manager) Len() int { return len(m.records) }

// Records returns a copy of the buffered records in admission order.
func (m *Manager) Records() []model.Record { return model.CloneRecords(m.records) }

// Append adds rec and persists the whole buffer under the active day. On a
// write failure the record stays buffered in memory; Flush retries.
func (m *Manager) Append(ctx context.Context, rec model.Record) error { //nolint:gocritic // hugeParam: records are passed by value
	m.Stage(rec)
	return m.Flush(ctx)
}

// Stage adds rec in memory only. The next Flush persists it.
func (m *Manager) Stage(rec model.Record) { //nolint:gocritic // hugeParam: records are passed by value
	m.records = append(m.records, rec)
	metrics.UpdateBufferLength(len(m.records))
}

// Flush persists the buffer under the active day.
func (m *Manager) Flush(ctx context.Context) error {
	if err := m.store.SaveBuffer(ctx, m.day, m.records); err != nil {
		return fmt.Errorf("save buffer %s: %w", m.day, err)
	}
	return nil
}

// Rollover switches to newDay. It reports whether a switch happened: when
// already on newDay nothing is read or written. The previous day's file is
// left as last persisted; newDay's buffer is loaded if present, otherwise
// the buffer starts empty and is written so the day has a file.
func (m *Manager) Rollover(ctx context.Context, newDay string) (bool, error) {
	if newDay == "" {
		return false, ErrNoDay
	}
	if newDay == m.day {
		return false, nil
	}
	prev := m.day
	records, found, err := m.store.LoadBuffer(ctx, newDay)
	if err != nil {
		return false, fmt.Errorf("load buffer %s: %w", newDay, err)
	}
	m.day = newDay
	m.records = model.CloneRecords(records)
	if !found {
		if err := m.Flush(ctx); err != nil {
			return true, err
		}
	}
	metrics.RecordRollover()
	metrics.UpdateBufferLength(len(m.records))
	m.logger.Info(ctx, "buffer rolled over",
		logger.String("from", prev),
		logger.String("to", newDay),
		logger.Int("records", len(m.records)),
	)
	return true, nil
}

// Clear empties the buffer and persists the empty list.
func (m *Manager) Clear(ctx context.Context) error {
	m.records = []model.Record{}
	metrics.UpdateBufferLength(0)
	return m.Flush(ctx)
}

// Reset replaces the in-memory records without writing. It is used after
// another component already rewrote the day's file.
func (m *Manager) Reset(records []model.Record) {
	m.records = model.CloneRecords(records)
	metrics.UpdateBufferLength(len(m.records))
}
