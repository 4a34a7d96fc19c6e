// Package repository defines the tracker state store interface and errors.
package repository

import (
	"context"

	"github.com/okian/dinger/internal/domain/model"
)

// Store provides read/write access to the persisted tracker state.
//
// Load methods report absence explicitly: a missing file is not an error
// and yields the zero state.
type Store interface {
	// LoadSeen returns the ordered list of counted event ids.
	LoadSeen(ctx context.Context) ([]string, error)
	// SaveSeen replaces the persisted seen list.
	SaveSeen(ctx context.Context, ids []string) error

	LoadSubjectTotals(ctx context.Context) (map[string]model.SubjectTotal, error)
	SaveSubjectTotals(ctx context.Context, totals map[string]model.SubjectTotal) error

	LoadGroupTotals(ctx context.Context) (map[string]int, error)
	SaveGroupTotals(ctx context.Context, totals map[string]int) error

	// LoadBuffer returns the day's buffered records and whether the buffer
	// file exists at all.
	LoadBuffer(ctx context.Context, day string) ([]model.Record, bool, error)
	// SaveBuffer replaces the day's buffer file.
	SaveBuffer(ctx context.Context, day string, records []model.Record) error
	BufferExists(ctx context.Context, day string) (bool, error)

	SnapshotExists(ctx context.Context, day string) (bool, error)
	// CreateSnapshot writes the day's snapshot exactly once. It returns
	// ErrSnapshotExists when one is already present and never overwrites.
	CreateSnapshot(ctx context.Context, snap model.Snapshot) error
	// ReadSnapshot returns ErrNotFound when the day was never finalized.
	ReadSnapshot(ctx context.Context, day string) (model.Snapshot, error)
	// ListSnapshotDays returns finalized days in ascending order.
	ListSnapshotDays(ctx context.Context) ([]string, error)
}
