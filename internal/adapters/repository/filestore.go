package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/okian/dinger/internal/domain/model"
	"github.com/okian/dinger/pkg/logger"
)

// FileStore is a Store over flat, human-readable JSON files. Every write
// replaces the whole file through a temp file, fsync, and rename so a crash
// leaves either the old or the new content. Snapshots are created with
// O_EXCL so a finished day is never overwritten.
//
// FileStore keeps no in-memory state and may be shared; concurrent writers
// to the same file are not coordinated.
type FileStore struct {
	dataDir      string
	snapshotDir  string
	seenFile     string
	subjectsFile string
	groupsFile   string
	logger       logger.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the data and snapshot directories if needed.
func NewFileStore(dataDir string, opts ...Option) (*FileStore, error) {
	if dataDir == "" {
		dataDir = "."
	}
	s := &FileStore{
		dataDir:      dataDir,
		snapshotDir:  filepath.Join(dataDir, defaultSnapshotDir),
		seenFile:     defaultSeenFile,
		subjectsFile: defaultSubjectTotalsFile,
		groupsFile:   defaultGroupTotalsFile,
		logger:       logger.Get().Named("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, dir := range []string{s.dataDir, s.snapshotDir} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return s, nil
}

// SnapshotDir returns the directory holding buffers and snapshots.
func (s *FileStore) SnapshotDir() string { return s.snapshotDir }

// LoadSeen returns the ordered list of counted event ids.
func (s *FileStore) LoadSeen(ctx context.Context) ([]string, error) {
	var ids []string
	if _, err := s.readJSON(ctx, filepath.Join(s.dataDir, s.seenFile), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// SaveSeen replaces the persisted seen list.
func (s *FileStore) SaveSeen(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return s.writeJSON(ctx, filepath.Join(s.dataDir, s.seenFile), ids)
}

// LoadSubjectTotals returns the per-player totals.
func (s *FileStore) LoadSubjectTotals(ctx context.Context) (map[string]model.SubjectTotal, error) {
	totals := map[string]model.SubjectTotal{}
	if _, err := s.readJSON(ctx, filepath.Join(s.dataDir, s.subjectsFile), &totals); err != nil {
		return nil, err
	}
	if totals == nil {
		totals = map[string]model.SubjectTotal{}
	}
	return totals, nil
}

// SaveSubjectTotals replaces the per-player totals file.
func (s *FileStore) SaveSubjectTotals(ctx context.Context, totals map[string]model.SubjectTotal) error {
	return s.writeJSON(ctx, filepath.Join(s.dataDir, s.subjectsFile), nonNilSubjects(totals))
}

// LoadGroupTotals returns the per-team totals.
func (s *FileStore) LoadGroupTotals(ctx context.Context) (map[string]int, error) {
	totals := map[string]int{}
	if _, err := s.readJSON(ctx, filepath.Join(s.dataDir, s.groupsFile), &totals); err != nil {
		return nil, err
	}
	if totals == nil {
		totals = map[string]int{}
	}
	return totals, nil
}

// SaveGroupTotals replaces the per-team totals file.
func (s *FileStore) SaveGroupTotals(ctx context.Context, totals map[string]int) error {
	if totals == nil {
		totals = map[string]int{}
	}
	return s.writeJSON(ctx, filepath.Join(s.dataDir, s.groupsFile), totals)
}

// LoadBuffer returns the day's records and whether its file exists.
func (s *FileStore) LoadBuffer(ctx context.Context, day string) ([]model.Record, bool, error) {
	path, err := s.bufferPath(day)
	if err != nil {
		return nil, false, err
	}
	var records []model.Record
	ok, err := s.readJSON(ctx, path, &records)
	if err != nil {
		return nil, false, err
	}
	return model.CloneRecords(records), ok, nil
}

// SaveBuffer replaces the day's buffer file.
func (s *FileStore) SaveBuffer(ctx context.Context, day string, records []model.Record) error {
	path, err := s.bufferPath(day)
	if err != nil {
		return err
	}
	return s.writeJSON(ctx, path, model.CloneRecords(records))
}

// BufferExists reports whether the day's buffer file is present.
func (s *FileStore) BufferExists(_ context.Context, day string) (bool, error) {
	path, err := s.bufferPath(day)
	if err != nil {
		return false, err
	}
	return exists(path)
}

// SnapshotExists reports whether the day was already finalized.
func (s *FileStore) SnapshotExists(_ context.Context, day string) (bool, error) {
	path, err := s.snapshotPath(day)
	if err != nil {
		return false, err
	}
	return exists(path)
}

// CreateSnapshot writes snap exactly once.
func (s *FileStore) CreateSnapshot(ctx context.Context, snap model.Snapshot) error {
	path, err := s.snapshotPath(snap.Date)
	if err != nil {
		return err
	}
	data, err := marshal(normalizeSnapshot(snap))
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrSnapshotExists, snap.Date)
		}
		return fmt.Errorf("create snapshot %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("sync snapshot %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot %s: %w", path, err)
	}
	if err := syncDir(filepath.Dir(path)); err != nil {
		return err
	}
	s.logger.Info(ctx, "snapshot written", logger.String("day", snap.Date), logger.String("path", path))
	return nil
}

// ReadSnapshot returns the finalized snapshot for day.
func (s *FileStore) ReadSnapshot(ctx context.Context, day string) (model.Snapshot, error) {
	path, err := s.snapshotPath(day)
	if err != nil {
		return model.Snapshot{}, err
	}
	var snap model.Snapshot
	ok, err := s.readJSON(ctx, path, &snap)
	if err != nil {
		return model.Snapshot{}, err
	}
	if !ok {
		return model.Snapshot{}, fmt.Errorf("%w: snapshot %s", ErrNotFound, day)
	}
	if snap.Date == "" {
		snap.Date = day
	}
	return normalizeSnapshot(snap), nil
}

// ListSnapshotDays returns finalized days in ascending order. Buffer files
// and anything not named like a day are ignored.
func (s *FileStore) ListSnapshotDays(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.snapshotDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list %s: %w", s.snapshotDir, err)
	}
	days := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasSuffix(name, bufferSuffix) || !strings.HasSuffix(name, snapshotSuffix) {
			continue
		}
		day := strings.TrimSuffix(name, snapshotSuffix)
		if validDay(day) {
			days = append(days, day)
		}
	}
	sort.Strings(days)
	return days, nil
}

func (s *FileStore) bufferPath(day string) (string, error) {
	if !validDay(day) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	return filepath.Join(s.snapshotDir, day+bufferSuffix), nil
}

func (s *FileStore) snapshotPath(day string) (string, error) {
	if !validDay(day) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	return filepath.Join(s.snapshotDir, day+snapshotSuffix), nil
}

// readJSON decodes path into v. It returns false without error when the
// file does not exist. An empty file decodes as the zero value.
func (s *FileStore) readJSON(ctx context.Context, path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		s.logger.Warn(ctx, "empty state file", logger.String("path", path))
		return true, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
	}
	return true, nil
}

func (s *FileStore) writeJSON(ctx context.Context, path string, v any) error {
	data, err := marshal(v)
	if err != nil {
		return err
	}
	if err := atomicWrite(path, data); err != nil {
		return err
	}
	s.logger.Debug(ctx, "state file written", logger.String("path", path), logger.Int("bytes", len(data)))
	return nil
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteJSONFile writes v as indented JSON to path atomically, creating the
// parent directory if needed.
func WriteJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	data, err := marshal(v)
	if err != nil {
		return err
	}
	return atomicWrite(path, data)
}

// atomicWrite replaces path with data: temp file in the same directory,
// fsync, rename, fsync of the parent directory.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp for %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp for %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open dir %s: %w", dir, err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("sync dir %s: %w", dir, err)
	}
	return nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}

func validDay(day string) bool {
	_, err := time.Parse("2006-01-02", day)
	return err == nil
}

func nonNilSubjects(m map[string]model.SubjectTotal) map[string]model.SubjectTotal {
	out := make(map[string]model.SubjectTotal, len(m))
	for k, v := range m {
		if v.Distances == nil {
			v.Distances = []float64{}
		}
		out[k] = v
	}
	return out
}

func normalizeSnapshot(snap model.Snapshot) model.Snapshot {
	snap.PlayerTotals = nonNilSubjects(snap.PlayerTotals)
	if snap.TeamTotals == nil {
		snap.TeamTotals = map[string]int{}
	}
	snap.HomeRuns = model.CloneRecords(snap.HomeRuns)
	return snap
}
