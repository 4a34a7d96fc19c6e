package repository

import "github.com/okian/dinger/pkg/logger"

// Default file names, relative to the data and snapshot directories.
const (
	defaultSeenFile          = "hr-log.json"
	defaultSubjectTotalsFile = "player-totals.json"
	defaultGroupTotalsFile   = "team-totals.json"
	defaultSnapshotDir       = "daily-snapshots"
	bufferSuffix             = "-live-buffer.json"
	snapshotSuffix           = ".json"
	filePerm                 = 0o644
	dirPerm                  = 0o755
)

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithSnapshotDir sets where day buffers and snapshots live. Defaults to
// <dataDir>/daily-snapshots.
func WithSnapshotDir(dir string) Option {
	return func(s *FileStore) {
		if dir != "" {
			s.snapshotDir = dir
		}
	}
}

// WithFileNames overrides the seen, subject total, and group total file
// names. Empty values keep the defaults.
func WithFileNames(seen, subjects, groups string) Option {
	return func(s *FileStore) {
		if seen != "" {
			s.seenFile = seen
		}
		if subjects != "" {
			s.subjectsFile = subjects
		}
		if groups != "" {
			s.groupsFile = groups
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}
