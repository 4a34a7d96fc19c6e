package tracker

import "errors"

// Sentinel kinds for tracker errors.
var (
	// ErrPersistence means in-memory state is ahead of storage. Callers must
	// stop admitting events.
	ErrPersistence = errors.New("tracker persistence failed")
	ErrRestore     = errors.New("tracker restore failed")
)
