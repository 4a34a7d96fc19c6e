package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound       = errors.New("record not found")
	ErrSnapshotExists = errors.New("snapshot already exists")
	ErrInvalidDay     = errors.New("invalid day key")
	ErrCorrupt        = errors.New("corrupt state file")
)
