package snapshot

import "errors"

// Sentinel kinds for finalization errors.
var (
	ErrAlreadyExists = errors.New("snapshot already exists")
	ErrMissingBuffer = errors.New("no buffer for day")
	ErrInvalidDay    = errors.New("invalid day")
	ErrBufferReset   = errors.New("snapshot written but buffer reset failed")
)
