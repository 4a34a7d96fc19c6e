package notify

import "errors"

// Sentinel kinds for notification errors.
var (
	ErrStopped    = errors.New("dispatcher stopped")
	ErrNoCommand  = errors.New("notify command not set")
	ErrSendFailed = errors.New("notification send failed")
)
