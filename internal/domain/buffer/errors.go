package buffer

import "errors"

// Sentinel kinds for buffer errors.
var (
	ErrNoDay = errors.New("buffer day must not be empty")
)
