package roster

import "errors"

// Sentinel kinds for roster errors.
var (
	ErrLoad        = errors.New("load roster failed")
	ErrEmptyRoster = errors.New("empty roster")
)
