package gameday

import "errors"

// Sentinel kinds for day resolution errors.
var (
	ErrUnknownZone = errors.New("unknown time zone")
)
