package report

import "errors"

// ErrNotEnoughSnapshots is returned when fewer finalized days exist than the recap window.
var ErrNotEnoughSnapshots = errors.New("not enough snapshots")
