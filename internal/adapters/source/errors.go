package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrDecode           = errors.New("malformed response")
	ErrIncompleteFeed   = errors.New("incomplete live data")
)
