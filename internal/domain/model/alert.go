package model

import "time"

// Alert describes an admitted home run for outbound notification. Counts
// and rank are taken right after the admission that produced it.
type Alert struct {
	EventID      string
	Subject      string
	SubjectCount int
	Distance     *float64
	Group        string
	GroupCount   int
	Rank         string
	Timestamp    time.Time
}
