// Package model contains domain models passed between layers.
package model

import "time"

// Event is a candidate home run reported by an event source.
type Event struct {
	ID          string    // unique id for idempotency
	Subject     string    // batter full name
	GameID      string    // source game identifier
	Distance    *float64  // projected distance in feet, nil when unknown
	LaunchAngle *float64  // degrees
	LaunchSpeed *float64  // mph
	X           *float64  // spray chart x
	Y           *float64  // spray chart y
	Timestamp   time.Time // instant of occurrence
}

// Record is an admitted event enriched with its group, as buffered for a
// logical day.
type Record struct {
	EventID     string    `json:"eventId,omitempty"`
	Player      string    `json:"player"`
	Team        string    `json:"team"`
	Distance    *float64  `json:"distance"`
	Timestamp   time.Time `json:"timestamp"`
	LaunchAngle *float64  `json:"launchAngle,omitempty"`
	LaunchSpeed *float64  `json:"launchSpeed,omitempty"`
	X           *float64  `json:"x,omitempty"`
	Y           *float64  `json:"y,omitempty"`
}

// NewRecord enriches e with group.
func NewRecord(e Event, group string) Record { //nolint:gocritic // hugeParam: events are passed by value
	return Record{
		EventID:     e.ID,
		Player:      e.Subject,
		Team:        group,
		Distance:    e.Distance,
		Timestamp:   e.Timestamp,
		LaunchAngle: e.LaunchAngle,
		LaunchSpeed: e.LaunchSpeed,
		X:           e.X,
		Y:           e.Y,
	}
}

// HasSpray reports whether both spray coordinates are known.
func (r Record) HasSpray() bool { return r.X != nil && r.Y != nil }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
