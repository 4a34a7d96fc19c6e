// Package gameday maps wall-clock instants to logical game days.
//
// A logical day is the calendar date in a fixed zone after shifting the
// instant back by a fixed offset, so games that run past local midnight
// stay attributed to the day they started.
package gameday

import (
	"fmt"
	"time"
	_ "time/tzdata" // resolution must not depend on host zoneinfo

	"github.com/okian/dinger/pkg/clock"
)

// Layout is the logical day format.
const Layout = "2006-01-02"

// Defaults for the MLB schedule day.
const (
	DefaultZone   = "America/New_York"
	DefaultOffset = 6 * time.Hour
)

// Resolver computes logical days. It holds no mutable state.
type Resolver struct {
	loc    *time.Location
	offset time.Duration
	clock  clock.Clock
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithClock injects the clock used by Current.
func WithClock(c clock.Clock) Option {
	return func(r *Resolver) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithOffset sets how far instants are shifted back before taking the date.
func WithOffset(d time.Duration) Option {
	return func(r *Resolver) {
		if d >= 0 {
			r.offset = d
		}
	}
}

// WithLocation sets the zone the date is taken in.
func WithLocation(loc *time.Location) Option {
	return func(r *Resolver) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// New creates a Resolver for zone. An empty zone means DefaultZone.
func New(zone string, opts ...Option) (*Resolver, error) {
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrUnknownZone, zone, err)
	}
	r := &Resolver{loc: loc, offset: DefaultOffset, clock: clock.Real()}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// LogicalDay returns the logical day containing t.
func (r *Resolver) LogicalDay(t time.Time) string {
	return t.Add(-r.offset).In(r.loc).Format(Layout)
}

// Current returns the logical day at the clock's current instant.
func (r *Resolver) Current() string {
	return r.LogicalDay(r.clock.Now())
}

// Changed returns the current logical day and whether it differs from prev.
func (r *Resolver) Changed(prev string) (string, bool) {
	day := r.Current()
	return day, day != prev
}

// Previous returns the logical day before the current one.
func (r *Resolver) Previous() string {
	return Shift(r.Current(), -1)
}

// Shift returns day moved by n calendar days. Invalid input is returned
// unchanged.
func Shift(day string, n int) string {
	t, err := time.Parse(Layout, day)
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, n).Format(Layout)
}

// Valid reports whether day is a well-formed logical day.
func Valid(day string) bool {
	_, err := time.Parse(Layout, day)
	return err == nil
}
