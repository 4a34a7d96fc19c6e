package source

import (
	"net/http"

	"github.com/okian/dinger/pkg/clock"
	"github.com/okian/dinger/pkg/logger"
)

// Option applies a configuration option to the MLB client.
type Option func(*MLB)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(c *http.Client) Option {
	return func(m *MLB) {
		if c != nil {
			m.http = c
		}
	}
}

// WithScheduleURL overrides the schedule endpoint.
func WithScheduleURL(u string) Option {
	return func(m *MLB) {
		if u != "" {
			m.scheduleURL = u
		}
	}
}

// WithLiveFeedURL overrides the live feed base; the game id and
// /feed/live are appended.
func WithLiveFeedURL(u string) Option {
	return func(m *MLB) {
		if u != "" {
			m.liveFeedURL = u
		}
	}
}

// WithActiveStates sets which abstract game states count as active.
func WithActiveStates(states []string) Option {
	return func(m *MLB) {
		if len(states) > 0 {
			m.active = toSet(states)
		}
	}
}

// WithClock sets the clock used to timestamp plays with no end time.
func WithClock(c clock.Clock) Option {
	return func(m *MLB) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(m *MLB) {
		if l != nil {
			m.logger = l
		}
	}
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
