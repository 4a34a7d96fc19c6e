package tracker

import (
	"github.com/okian/dinger/pkg/clock"
	"github.com/okian/dinger/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithAlerter sets where admitted home runs are announced.
func WithAlerter(a Alerter) Option {
	return func(e *Engine) {
		if a != nil {
			e.alerts = a
		}
	}
}

// WithClock sets the clock used for latency measurement and Rollover.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
