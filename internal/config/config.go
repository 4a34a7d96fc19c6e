// Package config defines watcher configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and DINGER_* env vars.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"time"
	_ "time/tzdata" // timezone validation must not depend on host zoneinfo
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080". Empty disables HTTP.
	Addr string `koanf:"addr"`

	// DataDir holds the season-cumulative state files.
	DataDir string `koanf:"data_dir"`

	// SnapshotDir holds per-day live buffers and finalized snapshots.
	SnapshotDir string `koanf:"snapshot_dir"`

	// RosterPath lists followed players (JSON/JSONC array or YAML list).
	RosterPath string `koanf:"roster_path"`

	// GroupMapPath maps players to fantasy teams (JSON/JSONC object or YAML map).
	GroupMapPath string `koanf:"group_map_path"`

	// Timezone and DayOffsetHours define the logical game day.
	Timezone       string `koanf:"timezone"`
	DayOffsetHours int    `koanf:"day_offset_hours"`

	// PollIntervalMS is the spacing between polling ticks.
	PollIntervalMS int `koanf:"poll_interval_ms"`

	// ScheduleTimeoutMS bounds the schedule request; FeedTimeoutMS bounds each live feed request.
	ScheduleTimeoutMS int `koanf:"schedule_timeout_ms"`
	FeedTimeoutMS     int `koanf:"feed_timeout_ms"`

	// FetchWorkers bounds concurrent live feed fetches within a tick.
	FetchWorkers int `koanf:"fetch_workers"`

	// EmptyPollThreshold is how many consecutive ticks without active games end the watcher.
	EmptyPollThreshold int `koanf:"empty_poll_threshold"`

	// Source selects the event source: mlb or synthetic.
	Source string `koanf:"source"`

	// ScheduleURL and LiveFeedURL locate the statsapi endpoints.
	ScheduleURL string `koanf:"schedule_url"`
	LiveFeedURL string `koanf:"live_feed_url"`

	// ActiveGameStates lists abstract game states treated as in progress.
	ActiveGameStates []string `koanf:"active_game_states"`

	// NotifyCommand and NotifyArgs deliver alerts; the message is appended as the last argument.
	// An empty NotifyCommand logs alerts instead.
	NotifyCommand string   `koanf:"notify_command"`
	NotifyArgs    []string `koanf:"notify_args"`

	// SummaryArgs are passed to NotifyCommand before the recap text.
	SummaryArgs []string `koanf:"summary_args"`

	// NotifyQueueSize bounds the alert outbox.
	NotifyQueueSize int `koanf:"notify_queue_size"`

	// NotifyTimeoutMS bounds a single delivery.
	NotifyTimeoutMS int `koanf:"notify_timeout_ms"`

	// SummaryDays is the recap window in snapshots.
	SummaryDays int `koanf:"summary_days"`

	// ExportPath is where the dashboard export is written.
	ExportPath string `koanf:"export_path"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		DataDir:            ".",
		SnapshotDir:        "./daily-snapshots",
		RosterPath:         "./drafted-players.json",
		GroupMapPath:       "./player_team_mapping.json",
		Timezone:           "America/New_York",
		DayOffsetHours:     6,
		PollIntervalMS:     60_000,
		ScheduleTimeoutMS:  10_000,
		FeedTimeoutMS:      3_000,
		FetchWorkers:       4,
		EmptyPollThreshold: 2,
		Source:             "mlb",
		ScheduleURL:        "https://statsapi.mlb.com/api/v1/schedule",
		LiveFeedURL:        "https://statsapi.mlb.com/api/v1.1/game",
		ActiveGameStates:   []string{"Live", "Warmup", "In Progress", "Pre-Game"},
		NotifyCommand:      "osascript",
		NotifyArgs:         []string{"./sendMessage.applescript"},
		SummaryArgs:        []string{"./sendMessage_summary.applescript", "Dingers only"},
		NotifyQueueSize:    256,
		NotifyTimeoutMS:    15_000,
		SummaryDays:        3,
		ExportPath:         "./public/data/latest.json",
	}
}

// PollInterval returns PollIntervalMS as a duration.
func (c *Config) PollInterval() time.Duration { return ms(c.PollIntervalMS) }

// ScheduleTimeout returns ScheduleTimeoutMS as a duration.
func (c *Config) ScheduleTimeout() time.Duration { return ms(c.ScheduleTimeoutMS) }

// FeedTimeout returns FeedTimeoutMS as a duration.
func (c *Config) FeedTimeout() time.Duration { return ms(c.FeedTimeoutMS) }

// NotifyTimeout returns NotifyTimeoutMS as a duration.
func (c *Config) NotifyTimeout() time.Duration { return ms(c.NotifyTimeoutMS) }

// DayOffset returns DayOffsetHours as a duration.
func (c *Config) DayOffset() time.Duration { return time.Duration(c.DayOffsetHours) * time.Hour }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
