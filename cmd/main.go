// Command dinger watches live games for home runs by followed players,
// keeps season totals and a per-day buffer, and sends an alert for each
// new home run.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/dinger/internal/adapters/fetch"
	"github.com/okian/dinger/internal/adapters/http/api"
	"github.com/okian/dinger/internal/adapters/notify"
	"github.com/okian/dinger/internal/adapters/source"
	app "github.com/okian/dinger/internal/app"
	"github.com/okian/dinger/internal/config"
	"github.com/okian/dinger/pkg/logger"

	"github.com/spf13/pflag"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// Synthetic source defaults.
const (
	syntheticGames = 4
	syntheticRate  = 0.15
)

// feedSource lists games and reads their home runs.
type feedSource interface {
	app.Schedule
	fetch.Feeds
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		// Use stderr since the logger may not be available
		os.Stderr.WriteString("dinger: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("dinger", pflag.ContinueOnError)
	configPath := flags.String("config", os.Getenv(config.EnvConfig), "YAML config file")
	sourceName := flags.String("source", "", "event source: mlb or synthetic")
	once := flags.Bool("once", false, "run a single polling tick and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.LoadFrom(ctx, *configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *sourceName != "" {
		cfg.Source = *sourceName
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if err := logger.InitWithWriter(os.Stdout, cfg.LogFormat); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get().Named("dinger")

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	env, err := app.Open(cfg, log)
	if err != nil {
		return err
	}
	players, err := env.Roster()
	if err != nil {
		return err
	}

	dispatcher := notify.NewDispatcher(
		notify.New(cfg.NotifyCommand, cfg.NotifyArgs, log.Named("notify")),
		notify.WithQueueSize(cfg.NotifyQueueSize),
		notify.WithSendTimeout(cfg.NotifyTimeout()),
		notify.WithLogger(log.Named("notify")),
	)
	// Queued alerts are drained by Shutdown, not dropped on interrupt.
	dispatcher.Start(context.WithoutCancel(ctx))

	svc := app.New(env.Store, players, env.Days,
		app.WithAlerter(dispatcher),
		app.WithLogger(log.Named("service")),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	var src feedSource
	switch cfg.Source {
	case "synthetic":
		src = source.NewSynthetic(players.Subjects(), source.SyntheticConfig{
			Games: syntheticGames,
			Rate:  syntheticRate,
			Seed:  uint64(time.Now().UnixNano()),
		})
	default:
		src = source.NewMLB(
			source.WithScheduleURL(cfg.ScheduleURL),
			source.WithLiveFeedURL(cfg.LiveFeedURL),
			source.WithActiveStates(cfg.ActiveGameStates),
			source.WithLogger(log.Named("source")),
		)
	}
	pool := fetch.NewPool(src,
		fetch.WithWorkers(cfg.FetchWorkers),
		fetch.WithTimeout(cfg.FeedTimeout()),
		fetch.WithLogger(log.Named("fetch")),
	)
	watcher := app.NewWatcher(svc, src, pool,
		app.WithPollInterval(cfg.PollInterval()),
		app.WithScheduleTimeout(cfg.ScheduleTimeout()),
		app.WithEmptyPollThreshold(cfg.EmptyPollThreshold),
		app.WithWatcherLogger(log.Named("watcher")),
	)

	var srv *http.Server
	if cfg.Addr != "" {
		mux := http.NewServeMux()
		api.NewServer(svc).Register(ctx, mux)
		srv = &http.Server{
			Addr:              cfg.Addr,
			Handler:           mux,
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
		}
		go func() {
			log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(ctx, "HTTP server failed", logger.Error(err))
			}
		}()
	}

	log.Info(ctx, "watching",
		logger.String("day", svc.Day()),
		logger.String("source", cfg.Source),
		logger.Int("followed", len(players.Subjects())),
	)

	var runErr error
	if *once {
		_, runErr = watcher.Tick(ctx)
	} else {
		runErr = watcher.Run(ctx)
	}
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "server shutdown failed", logger.Error(err))
		}
	}
	if err := svc.Stop(shutdownCtx); err != nil {
		log.Error(ctx, "final flush failed", logger.Error(err))
		runErr = errors.Join(runErr, err)
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "notifications not drained", logger.Error(err))
	}

	log.Info(ctx, "stopped", logger.String("day", svc.Day()))
	return runErr
}
