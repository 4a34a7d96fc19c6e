// Command snapshot freezes one logical day's home runs together with the
// season totals, then empties that day's live buffer.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	app "github.com/okian/dinger/internal/app"
	"github.com/okian/dinger/internal/config"
	"github.com/okian/dinger/internal/domain/snapshot"
	"github.com/okian/dinger/pkg/logger"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		os.Stderr.WriteString("snapshot: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("snapshot", pflag.ContinueOnError)
	configPath := flags.String("config", os.Getenv(config.EnvConfig), "YAML config file")
	day := flags.String("day", "", "logical day to finalize (YYYY-MM-DD), default today")
	allowEmpty := flags.Bool("allow-empty", false, "write an empty snapshot when the day has no buffer")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadFrom(ctx, *configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.InitWithWriter(os.Stdout, cfg.LogFormat); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	_ = logger.SetLevelString(cfg.LogLevel)
	log := logger.Get().Named("snapshot")

	env, err := app.Open(cfg, log)
	if err != nil {
		return err
	}
	if *day == "" {
		*day = env.Days.Current()
	}

	snap, err := snapshot.New(env.Store,
		snapshot.WithEmptyDayPolicy(*allowEmpty),
		snapshot.WithLogger(log),
	).Finalize(ctx, *day)
	switch {
	case errors.Is(err, snapshot.ErrBufferReset):
		log.Warn(ctx, "snapshot saved but live buffer not reset", logger.String("day", *day), logger.Error(err))
	case err != nil:
		return err
	}

	log.Info(ctx, "snapshot saved",
		logger.String("day", snap.Date),
		logger.Int("home_runs", len(snap.HomeRuns)),
		logger.Int("teams", len(snap.TeamTotals)),
	)
	return nil
}
