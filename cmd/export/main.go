// Command export writes the dashboard payload for one finalized day.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/okian/dinger/internal/adapters/repository"
	app "github.com/okian/dinger/internal/app"
	"github.com/okian/dinger/internal/config"
	"github.com/okian/dinger/internal/report"
	"github.com/okian/dinger/pkg/logger"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		os.Stderr.WriteString("export: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("export", pflag.ContinueOnError)
	configPath := flags.String("config", os.Getenv(config.EnvConfig), "YAML config file")
	day := flags.String("day", "", "snapshot day to export (YYYY-MM-DD), default yesterday")
	out := flags.String("out", "", "output path (default export_path)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadFrom(ctx, *configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *out == "" {
		*out = cfg.ExportPath
	}
	if err := logger.InitWithWriter(os.Stdout, cfg.LogFormat); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	_ = logger.SetLevelString(cfg.LogLevel)
	log := logger.Get().Named("export")

	env, err := app.Open(cfg, log)
	if err != nil {
		return err
	}
	if *day == "" {
		*day = env.Days.Previous()
	}
	players, err := env.Roster()
	if err != nil {
		return err
	}
	snap, err := env.Store.ReadSnapshot(ctx, *day)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", *day, err)
	}

	exp := report.BuildExport(snap, players, time.Now())
	if err := repository.WriteJSONFile(*out, exp); err != nil {
		return err
	}
	log.Info(ctx, "exported",
		logger.String("day", *day),
		logger.String("path", *out),
		logger.Int("spray", len(exp.Spray)),
	)
	return nil
}
