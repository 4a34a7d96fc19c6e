// Command summary renders the recap of the latest finalized days and
// optionally sends it through the notify command.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/okian/dinger/internal/adapters/notify"
	app "github.com/okian/dinger/internal/app"
	"github.com/okian/dinger/internal/config"
	"github.com/okian/dinger/internal/report"
	"github.com/okian/dinger/pkg/logger"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		os.Stderr.WriteString("summary: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("summary", pflag.ContinueOnError)
	configPath := flags.String("config", os.Getenv(config.EnvConfig), "YAML config file")
	days := flags.Int("days", 0, "recap window in snapshots (default summary_days)")
	send := flags.Bool("send", false, "deliver the recap instead of printing it")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadFrom(ctx, *configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *days <= 0 {
		*days = cfg.SummaryDays
	}
	// Logs go to stderr so the recap alone is printed on stdout.
	if err := logger.InitWithWriter(os.Stderr, cfg.LogFormat); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	_ = logger.SetLevelString(cfg.LogLevel)
	log := logger.Get().Named("summary")

	env, err := app.Open(cfg, log)
	if err != nil {
		return err
	}
	players, err := env.Roster()
	if err != nil {
		return err
	}
	snaps, err := env.Snapshots(ctx)
	if err != nil {
		return err
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return err
	}

	text, err := report.NewSummarizer(players, report.WithDays(*days), report.WithLocation(loc)).Summarize(snaps)
	if err != nil {
		return err
	}

	if !*send {
		fmt.Println(text)
		return nil
	}
	sctx, cancel := context.WithTimeout(ctx, cfg.NotifyTimeout())
	defer cancel()
	notifyArgs := cfg.SummaryArgs
	if len(notifyArgs) == 0 {
		notifyArgs = cfg.NotifyArgs
	}
	if err := notify.New(cfg.NotifyCommand, notifyArgs, log).Notify(sctx, text); err != nil {
		return err
	}
	log.Info(ctx, "summary sent", logger.Int("snapshots", len(snaps)), logger.Int("days", *days))
	return nil
}
