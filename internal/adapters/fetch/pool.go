package fetch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/dinger/internal/adapters/source"
	"github.com/okian/dinger/internal/domain/model"
	"github.com/okian/dinger/pkg/logger"
	"github.com/okian/dinger/pkg/metrics"
)

// Default pool configuration constants.
const (
	defaultWorkers = 4
	defaultTimeout = 3 * time.Second
	stageFeed      = "feed"
)

// Feeds is the part of a source the pool reads.
type Feeds interface {
	HomeRuns(ctx context.Context, game source.Game) ([]model.Event, error)
}

// Result is the outcome of reading one game's feed.
type Result struct {
	Game    source.Game
	Events  []model.Event
	Err     error
	Elapsed time.Duration
}

// Pool reads feeds concurrently. Every read is an independent unit: a slow
// or failing game never affects the others.
type Pool struct {
	feeds   Feeds
	workers int
	timeout time.Duration
	logger  logger.Logger
}

// NewPool creates a pool over feeds.
func NewPool(feeds Feeds, opts ...Option) *Pool {
	p := &Pool{
		feeds:   feeds,
		workers: defaultWorkers,
		timeout: defaultTimeout,
		logger:  logger.Get().Named("fetch-pool"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fetch reads every game and returns the results in the order of games.
// Failures are reported per result, never as a whole.
func (p *Pool) Fetch(ctx context.Context, games []source.Game) []Result {
	results := make([]Result, len(games))

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, game := range games {
		g.Go(func() error {
			results[i] = p.fetchOne(ctx, game)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (p *Pool) fetchOne(ctx context.Context, game source.Game) Result {
	start := time.Now()
	fctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	events, err := p.feeds.HomeRuns(fctx, game)
	elapsed := time.Since(start)
	metrics.RecordFetchLatency(stageFeed, float64(elapsed.Milliseconds()))

	if err != nil {
		metrics.RecordFetchError(stageFeed)
		p.logger.Warn(ctx, "could not fetch live data",
			logger.String("game", game.ID),
			logger.Duration("elapsed", elapsed),
			logger.Error(err),
		)
		return Result{Game: game, Err: err, Elapsed: elapsed}
	}
	return Result{Game: game, Events: events, Elapsed: elapsed}
}
