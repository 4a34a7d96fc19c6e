// Package source defines where candidate home runs come from.
package source

import (
	"context"

	"github.com/okian/dinger/internal/domain/model"
)

// Game is one scheduled game on a logical day.
type Game struct {
	ID    string
	State string
	Away  string
	Home  string
}

// Source reports active games and the home runs hit in them so far.
// HomeRuns may repeat events across calls; callers deduplicate by ID.
type Source interface {
	ActiveGames(ctx context.Context, day string) ([]Game, error)
	HomeRuns(ctx context.Context, game Game) ([]model.Event, error)
}
