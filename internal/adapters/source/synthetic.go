package source

import (
	"context"
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/okian/dinger/internal/domain/model"
	"github.com/okian/dinger/pkg/clock"
)

// Ranges for generated batted-ball data.
const (
	minDistance    = 340.0
	distanceRange  = 140.0
	minLaunchAngle = 18.0
	angleRange     = 22.0
	minLaunchSpeed = 98.0
	speedRange     = 18.0
	sprayMin       = 20.0
	sprayRange     = 210.0
)

// SyntheticConfig shapes a Synthetic source.
type SyntheticConfig struct {
	Games       int     // concurrent games per day
	ActivePolls int     // schedule polls that report games; 0 means unlimited
	Rate        float64 // chance per feed fetch of a new home run
	Seed        uint64
	Clock       clock.Clock
}

// Synthetic generates plausible home runs for a roster, for dry runs.
// Like the live feed, every fetch of a game returns all of that game's
// home runs so far.
type Synthetic struct {
	subjects []string
	cfg      SyntheticConfig

	mu     sync.Mutex
	polls  int
	rng    *rand.Rand
	played map[string][]model.Event
}

var _ Source = (*Synthetic)(nil)

// NewSynthetic creates a generator drawing batters from subjects.
func NewSynthetic(subjects []string, cfg SyntheticConfig) *Synthetic {
	if cfg.Games <= 0 {
		cfg.Games = 1
	}
	if cfg.Rate <= 0 || cfg.Rate > 1 {
		cfg.Rate = 0.25
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	return &Synthetic{
		subjects: append([]string(nil), subjects...),
		cfg:      cfg,
		rng:      rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		played:   make(map[string][]model.Event),
	}
}

// ActiveGames reports cfg.Games games until ActivePolls is exhausted.
func (s *Synthetic) ActiveGames(_ context.Context, day string) ([]Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.polls++
	if s.cfg.ActivePolls > 0 && s.polls > s.cfg.ActivePolls {
		return []Game{}, nil
	}
	games := make([]Game, s.cfg.Games)
	for i := range games {
		games[i] = Game{
			ID:    day + "-" + strconv.Itoa(i+1),
			State: "Live",
			Away:  "Away " + strconv.Itoa(i+1),
			Home:  "Home " + strconv.Itoa(i+1),
		}
	}
	return games, nil
}

// HomeRuns returns the game's home runs so far, possibly adding one.
func (s *Synthetic) HomeRuns(ctx context.Context, game Game) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.subjects) > 0 && s.rng.Float64() < s.cfg.Rate {
		s.played[game.ID] = append(s.played[game.ID], s.generate(game.ID))
	}
	return append([]model.Event{}, s.played[game.ID]...), nil
}

func (s *Synthetic) generate(gameID string) model.Event {
	ev := model.Event{
		ID:          uuid.NewString(),
		Subject:     s.subjects[s.rng.IntN(len(s.subjects))],
		GameID:      gameID,
		LaunchAngle: model.Float(round(minLaunchAngle + s.rng.Float64()*angleRange)),
		LaunchSpeed: model.Float(round(minLaunchSpeed + s.rng.Float64()*speedRange)),
		X:           model.Float(round(sprayMin + s.rng.Float64()*sprayRange)),
		Y:           model.Float(round(sprayMin + s.rng.Float64()*sprayRange)),
		Timestamp:   s.cfg.Clock.Now().UTC(),
	}
	// Some real plays carry no distance.
	if s.rng.IntN(10) > 0 {
		ev.Distance = model.Float(float64(int(minDistance + s.rng.Float64()*distanceRange)))
	}
	return ev
}

func round(v float64) float64 {
	return float64(int(v*10)) / 10
}
