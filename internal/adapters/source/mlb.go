package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/dinger/internal/domain/model"
	"github.com/okian/dinger/pkg/clock"
	"github.com/okian/dinger/pkg/logger"
)

// Default statsapi endpoints and request limits.
const (
	DefaultScheduleURL = "https://statsapi.mlb.com/api/v1/schedule"
	DefaultLiveFeedURL = "https://statsapi.mlb.com/api/v1.1/game"

	homeRunEvent    = "home_run"
	maxResponseSize = 32 << 20
)

// DefaultActiveStates are the abstract game states polled for plays.
var DefaultActiveStates = []string{"Live", "Warmup", "In Progress", "Pre-Game"}

// MLB reads the public MLB statsapi.
type MLB struct {
	http        *http.Client
	scheduleURL string
	liveFeedURL string
	active      map[string]struct{}
	clock       clock.Clock
	logger      logger.Logger
}

var _ Source = (*MLB)(nil)

// NewMLB creates a statsapi client.
func NewMLB(opts ...Option) *MLB {
	m := &MLB{
		http:        &http.Client{},
		scheduleURL: DefaultScheduleURL,
		liveFeedURL: DefaultLiveFeedURL,
		active:      toSet(DefaultActiveStates),
		clock:       clock.Real(),
		logger:      logger.Get().Named("mlb"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type scheduleResponse struct {
	Dates []struct {
		Date  string         `json:"date"`
		Games []scheduleGame `json:"games"`
	} `json:"dates"`
}

type scheduleGame struct {
	GamePk int64 `json:"gamePk"`
	Status struct {
		AbstractGameState string `json:"abstractGameState"`
		DetailedState     string `json:"detailedState"`
	} `json:"status"`
	Teams struct {
		Away teamSide `json:"away"`
		Home teamSide `json:"home"`
	} `json:"teams"`
}

type teamSide struct {
	Team struct {
		Name string `json:"name"`
	} `json:"team"`
}

// ActiveGames returns the day's games whose state is active.
func (m *MLB) ActiveGames(ctx context.Context, day string) ([]Game, error) {
	u, err := url.Parse(m.scheduleURL)
	if err != nil {
		return nil, fmt.Errorf("schedule url: %w", err)
	}
	q := u.Query()
	q.Set("sportId", "1")
	q.Set("date", day)
	u.RawQuery = q.Encode()

	var resp scheduleResponse
	if err := m.getJSON(ctx, u.String(), &resp); err != nil {
		return nil, fmt.Errorf("schedule %s: %w", day, err)
	}

	games := []Game{}
	if len(resp.Dates) == 0 {
		return games, nil
	}
	for _, g := range resp.Dates[0].Games {
		if _, ok := m.active[g.Status.AbstractGameState]; !ok {
			continue
		}
		games = append(games, Game{
			ID:    strconv.FormatInt(g.GamePk, 10),
			State: g.Status.AbstractGameState,
			Away:  g.Teams.Away.Team.Name,
			Home:  g.Teams.Home.Team.Name,
		})
	}
	return games, nil
}

type liveFeed struct {
	LiveData *struct {
		Plays *struct {
			AllPlays []play `json:"allPlays"`
		} `json:"plays"`
	} `json:"liveData"`
}

type play struct {
	Result struct {
		EventType string `json:"eventType"`
	} `json:"result"`
	About struct {
		AtBatIndex *int   `json:"atBatIndex"`
		EndTime    string `json:"endTime"`
	} `json:"about"`
	PlayEndTime string `json:"playEndTime"`
	Matchup     struct {
		Batter struct {
			FullName string `json:"fullName"`
		} `json:"batter"`
	} `json:"matchup"`
	PlayEvents []playEvent `json:"playEvents"`
}

type playEvent struct {
	HitData *struct {
		TotalDistance *float64     `json:"totalDistance"`
		LaunchAngle   *float64     `json:"launchAngle"`
		LaunchSpeed   *float64     `json:"launchSpeed"`
		Coordinates   *coordinates `json:"coordinates"`
	} `json:"hitData"`
	Coordinates *coordinates `json:"coordinates"`
}

type coordinates struct {
	CoordX *float64 `json:"coordX"`
	CoordY *float64 `json:"coordY"`
}

// HomeRuns returns every home run in the game's live feed so far.
func (m *MLB) HomeRuns(ctx context.Context, game Game) ([]model.Event, error) {
	feedURL := strings.TrimRight(m.liveFeedURL, "/") + "/" + url.PathEscape(game.ID) + "/feed/live"

	var feed liveFeed
	if err := m.getJSON(ctx, feedURL, &feed); err != nil {
		return nil, fmt.Errorf("live feed %s: %w", game.ID, err)
	}
	if feed.LiveData == nil || feed.LiveData.Plays == nil {
		return nil, fmt.Errorf("%w: game %s", ErrIncompleteFeed, game.ID)
	}

	events := []model.Event{}
	for i := range feed.LiveData.Plays.AllPlays {
		p := &feed.LiveData.Plays.AllPlays[i]
		if p.Result.EventType != homeRunEvent {
			continue
		}
		events = append(events, m.toEvent(game.ID, p))
	}
	return events, nil
}

func (m *MLB) toEvent(gameID string, p *play) model.Event {
	ev := model.Event{
		ID:        playID(gameID, p),
		Subject:   p.Matchup.Batter.FullName,
		GameID:    gameID,
		Timestamp: m.playTime(p),
	}
	for _, pe := range p.PlayEvents {
		if pe.HitData == nil || pe.HitData.TotalDistance == nil {
			continue
		}
		ev.Distance = pe.HitData.TotalDistance
		ev.LaunchAngle = pe.HitData.LaunchAngle
		ev.LaunchSpeed = pe.HitData.LaunchSpeed
		c := pe.HitData.Coordinates
		if c == nil {
			c = pe.Coordinates
		}
		if c != nil {
			ev.X, ev.Y = c.CoordX, c.CoordY
		}
		break
	}
	return ev
}

// playID is the play end time, or gamePk-atBatIndex when the feed has none.
func playID(gameID string, p *play) string {
	if p.PlayEndTime != "" {
		return p.PlayEndTime
	}
	idx := "undefined"
	if p.About.AtBatIndex != nil {
		idx = strconv.Itoa(*p.About.AtBatIndex)
	}
	return gameID + "-" + idx
}

func (m *MLB) playTime(p *play) time.Time {
	for _, s := range []string{p.PlayEndTime, p.About.EndTime} {
		if s == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UTC()
		}
	}
	return m.clock.Now().UTC()
}

func (m *MLB) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	m.logger.Debug(ctx, "fetched", logger.String("url", rawURL))
	return nil
}
