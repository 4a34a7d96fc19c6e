package report

import (
	"sort"
	"time"

	"github.com/okian/dinger/internal/domain/model"
)

// TeamTotal is one row of the exported standings.
type TeamTotal struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// PlayerTotal is one row of the exported player leaderboard.
type PlayerTotal struct {
	Player   string `json:"player"`
	HomeRuns int    `json:"hrs"`
	Team     string `json:"team"`
}

// LongestHR is the export's headline home run.
type LongestHR struct {
	Player   string  `json:"player"`
	Distance float64 `json:"distance"`
	Team     string  `json:"team"`
	Date     string  `json:"date"`
}

// Export is the dashboard payload written to latest.json.
type Export struct {
	Updated      time.Time      `json:"updated"`
	Date         string         `json:"date"`
	Teams        []TeamTotal    `json:"teams"`
	Players      []PlayerTotal  `json:"players"`
	HeavyLifters []HeavyLifter  `json:"heavyLifters"`
	Spray        []model.Record `json:"spray"`
	LongestHR    *LongestHR     `json:"longestHr"`
}

// BuildExport derives the dashboard payload from one snapshot.
func BuildExport(snap model.Snapshot, groups GroupLookup, updated time.Time) Export { //nolint:gocritic // hugeParam: snapshots are read-only values
	exp := Export{
		Updated:      updated.UTC(),
		Date:         snap.Date,
		Teams:        make([]TeamTotal, 0, len(snap.TeamTotals)),
		Players:      make([]PlayerTotal, 0, len(snap.PlayerTotals)),
		HeavyLifters: HeavyLifters(snap.PlayerTotals, snap.TeamTotals, groups, DefaultShare),
		Spray:        []model.Record{},
	}
	if exp.HeavyLifters == nil {
		exp.HeavyLifters = []HeavyLifter{}
	}

	for team, total := range snap.TeamTotals {
		exp.Teams = append(exp.Teams, TeamTotal{Name: team, Total: total})
	}
	sort.Slice(exp.Teams, func(i, j int) bool {
		if exp.Teams[i].Total != exp.Teams[j].Total {
			return exp.Teams[i].Total > exp.Teams[j].Total
		}
		return exp.Teams[i].Name < exp.Teams[j].Name
	})

	for player, t := range snap.PlayerTotals {
		exp.Players = append(exp.Players, PlayerTotal{Player: player, HomeRuns: t.HomeRuns, Team: groups.GroupOf(player)})
	}
	sort.Slice(exp.Players, func(i, j int) bool {
		if exp.Players[i].HomeRuns != exp.Players[j].HomeRuns {
			return exp.Players[i].HomeRuns > exp.Players[j].HomeRuns
		}
		return exp.Players[i].Player < exp.Players[j].Player
	})

	for _, r := range snap.HomeRuns {
		if r.HasSpray() {
			exp.Spray = append(exp.Spray, r)
		}
	}

	if r, ok := Longest(snap.HomeRuns); ok {
		exp.LongestHR = &LongestHR{
			Player:   r.Player,
			Distance: *r.Distance,
			Team:     r.Team,
			Date:     r.Timestamp.UTC().Format(time.DateOnly),
		}
	}
	return exp
}
