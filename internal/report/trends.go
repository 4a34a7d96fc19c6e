// Package report derives the daily recap and the dashboard export from
// finalized snapshots.
package report

import (
	"math"
	"sort"

	"github.com/okian/dinger/internal/domain/model"
)

// Trend is a team's movement in the standings between two snapshots.
// Positive deltas are climbs.
type Trend struct {
	Team  string
	Delta int
}

// HotPlayer gained at least the threshold of home runs within the window.
type HotPlayer struct {
	Player string
	Gained int
}

// Average is a player's mean home-run distance in feet, rounded.
type Average struct {
	Player   string
	Distance int
}

// HeavyLifter owns a large share of their team's home runs.
type HeavyLifter struct {
	Player    string `json:"player"`
	HomeRuns  int    `json:"hrs"`
	Team      string `json:"team"`
	PctOfTeam int    `json:"pctOfTeam"`
}

// GroupLookup resolves a player's fantasy team.
type GroupLookup interface {
	GroupOf(subject string) string
}

// Positions returns each team's zero-based index in the standings order.
// Ties are ordered by team name so positions are stable.
func Positions(totals map[string]int) map[string]int {
	teams := make([]string, 0, len(totals))
	for t := range totals {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool {
		if totals[teams[i]] != totals[teams[j]] {
			return totals[teams[i]] > totals[teams[j]]
		}
		return teams[i] < teams[j]
	})
	pos := make(map[string]int, len(teams))
	for i, t := range teams {
		pos[t] = i
	}
	return pos
}

// RankChanges compares standings positions. Teams absent from prev count
// as unchanged.
func RankChanges(prev, curr map[string]int) map[string]int {
	before, after := Positions(prev), Positions(curr)
	out := make(map[string]int, len(after))
	for team, now := range after {
		if was, ok := before[team]; ok {
			out[team] = was - now
			continue
		}
		out[team] = 0
	}
	return out
}

// Movers splits rank changes into climbers and fallers, largest moves first.
func Movers(changes map[string]int) (rising, falling []Trend) {
	for team, d := range changes {
		switch {
		case d > 0:
			rising = append(rising, Trend{Team: team, Delta: d})
		case d < 0:
			falling = append(falling, Trend{Team: team, Delta: d})
		}
	}
	sort.Slice(rising, func(i, j int) bool {
		if rising[i].Delta != rising[j].Delta {
			return rising[i].Delta > rising[j].Delta
		}
		return rising[i].Team < rising[j].Team
	})
	sort.Slice(falling, func(i, j int) bool {
		if falling[i].Delta != falling[j].Delta {
			return falling[i].Delta < falling[j].Delta
		}
		return falling[i].Team < falling[j].Team
	})
	return rising, falling
}

// HotPlayers lists players whose count grew by at least threshold from the
// first snapshot of window to the last.
func HotPlayers(window []model.Snapshot, threshold int) []HotPlayer {
	if len(window) == 0 {
		return nil
	}
	start, end := window[0].PlayerTotals, window[len(window)-1].PlayerTotals
	var out []HotPlayer
	for player, t := range end {
		if d := t.HomeRuns - start[player].HomeRuns; d >= threshold {
			out = append(out, HotPlayer{Player: player, Gained: d})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Gained != out[j].Gained {
			return out[i].Gained > out[j].Gained
		}
		return out[i].Player < out[j].Player
	})
	return out
}

// Longest returns the record with the greatest known distance.
func Longest(records []model.Record) (model.Record, bool) {
	var (
		best  model.Record
		found bool
	)
	for _, r := range records {
		if r.Distance == nil {
			continue
		}
		if !found || *r.Distance > *best.Distance {
			best, found = r, true
		}
	}
	return best, found
}

// TopAverages returns the n best mean distances among players with at least
// minimum known distances.
func TopAverages(totals map[string]model.SubjectTotal, n, minimum int) []Average {
	type avg struct {
		player string
		mean   float64
	}
	var all []avg
	for player, t := range totals {
		if len(t.Distances) < minimum || len(t.Distances) == 0 {
			continue
		}
		var sum float64
		for _, d := range t.Distances {
			sum += d
		}
		all = append(all, avg{player: player, mean: sum / float64(len(t.Distances))})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].mean != all[j].mean {
			return all[i].mean > all[j].mean
		}
		return all[i].player < all[j].player
	})
	if len(all) > n {
		all = all[:n]
	}
	out := make([]Average, len(all))
	for i, a := range all {
		out[i] = Average{Player: a.player, Distance: int(math.Round(a.mean))}
	}
	return out
}

// HeavyLifters lists players carrying at least share of their team's total.
func HeavyLifters(players map[string]model.SubjectTotal, teams map[string]int, groups GroupLookup, share float64) []HeavyLifter {
	var out []HeavyLifter
	for player, t := range players {
		team := groups.GroupOf(player)
		total := teams[team]
		if total <= 0 || t.HomeRuns == 0 {
			continue
		}
		ratio := float64(t.HomeRuns) / float64(total)
		if ratio < share {
			continue
		}
		out = append(out, HeavyLifter{
			Player:    player,
			HomeRuns:  t.HomeRuns,
			Team:      team,
			PctOfTeam: int(math.Round(ratio * 100)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PctOfTeam != out[j].PctOfTeam {
			return out[i].PctOfTeam > out[j].PctOfTeam
		}
		return out[i].Player < out[j].Player
	})
	return out
}
