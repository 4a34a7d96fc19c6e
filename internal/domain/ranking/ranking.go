// Package ranking orders fantasy teams by home-run total.
package ranking

import (
	"sort"
	"strconv"

	"github.com/okian/dinger/internal/domain/types"
)

// TiePrefix marks a rank shared by more than one team.
const TiePrefix = "T-"

// Standings sorts teams by total descending (name ascending within a tie)
// and assigns competition ranks with skip: tied teams share "T-n" and the
// next distinct total is ranked n plus the number of tied teams.
//
//	{A:10, B:10, C:8} -> T-1, T-1, 3
func Standings(totals map[string]int) []types.Standing {
	out := make([]types.Standing, 0, len(totals))
	for team, total := range totals {
		out = append(out, types.Standing{Team: team, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Team < out[j].Team
	})

	position := 1
	for i := 0; i < len(out); {
		j := i
		for j < len(out) && out[j].Total == out[i].Total {
			j++
		}
		label := strconv.Itoa(position)
		if j-i > 1 {
			label = TiePrefix + label
		}
		for k := i; k < j; k++ {
			out[k].Rank = label
		}
		position += j - i
		i = j
	}
	return out
}

// RankGroups returns the rank label for every team in totals.
func RankGroups(totals map[string]int) map[string]string {
	ranks := make(map[string]string, len(totals))
	for _, s := range Standings(totals) {
		ranks[s.Team] = s.Rank
	}
	return ranks
}
