package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okian/dinger/internal/domain/model"
	"github.com/okian/dinger/internal/domain/ranking"
)

// Defaults for the recap.
const (
	DefaultDays         = 3
	DefaultHotThreshold = 2
	DefaultShare        = 0.33
	topAverageCount     = 3
	topAverageMinimum   = 2
	none                = "None"
	notAvailable        = "N/A"
)

// Summarizer renders the daily recap message.
type Summarizer struct {
	days     int
	groups   GroupLookup
	location *time.Location
}

// SummaryOption configures a Summarizer.
type SummaryOption func(*Summarizer)

// WithDays sets the recap window in snapshots.
func WithDays(n int) SummaryOption {
	return func(s *Summarizer) {
		if n >= 2 {
			s.days = n
		}
	}
}

// WithLocation sets the zone used to print season-longest dates.
func WithLocation(loc *time.Location) SummaryOption {
	return func(s *Summarizer) {
		if loc != nil {
			s.location = loc
		}
	}
}

// NewSummarizer creates a Summarizer resolving teams through groups.
func NewSummarizer(groups GroupLookup, opts ...SummaryOption) *Summarizer {
	s := &Summarizer{days: DefaultDays, groups: groups, location: time.UTC}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Days returns the recap window.
func (s *Summarizer) Days() int { return s.days }

// Summarize renders the recap for the newest of snaps, which must be in
// ascending date order. Trends and hot players use the last Days()
// snapshots; the season longest scans all of snaps.
func (s *Summarizer) Summarize(snaps []model.Snapshot) (string, error) {
	if len(snaps) < s.days {
		return "", fmt.Errorf("%w: need %d, have %d", ErrNotEnoughSnapshots, s.days, len(snaps))
	}
	window := snaps[len(snaps)-s.days:]
	prev, curr := window[len(window)-2], window[len(window)-1]

	var b strings.Builder
	fmt.Fprintf(&b, "🗓️ Recap for %s\n\n", shortDate(curr.Date))

	b.WriteString("🏆 Dinger Standings 🏆\n\n")
	b.WriteString(strings.Join(StandingsLines(curr.TeamTotals), "\n"))
	b.WriteString("\n\n")

	rising, falling := Movers(RankChanges(prev.TeamTotals, curr.TeamTotals))
	b.WriteString("📈 Stock Rising 📈\n\n")
	b.WriteString(trendText(rising, "+"))
	b.WriteString("\n\n📉 Stock Falling 📉\n\n")
	b.WriteString(trendText(falling, ""))

	b.WriteString("\n\n======== #ANALytics ========\n\n")

	b.WriteString("📏 Longest Gat – Today\n\n")
	if r, ok := Longest(curr.HomeRuns); ok {
		fmt.Fprintf(&b, "%s – %s ft.", r.Player, feet(*r.Distance))
	} else {
		b.WriteString(notAvailable)
	}

	b.WriteString("\n\n📏 Longest Gat – Season\n\n")
	var season []model.Record
	for _, snap := range snaps {
		season = append(season, snap.HomeRuns...)
	}
	if r, ok := Longest(season); ok {
		when := "earlier"
		if !r.Timestamp.IsZero() {
			when = r.Timestamp.In(s.location).Format("January 2")
		}
		fmt.Fprintf(&b, "%s – %s ft. (%s)", r.Player, feet(*r.Distance), when)
	} else {
		b.WriteString(notAvailable)
	}

	fmt.Fprintf(&b, "\n\n📊 Top %d Avg. HR Distances (min. %d HRs)\n\n", topAverageCount, topAverageMinimum)
	avgs := TopAverages(curr.PlayerTotals, topAverageCount, topAverageMinimum)
	if len(avgs) == 0 {
		b.WriteString(notAvailable)
	}
	for i, a := range avgs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s: %d ft.", a.Player, a.Distance)
	}

	fmt.Fprintf(&b, "\n\n👨‍🍳 Let Them Cook 🔥\n(%d+ dingers in past %d days)\n\n", DefaultHotThreshold, s.days)
	hot := HotPlayers(window, DefaultHotThreshold)
	if len(hot) == 0 {
		b.WriteString(none)
	}
	for i, h := range hot {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s: %d HRs", h.Player, h.Gained)
	}

	fmt.Fprintf(&b, "\n\n💪 Carrying Harder than 2018 Lebron\n(≥ %d%% of team's total HRs)\n\n", int(DefaultShare*100))
	heavy := HeavyLifters(curr.PlayerTotals, curr.TeamTotals, s.groups, DefaultShare)
	if len(heavy) == 0 {
		b.WriteString(none)
	}
	for i, h := range heavy {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s (%s): %d%%", h.Player, h.Team, h.PctOfTeam)
	}

	return b.String(), nil
}

// StandingsLines formats "<rank>. <team> (<n> HRs)" in standings order.
func StandingsLines(totals map[string]int) []string {
	standings := ranking.Standings(totals)
	lines := make([]string, len(standings))
	for i, st := range standings {
		lines[i] = fmt.Sprintf("%s. %s (%d HRs)", st.Rank, st.Team, st.Total)
	}
	return lines
}

func trendText(trends []Trend, sign string) string {
	if len(trends) == 0 {
		return none
	}
	lines := make([]string, len(trends))
	for i, t := range trends {
		lines[i] = fmt.Sprintf("[%s%d] %s", sign, t.Delta, t.Team)
	}
	return strings.Join(lines, "\n")
}

// shortDate turns YYYY-MM-DD into MM/DD/YY.
func shortDate(day string) string {
	parts := strings.Split(day, "-")
	if len(parts) != 3 || len(parts[0]) != 4 {
		return day
	}
	return parts[1] + "/" + parts[2] + "/" + parts[0][2:]
}

func feet(d float64) string { return strconv.FormatFloat(d, 'f', -1, 64) }
