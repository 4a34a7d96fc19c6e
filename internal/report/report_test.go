package report_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/dinger/internal/domain/model"
	"github.com/okian/dinger/internal/report"
	"github.com/okian/dinger/internal/roster"
	"github.com/smartystreets/goconvey/convey"
)

func hr(player, team string, dist float64, ts string) model.Record {
	t, _ := time.Parse(time.RFC3339, ts)
	return model.Record{Player: player, Team: team, Distance: model.Float(dist), Timestamp: t}
}

func season() []model.Snapshot {
	today := []model.Record{
		hr("Al", "A", 401, "2025-07-19T18:00:00Z"),
		hr("Cy", "C", 455, "2025-07-19T20:00:00Z"),
		hr("Cy", "C", 380, "2025-07-19T21:00:00Z"),
		hr("Cy", "C", 410, "2025-07-19T22:00:00Z"),
		{Player: "Cy", Team: "C", Timestamp: time.Date(2025, 7, 19, 23, 0, 0, 0, time.UTC)},
	}
	today[2].X, today[2].Y = model.Float(120.5), model.Float(80)
	return []model.Snapshot{
		{
			Date:       "2025-07-17",
			TeamTotals: map[string]int{"A": 5, "B": 4, "C": 1},
			PlayerTotals: map[string]model.SubjectTotal{
				"Al": {HomeRuns: 3}, "Ann": {HomeRuns: 2}, "Bo": {HomeRuns: 4}, "Cy": {HomeRuns: 1},
			},
			HomeRuns: []model.Record{hr("Bo", "B", 470, "2025-07-17T23:00:00Z")},
		},
		{
			Date:       "2025-07-18",
			TeamTotals: map[string]int{"A": 5, "B": 6, "C": 1},
			PlayerTotals: map[string]model.SubjectTotal{
				"Al": {HomeRuns: 3}, "Ann": {HomeRuns: 2}, "Bo": {HomeRuns: 6}, "Cy": {HomeRuns: 1},
			},
			HomeRuns: []model.Record{hr("Bo", "B", 420, "2025-07-18T23:00:00Z"), hr("Bo", "B", 390, "2025-07-18T23:30:00Z")},
		},
		{
			Date:       "2025-07-19",
			TeamTotals: map[string]int{"A": 6, "B": 6, "C": 4},
			PlayerTotals: map[string]model.SubjectTotal{
				"Al":  {HomeRuns: 4, Distances: []float64{400, 402}},
				"Ann": {HomeRuns: 2, Distances: []float64{450}},
				"Bo":  {HomeRuns: 6, Distances: []float64{420, 390, 430}},
				"Cy":  {HomeRuns: 4, Distances: []float64{455, 380, 410, 395}},
			},
			HomeRuns: today,
		},
	}
}

func groups() *roster.Roster {
	return roster.New([]string{"Al", "Ann", "Bo", "Cy"}, map[string]string{"Al": "A", "Ann": "A", "Bo": "B", "Cy": "C"})
}

func TestTrends(t *testing.T) {
	convey.Convey("Given two consecutive standings", t, func() {
		prev := map[string]int{"A": 5, "B": 6, "C": 1}
		curr := map[string]int{"A": 6, "B": 6, "C": 4, "D": 0}

		convey.Convey("When rank changes are computed", func() {
			changes := report.RankChanges(prev, curr)

			convey.Convey("Then deltas are position differences and new teams are flat", func() {
				convey.So(changes, convey.ShouldResemble, map[string]int{"A": 1, "B": -1, "C": 0, "D": 0})
			})

			convey.Convey("Then movers are split by direction", func() {
				rising, falling := report.Movers(changes)
				convey.So(rising, convey.ShouldResemble, []report.Trend{{Team: "A", Delta: 1}})
				convey.So(falling, convey.ShouldResemble, []report.Trend{{Team: "B", Delta: -1}})
			})
		})
	})

	convey.Convey("Given a three day window", t, func() {
		hot := report.HotPlayers(season(), 2)

		convey.Convey("Then only players gaining two or more are hot", func() {
			convey.So(hot, convey.ShouldResemble, []report.HotPlayer{{Player: "Cy", Gained: 3}, {Player: "Bo", Gained: 2}})
		})
	})
}

func TestAnalytics(t *testing.T) {
	convey.Convey("Given the latest snapshot", t, func() {
		latest := season()[2]

		convey.Convey("Then the longest home run ignores unknown distances", func() {
			r, ok := report.Longest(latest.HomeRuns)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(r.Player, convey.ShouldEqual, "Cy")
			convey.So(*r.Distance, convey.ShouldEqual, 455)

			_, ok = report.Longest([]model.Record{{Player: "X"}})
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("Then top averages need two distances and are rounded", func() {
			avgs := report.TopAverages(latest.PlayerTotals, 3, 2)
			convey.So(avgs, convey.ShouldResemble, []report.Average{
				{Player: "Bo", Distance: 413},
				{Player: "Cy", Distance: 410},
				{Player: "Al", Distance: 401},
			})
		})

		convey.Convey("Then heavy lifters carry at least a third of their team", func() {
			heavy := report.HeavyLifters(latest.PlayerTotals, latest.TeamTotals, groups(), report.DefaultShare)
			convey.So(heavy, convey.ShouldHaveLength, 4)
			convey.So(heavy[0], convey.ShouldResemble, report.HeavyLifter{Player: "Bo", HomeRuns: 6, Team: "B", PctOfTeam: 100})
			convey.So(heavy[2].Player, convey.ShouldEqual, "Al")
			convey.So(heavy[2].PctOfTeam, convey.ShouldEqual, 67)
			convey.So(heavy[3].PctOfTeam, convey.ShouldEqual, 33)
		})

		convey.Convey("Then standings lines carry tie labels", func() {
			convey.So(report.StandingsLines(latest.TeamTotals), convey.ShouldResemble, []string{
				"T-1. A (6 HRs)", "T-1. B (6 HRs)", "3. C (4 HRs)",
			})
		})
	})
}

func TestSummarize(t *testing.T) {
	convey.Convey("Given a summarizer over a three day window", t, func() {
		ny, err := time.LoadLocation("America/New_York")
		convey.So(err, convey.ShouldBeNil)
		s := report.NewSummarizer(groups(), report.WithDays(3), report.WithLocation(ny))

		convey.Convey("When there are too few snapshots", func() {
			_, err := s.Summarize(season()[:2])

			convey.Convey("Then it refuses to render", func() {
				convey.So(errors.Is(err, report.ErrNotEnoughSnapshots), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the window is full", func() {
			text, err := s.Summarize(season())
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then every section is rendered", func() {
				convey.So(text, convey.ShouldStartWith, "🗓️ Recap for 07/19/25\n\n🏆 Dinger Standings 🏆\n\nT-1. A (6 HRs)\nT-1. B (6 HRs)\n3. C (4 HRs)")
				convey.So(text, convey.ShouldContainSubstring, "📈 Stock Rising 📈\n\n[+1] A")
				convey.So(text, convey.ShouldContainSubstring, "📉 Stock Falling 📉\n\n[-1] B")
				convey.So(text, convey.ShouldContainSubstring, "======== #ANALytics ========")
				convey.So(text, convey.ShouldContainSubstring, "📏 Longest Gat – Today\n\nCy – 455 ft.")
				convey.So(text, convey.ShouldContainSubstring, "📏 Longest Gat – Season\n\nBo – 470 ft. (July 17)")
				convey.So(text, convey.ShouldContainSubstring, "📊 Top 3 Avg. HR Distances (min. 2 HRs)\n\n- Bo: 413 ft.\n- Cy: 410 ft.\n- Al: 401 ft.")
				convey.So(text, convey.ShouldContainSubstring, "(2+ dingers in past 3 days)\n\n- Cy: 3 HRs\n- Bo: 2 HRs")
				convey.So(text, convey.ShouldEndWith, "- Ann (A): 33%")
			})
		})

		convey.Convey("When nothing moved and nobody is hot", func() {
			snaps := season()
			for i := range snaps {
				snaps[i].TeamTotals = map[string]int{"A": 1}
				snaps[i].PlayerTotals = map[string]model.SubjectTotal{}
				snaps[i].HomeRuns = nil
			}
			text, err := s.Summarize(snaps)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then empty sections fall back", func() {
				convey.So(text, convey.ShouldContainSubstring, "📈 Stock Rising 📈\n\nNone")
				convey.So(text, convey.ShouldContainSubstring, "📏 Longest Gat – Today\n\nN/A")
				convey.So(strings.Count(text, "None"), convey.ShouldEqual, 4)
			})
		})
	})
}

func TestBuildExport(t *testing.T) {
	convey.Convey("Given the latest snapshot", t, func() {
		now := time.Date(2025, 7, 20, 15, 0, 0, 0, time.UTC)
		exp := report.BuildExport(season()[2], groups(), now)

		convey.Convey("Then teams and players are sorted by total", func() {
			convey.So(exp.Teams, convey.ShouldResemble, []report.TeamTotal{{Name: "A", Total: 6}, {Name: "B", Total: 6}, {Name: "C", Total: 4}})
			convey.So(exp.Players[0], convey.ShouldResemble, report.PlayerTotal{Player: "Bo", HomeRuns: 6, Team: "B"})
			convey.So(exp.Players[1].Player, convey.ShouldEqual, "Al")
			convey.So(exp.Players[2].Player, convey.ShouldEqual, "Cy")
		})

		convey.Convey("Then spray keeps only located home runs", func() {
			convey.So(exp.Spray, convey.ShouldHaveLength, 1)
			convey.So(*exp.Spray[0].X, convey.ShouldEqual, 120.5)
		})

		convey.Convey("Then the longest home run is dated", func() {
			convey.So(exp.LongestHR, convey.ShouldResemble, &report.LongestHR{Player: "Cy", Distance: 455, Team: "C", Date: "2025-07-19"})
		})

		convey.Convey("Then it serializes with dashboard keys", func() {
			raw, err := json.Marshal(exp)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(raw), convey.ShouldContainSubstring, `"heavyLifters":[{"player":"Bo","hrs":6,"team":"B","pctOfTeam":100}`)
			convey.So(string(raw), convey.ShouldContainSubstring, `"updated":"2025-07-20T15:00:00Z"`)
		})
	})

	convey.Convey("Given an empty snapshot", t, func() {
		exp := report.BuildExport(model.Snapshot{Date: "2025-07-20"}, groups(), time.Now())
		raw, _ := json.Marshal(exp)

		convey.Convey("Then lists are empty and there is no longest home run", func() {
			convey.So(string(raw), convey.ShouldContainSubstring, `"spray":[]`)
			convey.So(string(raw), convey.ShouldContainSubstring, `"longestHr":null`)
			convey.So(string(raw), convey.ShouldContainSubstring, `"teams":[]`)
		})
	})
}
