package model_test

import (
	"encoding/json"
	"testing"
	"time"

	model "github.com/okian/dinger/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestNewRecord(t *testing.T) {
	convey.Convey("Given an event with partial hit data", t, func() {
		ts := time.Date(2025, 7, 19, 23, 10, 0, 0, time.UTC)
		e := model.Event{
			ID:        "2025-07-19T23:10:00.000Z",
			Subject:   "Cal Raleigh",
			Distance:  model.Float(412),
			X:         model.Float(30.5),
			Timestamp: ts,
		}

		convey.Convey("When enriched with a group", func() {
			r := model.NewRecord(e, "Big Dumpers")

			convey.Convey("Then the record carries the event fields", func() {
				convey.So(r.Player, convey.ShouldEqual, "Cal Raleigh")
				convey.So(r.Team, convey.ShouldEqual, "Big Dumpers")
				convey.So(*r.Distance, convey.ShouldEqual, 412)
				convey.So(r.Timestamp, convey.ShouldEqual, ts)
				convey.So(r.HasSpray(), convey.ShouldBeFalse)
			})

			convey.Convey("Then unknown fields serialize as null or are omitted", func() {
				r.Distance = nil
				raw, err := json.Marshal(r)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(raw), convey.ShouldContainSubstring, `"distance":null`)
				convey.So(string(raw), convey.ShouldNotContainSubstring, "launchAngle")
				convey.So(string(raw), convey.ShouldContainSubstring, `"x":30.5`)
			})
		})
	})
}

func TestSubjectTotalShape(t *testing.T) {
	convey.Convey("Given a player total written by an earlier season", t, func() {
		raw := []byte(`{"Cal Raleigh": {"homeRuns": 2, "distances": [412, 398.5]}}`)

		convey.Convey("When it is decoded and encoded again", func() {
			var totals map[string]model.SubjectTotal
			convey.So(json.Unmarshal(raw, &totals), convey.ShouldBeNil)
			out, err := json.Marshal(totals["Cal Raleigh"])
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the count and distances keep their keys", func() {
				convey.So(totals["Cal Raleigh"].HomeRuns, convey.ShouldEqual, 2)
				convey.So(totals["Cal Raleigh"].Distances, convey.ShouldResemble, []float64{412, 398.5})
				convey.So(string(out), convey.ShouldEqual, `{"homeRuns":2,"distances":[412,398.5]}`)
			})
		})
	})
}

func TestClones(t *testing.T) {
	convey.Convey("Given season totals", t, func() {
		subjects := map[string]model.SubjectTotal{"A": {HomeRuns: 2, Distances: []float64{400, 410}}}
		groups := map[string]int{"G": 2}

		convey.Convey("When cloned and the clone is mutated", func() {
			sc := model.CloneSubjectTotals(subjects)
			gc := model.CloneGroupTotals(groups)
			st := sc["A"]
			st.Distances[0] = 1
			sc["A"] = st
			gc["G"] = 99

			convey.Convey("Then the originals are untouched", func() {
				convey.So(subjects["A"].Distances[0], convey.ShouldEqual, 400)
				convey.So(groups["G"], convey.ShouldEqual, 2)
			})
		})

		convey.Convey("Then cloning nil records yields an empty list", func() {
			raw, _ := json.Marshal(model.CloneRecords(nil))
			convey.So(string(raw), convey.ShouldEqual, "[]")
		})
	})
}
