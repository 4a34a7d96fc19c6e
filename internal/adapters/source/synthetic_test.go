package source_test

import (
	"context"
	"testing"

	"github.com/okian/dinger/internal/adapters/source"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSynthetic(t *testing.T) {
	ctx := context.Background()

	Convey("Given a synthetic source that always hits", t, func() {
		s := source.NewSynthetic([]string{"Aaron Judge", "Cal Raleigh"}, source.SyntheticConfig{
			Games: 2, ActivePolls: 2, Rate: 1, Seed: 7,
		})

		Convey("When the schedule is polled", func() {
			games, err := s.ActiveGames(ctx, "2025-07-19")
			So(err, ShouldBeNil)
			So(games, ShouldHaveLength, 2)
			So(games[0].ID, ShouldEqual, "2025-07-19-1")

			Convey("Then games disappear after the configured polls", func() {
				_, _ = s.ActiveGames(ctx, "2025-07-19")
				games, err := s.ActiveGames(ctx, "2025-07-19")
				So(err, ShouldBeNil)
				So(games, ShouldBeEmpty)
			})

			Convey("Then feeds repeat earlier home runs like the live feed", func() {
				first, err := s.HomeRuns(ctx, games[0])
				So(err, ShouldBeNil)
				So(first, ShouldHaveLength, 1)

				second, err := s.HomeRuns(ctx, games[0])
				So(err, ShouldBeNil)
				So(second, ShouldHaveLength, 2)
				So(second[0].ID, ShouldEqual, first[0].ID)
				So(second[1].ID, ShouldNotEqual, first[0].ID)
				So([]string{"Aaron Judge", "Cal Raleigh"}, ShouldContain, second[1].Subject)
			})
		})
	})

	Convey("Given a synthetic source with no roster", t, func() {
		s := source.NewSynthetic(nil, source.SyntheticConfig{Rate: 1})
		events, err := s.HomeRuns(ctx, source.Game{ID: "g"})
		So(err, ShouldBeNil)
		So(events, ShouldBeEmpty)
	})
}
