package repository_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/dinger/internal/adapters/repository"
	"github.com/okian/dinger/internal/domain/model"
	"github.com/okian/dinger/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.InitWithWriter(io.Discard, logger.FormatText)
	os.Exit(m.Run())
}

func newStore(t *testing.T) (*repository.FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := repository.NewFileStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s, dir
}

func TestFileStoreState(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty data directory", t, func() {
		s, dir := newStore(t)

		Convey("Then every load yields the zero state", func() {
			ids, err := s.LoadSeen(ctx)
			So(err, ShouldBeNil)
			So(ids, ShouldBeEmpty)

			subjects, err := s.LoadSubjectTotals(ctx)
			So(err, ShouldBeNil)
			So(subjects, ShouldNotBeNil)
			So(subjects, ShouldBeEmpty)

			groups, err := s.LoadGroupTotals(ctx)
			So(err, ShouldBeNil)
			So(groups, ShouldBeEmpty)

			records, ok, err := s.LoadBuffer(ctx, "2025-07-19")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
			So(records, ShouldBeEmpty)
		})

		Convey("When state is saved", func() {
			So(s.SaveSeen(ctx, []string{"a", "b"}), ShouldBeNil)
			So(s.SaveSubjectTotals(ctx, map[string]model.SubjectTotal{
				"Aaron Judge": {HomeRuns: 2, Distances: []float64{410, 455}},
				"Cal Raleigh": {HomeRuns: 1},
			}), ShouldBeNil)
			So(s.SaveGroupTotals(ctx, map[string]int{"Bombers": 3}), ShouldBeNil)

			Convey("Then it reads back in the canonical shape", func() {
				ids, err := s.LoadSeen(ctx)
				So(err, ShouldBeNil)
				So(ids, ShouldResemble, []string{"a", "b"})

				subjects, err := s.LoadSubjectTotals(ctx)
				So(err, ShouldBeNil)
				So(subjects["Aaron Judge"].HomeRuns, ShouldEqual, 2)
				So(subjects["Aaron Judge"].Distances, ShouldResemble, []float64{410, 455})
				So(subjects["Cal Raleigh"].Distances, ShouldResemble, []float64{})

				groups, err := s.LoadGroupTotals(ctx)
				So(err, ShouldBeNil)
				So(groups, ShouldResemble, map[string]int{"Bombers": 3})
			})

			Convey("Then files use the expected names and indented JSON", func() {
				for _, name := range []string{"hr-log.json", "player-totals.json", "team-totals.json"} {
					data, err := os.ReadFile(filepath.Join(dir, name))
					So(err, ShouldBeNil)
					So(string(data), ShouldContainSubstring, "\n  ")
				}
			})

			Convey("Then no temp files are left behind", func() {
				entries, err := os.ReadDir(dir)
				So(err, ShouldBeNil)
				for _, e := range entries {
					So(e.Name(), ShouldNotContainSubstring, ".tmp-")
				}
			})
		})

		Convey("When a state file is corrupt", func() {
			So(os.WriteFile(filepath.Join(dir, "team-totals.json"), []byte("{nope"), 0o644), ShouldBeNil)

			_, err := s.LoadGroupTotals(ctx)
			So(errors.Is(err, repository.ErrCorrupt), ShouldBeTrue)
		})
	})
}

func TestFileStoreBuffers(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store", t, func() {
		s, _ := newStore(t)
		rec := model.Record{
			EventID:   "2025-07-19T23:10:00.000Z",
			Player:    "Aaron Judge",
			Team:      "Bombers",
			Distance:  model.Float(431),
			Timestamp: time.Date(2025, 7, 19, 23, 10, 0, 0, time.UTC),
		}

		Convey("When a day buffer is saved", func() {
			So(s.SaveBuffer(ctx, "2025-07-19", []model.Record{rec}), ShouldBeNil)

			Convey("Then it exists and loads back", func() {
				ok, err := s.BufferExists(ctx, "2025-07-19")
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)

				records, found, err := s.LoadBuffer(ctx, "2025-07-19")
				So(err, ShouldBeNil)
				So(found, ShouldBeTrue)
				So(records, ShouldHaveLength, 1)
				So(records[0].Player, ShouldEqual, "Aaron Judge")
				So(*records[0].Distance, ShouldEqual, 431)
			})

			Convey("Then the file sits in the snapshot directory", func() {
				_, err := os.Stat(filepath.Join(s.SnapshotDir(), "2025-07-19-live-buffer.json"))
				So(err, ShouldBeNil)
			})
		})

		Convey("When an empty buffer is saved", func() {
			So(s.SaveBuffer(ctx, "2025-07-20", nil), ShouldBeNil)
			data, err := os.ReadFile(filepath.Join(s.SnapshotDir(), "2025-07-20-live-buffer.json"))
			So(err, ShouldBeNil)
			So(strings.TrimSpace(string(data)), ShouldEqual, "[]")
		})

		Convey("When the day key is malformed", func() {
			err := s.SaveBuffer(ctx, "../escape", nil)
			So(errors.Is(err, repository.ErrInvalidDay), ShouldBeTrue)
		})
	})
}

func TestFileStoreSnapshots(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store", t, func() {
		s, _ := newStore(t)
		snap := model.Snapshot{
			Date:         "2025-07-19",
			PlayerTotals: map[string]model.SubjectTotal{"Aaron Judge": {HomeRuns: 1, Distances: []float64{431}}},
			TeamTotals:   map[string]int{"Bombers": 1},
		}

		Convey("When a snapshot is created", func() {
			So(s.CreateSnapshot(ctx, snap), ShouldBeNil)

			Convey("Then it reads back", func() {
				got, err := s.ReadSnapshot(ctx, "2025-07-19")
				So(err, ShouldBeNil)
				So(got.TeamTotals["Bombers"], ShouldEqual, 1)
				So(got.HomeRuns, ShouldNotBeNil)
				So(got.HomeRuns, ShouldBeEmpty)
			})

			Convey("Then creating it again fails and keeps the original", func() {
				changed := snap
				changed.TeamTotals = map[string]int{"Bombers": 99}
				err := s.CreateSnapshot(ctx, changed)
				So(errors.Is(err, repository.ErrSnapshotExists), ShouldBeTrue)

				got, err := s.ReadSnapshot(ctx, "2025-07-19")
				So(err, ShouldBeNil)
				So(got.TeamTotals["Bombers"], ShouldEqual, 1)
			})
		})

		Convey("When reading a day that was never finalized", func() {
			_, err := s.ReadSnapshot(ctx, "2025-07-01")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When listing days", func() {
			for _, d := range []string{"2025-07-19", "2025-07-17", "2025-07-18"} {
				next := snap
				next.Date = d
				So(s.CreateSnapshot(ctx, next), ShouldBeNil)
			}
			So(s.SaveBuffer(ctx, "2025-07-20", nil), ShouldBeNil)
			So(os.WriteFile(filepath.Join(s.SnapshotDir(), "notes.json"), []byte("{}"), 0o644), ShouldBeNil)

			days, err := s.ListSnapshotDays(ctx)
			So(err, ShouldBeNil)
			So(days, ShouldResemble, []string{"2025-07-17", "2025-07-18", "2025-07-19"})
		})
	})
}

func TestWriteJSONFile(t *testing.T) {
	Convey("Given a path under a missing directory", t, func() {
		path := filepath.Join(t.TempDir(), "public", "data", "latest.json")

		Convey("When a document is written twice", func() {
			So(repository.WriteJSONFile(path, map[string]int{"total": 1}), ShouldBeNil)
			So(repository.WriteJSONFile(path, map[string]int{"total": 2}), ShouldBeNil)

			Convey("Then the latest document is in place and no temp file is left", func() {
				raw, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(strings.Contains(string(raw), `"total": 2`), ShouldBeTrue)
				entries, err := os.ReadDir(filepath.Dir(path))
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
			})
		})
	})
}

func TestWithFileNames(t *testing.T) {
	Convey("Given a store with custom state file names", t, func() {
		dir := t.TempDir()
		store, err := repository.NewFileStore(dir, repository.WithFileNames("seen.json", "", "groups.json"))
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("When state is saved", func() {
			So(store.SaveSeen(ctx, []string{"a"}), ShouldBeNil)
			So(store.SaveSubjectTotals(ctx, nil), ShouldBeNil)
			So(store.SaveGroupTotals(ctx, map[string]int{"G": 1}), ShouldBeNil)

			Convey("Then overridden names are used and the rest keep their defaults", func() {
				for _, name := range []string{"seen.json", "player-totals.json", "groups.json"} {
					_, statErr := os.Stat(filepath.Join(dir, name))
					So(statErr, ShouldBeNil)
				}
			})
		})
	})
}
