package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/okian/dinger/internal/adapters/http/api"
	"github.com/okian/dinger/internal/domain/model"
	"github.com/okian/dinger/internal/domain/snapshot"
	"github.com/okian/dinger/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.InitWithWriter(io.Discard, logger.FormatText)
	os.Exit(m.Run())
}

type mockDependencies struct {
	standings   []api.Standing
	players     []api.PlayerLine
	day         string
	records     []api.Record
	finalizeErr error
	finalized   []string
	allowEmpty  bool
}

func (m *mockDependencies) GetStats(context.Context) map[string]interface{} {
	return map[string]interface{}{"day": m.day, "seen": 3}
}

func (m *mockDependencies) Standings(context.Context) []api.Standing { return m.standings }

func (m *mockDependencies) Players(context.Context) []api.PlayerLine { return m.players }

func (m *mockDependencies) Buffer(context.Context) (string, []api.Record) { return m.day, m.records }

func (m *mockDependencies) Finalize(_ context.Context, day string, allowEmpty bool) (model.Snapshot, error) {
	m.finalized = append(m.finalized, day)
	m.allowEmpty = allowEmpty
	if m.finalizeErr != nil {
		return model.Snapshot{}, m.finalizeErr
	}
	return model.Snapshot{Date: day, HomeRuns: []model.Record{}}, nil
}

func newMux(deps *mockDependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestReadRoutes(t *testing.T) {
	Convey("Given a registered API", t, func() {
		deps := &mockDependencies{
			standings: []api.Standing{{Rank: "T-1", Team: "Bombers", Total: 10}, {Rank: "T-1", Team: "Dingers", Total: 10}, {Rank: "3", Team: "Moonshots", Total: 8}},
			players: []api.PlayerLine{
				{Player: "Cal Raleigh", Team: "Dingers", HomeRuns: 38},
				{Player: "Aaron Judge", Team: "Bombers", HomeRuns: 35},
			},
			day:     "2025-07-19",
			records: []api.Record{{EventID: "e1", Player: "Cal Raleigh", Team: "Dingers"}},
		}
		mux := newMux(deps)

		Convey("Then /healthz answers ok", func() {
			w := do(mux, http.MethodGet, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"ok"`)
		})

		Convey("Then /metrics exposes Prometheus text", func() {
			_ = do(mux, http.MethodGet, "/healthz")
			w := do(mux, http.MethodGet, "/metrics")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "dinger_")
		})

		Convey("Then /stats returns the provider's map", func() {
			w := do(mux, http.MethodGet, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body["day"], ShouldEqual, "2025-07-19")
		})

		Convey("Then /standings keeps tie labels", func() {
			w := do(mux, http.MethodGet, "/standings")
			So(w.Code, ShouldEqual, http.StatusOK)
			var rows []api.Standing
			So(json.Unmarshal(w.Body.Bytes(), &rows), ShouldBeNil)
			So(rows, ShouldHaveLength, 3)
			So(rows[2].Rank, ShouldEqual, "3")
		})

		Convey("Then /players honours limit", func() {
			w := do(mux, http.MethodGet, "/players?limit=1")
			So(w.Code, ShouldEqual, http.StatusOK)
			var rows []api.PlayerLine
			So(json.Unmarshal(w.Body.Bytes(), &rows), ShouldBeNil)
			So(rows, ShouldHaveLength, 1)
			So(rows[0].Player, ShouldEqual, "Cal Raleigh")

			So(do(mux, http.MethodGet, "/players?limit=0").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/players?limit=abc").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then /buffer returns the live day", func() {
			w := do(mux, http.MethodGet, "/buffer")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"day":"2025-07-19"`)
			So(w.Body.String(), ShouldContainSubstring, `"Cal Raleigh"`)
		})

		Convey("Then an empty buffer encodes as a list", func() {
			deps.records = nil
			w := do(mux, http.MethodGet, "/buffer")
			So(w.Body.String(), ShouldContainSubstring, `"homeRuns":[]`)
		})

		Convey("Then writes to read routes are rejected", func() {
			So(do(mux, http.MethodPost, "/standings").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestFinalizeRoute(t *testing.T) {
	Convey("Given a registered API", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("When a day is finalized", func() {
			w := do(mux, http.MethodPost, "/snapshots/2025-07-19")

			Convey("Then the snapshot is returned as created", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(deps.finalized, ShouldResemble, []string{"2025-07-19"})
				So(deps.allowEmpty, ShouldBeFalse)
				So(w.Body.String(), ShouldContainSubstring, `"date":"2025-07-19"`)
			})
		})

		Convey("When empty days are allowed", func() {
			w := do(mux, http.MethodPost, "/snapshots/2025-07-19?allow_empty=true")
			So(w.Code, ShouldEqual, http.StatusCreated)
			So(deps.allowEmpty, ShouldBeTrue)

			So(do(mux, http.MethodPost, "/snapshots/2025-07-19?allow_empty=maybe").Code, ShouldEqual, http.StatusBadRequest)
		})

		cases := map[error]int{
			snapshot.ErrAlreadyExists: http.StatusConflict,
			snapshot.ErrMissingBuffer: http.StatusNotFound,
			snapshot.ErrInvalidDay:    http.StatusBadRequest,
			fmt.Errorf("disk"):        http.StatusInternalServerError,
		}
		for err, status := range cases {
			Convey(fmt.Sprintf("When finalize fails with %v", err), func() {
				deps.finalizeErr = fmt.Errorf("finalize: %w", err)
				w := do(mux, http.MethodPost, "/snapshots/2025-07-19")
				So(w.Code, ShouldEqual, status)
				So(strings.TrimSpace(w.Body.String()), ShouldStartWith, `{"code":`)
			})
		}

		Convey("When the method is wrong", func() {
			So(do(mux, http.MethodGet, "/snapshots/2025-07-19").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}
