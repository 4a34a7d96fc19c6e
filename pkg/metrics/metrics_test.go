package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a private registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 2}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors are registered under the namespace", func() {
				So(m, ShouldNotBeNil)
				m.eventsAdmitted.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_unit_events_admitted_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestRecordFunctions(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording admissions and duplicates", func() {
			before := gathered("dinger_watcher_events_admitted_total")
			dupBefore := gathered("dinger_watcher_events_duplicate_total")
			RecordEventAdmitted()
			RecordEventAdmitted()
			RecordEventDuplicate()

			Convey("Then the counters move", func() {
				So(gathered("dinger_watcher_events_admitted_total")-before, ShouldEqual, 2)
				So(gathered("dinger_watcher_events_duplicate_total")-dupBefore, ShouldEqual, 1)
			})
		})

		Convey("When setting gauges", func() {
			UpdateActiveGames(4)
			UpdateBufferLength(7)
			UpdateNotifyQueueSize(1)

			Convey("Then they hold the last value", func() {
				So(gathered("dinger_watcher_active_games"), ShouldEqual, 4)
				So(gathered("dinger_watcher_daily_buffer_length"), ShouldEqual, 7)
				So(gathered("dinger_watcher_notify_queue_size"), ShouldEqual, 1)
			})
		})

		Convey("When recording labelled metrics", func() {
			So(func() {
				RecordFetchError("feed")
				RecordFetchLatency("schedule", 12)
				RecordHTTPRequest("standings", "GET", "200")
				RecordHTTPRequestDuration("standings", "GET", "200", 3)
				RecordAdmissionLatency(1.5)
				RecordPollTick()
				RecordRollover()
				RecordSnapshotWritten()
				RecordNotificationSent()
				RecordNotificationFailed()
				RecordNotificationDropped()
				RecordEventUnfollowed()
				RecordPersistenceError()
				UpdateTrackedSubjects(3)
			}, ShouldNotPanic)

			Convey("Then the registry exposes them", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				joined := strings.Join(names, ",")
				So(joined, ShouldContainSubstring, "dinger_watcher_fetch_errors_total")
				So(joined, ShouldContainSubstring, "dinger_watcher_http_requests_total")
			})
		})
	})
}

// gathered reads the single-series value of a counter or gauge from the
// global registry.
func gathered(name string) float64 {
	families, err := GetRegistry().Gather()
	if err != nil {
		return -1
	}
	for _, f := range families {
		if f.GetName() != name || len(f.GetMetric()) == 0 {
			continue
		}
		m := f.GetMetric()[0]
		if c := m.GetCounter(); c != nil {
			return c.GetValue()
		}
		return m.GetGauge().GetValue()
	}
	return 0
}
