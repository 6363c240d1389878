package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(
			WithPrometheusRegistry(registry),
			WithNamespace("test"),
			WithSubsystem("unit"),
			WithHistogramBuckets([]float64{1, 10, 100}),
		)

		Convey("When recording dataset loads", func() {
			m.RecordDatasetLoad("2025", OutcomeSuccess, 12*time.Millisecond)
			m.RecordDatasetLoad("2025", OutcomeSuccess, 3*time.Millisecond)
			m.RecordDatasetLoad("all", OutcomeError, time.Millisecond)
			m.UpdateTableRows("2025", "faculty", 14)

			Convey("Then counters and gauges reflect them", func() {
				So(testutil.ToFloat64(m.datasetLoads.WithLabelValues("2025", OutcomeSuccess)), ShouldEqual, 2)
				So(testutil.ToFloat64(m.datasetLoads.WithLabelValues("all", OutcomeError)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.tableRows.WithLabelValues("2025", "faculty")), ShouldEqual, 14)
			})
		})

		Convey("When recording engine activity", func() {
			m.RecordUnknownLabel("category")
			m.RecordUnknownLabel("category")
			m.UpdateActiveMembers("2025", 9)
			m.RecordComputeDuration("leaderboard", 2*time.Millisecond)

			Convey("Then the values are exported", func() {
				So(testutil.ToFloat64(m.unknownLabels.WithLabelValues("category")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.activeMembers.WithLabelValues("2025")), ShouldEqual, 9)
				So(testutil.CollectAndCount(m.computeDuration), ShouldEqual, 1)
			})
		})

		Convey("When publishing snapshots", func() {
			at := time.Unix(1_700_000_000, 0)
			m.RecordSnapshotPublish(3, at)

			Convey("Then size and time are tracked", func() {
				So(testutil.ToFloat64(m.snapshotPublishes), ShouldEqual, 1)
				So(testutil.ToFloat64(m.snapshotCount), ShouldEqual, 3)
				So(testutil.ToFloat64(m.snapshotLastUnix), ShouldEqual, 1_700_000_000)
			})
		})

		Convey("When recording HTTP traffic", func() {
			m.RecordHTTPRequest("/years/{year}/kpi", "GET", "200", 4.2)
			m.RecordRateLimited()
			m.RecordErrorByComponent("http", "not_found")

			Convey("Then the request is counted", func() {
				So(testutil.ToFloat64(m.httpRequests.WithLabelValues("/years/{year}/kpi", "GET", "200")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.httpRateLimited), ShouldEqual, 1)
				So(testutil.ToFloat64(m.errorRateByComponent.WithLabelValues("http", "not_found")), ShouldEqual, 1)
			})
		})

		Convey("When sampling the runtime", func() {
			m.UpdateSystem()
			So(testutil.ToFloat64(m.systemGoroutineCount), ShouldBeGreaterThan, 0)
			So(testutil.ToFloat64(m.systemMemoryUsage), ShouldBeGreaterThan, 0)
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then the package helpers never panic", func() {
			So(func() {
				RecordDatasetLoad("2025", OutcomeSuccess, time.Millisecond)
				UpdateTableRows("2025", "theses", 3)
				RecordUnknownLabel("thesis_type")
				RecordComputeDuration("kpi", time.Millisecond)
				UpdateActiveMembers("2025", 1)
				RecordSnapshotPublish(1, time.Now())
				RecordHTTPRequest("/healthz", "GET", "200", 1)
				RecordRateLimited()
				RecordErrorByComponent("loader", "io")
				UpdateSystem()
			}, ShouldNotPanic)
		})

		Convey("Then the registry gathers the mizan families", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			found := false
			for _, f := range families {
				if f.GetName() == "mizan_engine_dataset_loads_total" {
					found = true
				}
			}
			So(found, ShouldBeTrue)
		})
	})
}
