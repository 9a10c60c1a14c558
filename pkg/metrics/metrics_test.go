package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 2, 3}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors are registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.recordsIngested.WithLabelValues(KindPlayer).Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				So(families[0].GetName(), ShouldStartWith, "test_unit_")
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording ingestion", func() {
			before := testutil.ToFloat64(globalManager.recordsIngested.WithLabelValues(KindRating))
			RecordIngested(KindRating)
			RecordIngested(KindRating)
			RecordSkipped(KindTag, "not_found")

			Convey("Then counters advance", func() {
				after := testutil.ToFloat64(globalManager.recordsIngested.WithLabelValues(KindRating))
				So(after-before, ShouldEqual, 2)
				So(testutil.ToFloat64(globalManager.recordsSkipped.WithLabelValues(KindTag, "not_found")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When updating dataset gauges", func() {
			UpdateDatasetSize(10, 20, 30, 4)

			Convey("Then gauges hold the latest values", func() {
				So(testutil.ToFloat64(globalManager.players), ShouldEqual, 10)
				So(testutil.ToFloat64(globalManager.users), ShouldEqual, 20)
				So(testutil.ToFloat64(globalManager.tags), ShouldEqual, 30)
				So(testutil.ToFloat64(globalManager.positions), ShouldEqual, 4)
			})
		})

		Convey("When recording queries and cache activity", func() {
			So(func() {
				RecordQuery("top", "ok", 0.4)
				RecordQueryResultSize(10)
				RecordCacheHit()
				RecordCacheMiss()
				RecordIngestDuration(1.5)
				RecordRankIndexDuration(3)
				UpdateQueueDepth(12)
			}, ShouldNotPanic)
		})
	})
}

func TestWriteText(t *testing.T) {
	Convey("Given some recorded metrics", t, func() {
		RecordIngested(KindPlayer)

		Convey("When writing the registry as text", func() {
			var buf bytes.Buffer
			err := WriteText(&buf)

			Convey("Then the exposition contains our families", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "scoutdb_index_records_ingested_total")
				So(buf.String(), ShouldContainSubstring, `kind="player"`)
			})
		})
	})
}
