package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry and custom options", func() {
			registry := prometheus.NewRegistry()
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it records into that registry", func() {
				m.RecordAPIRequest("/api/jobs", "GET", "ok", 12)
				So(testutil.ToFloat64(m.apiRequests.WithLabelValues("/api/jobs", "GET", "ok")), ShouldEqual, 1)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_unit_api_requests_total")
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording cache refreshes", func() {
			before := testutil.ToFloat64(globalManager.cacheRefreshes.WithLabelValues("jobs", "ok"))
			RecordCacheRefresh("jobs", true, 7)
			RecordCacheRefresh("jobs", false, 0)

			Convey("Then outcomes and the item gauge are tracked", func() {
				So(testutil.ToFloat64(globalManager.cacheRefreshes.WithLabelValues("jobs", "ok")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.cacheItems.WithLabelValues("jobs")), ShouldEqual, 7)
			})
		})

		Convey("When recording state machine events", func() {
			So(func() {
				RecordStaleResponse("otp")
				RecordOTPTransition("verified")
				UpdateLedgerEntries(3)
				RecordHTTPRequest("auth_start", "POST", "200", 3)
				RecordAPIRequest("/api/auth/start", "POST", "ok", 3)
			}, ShouldNotPanic)
			So(testutil.ToFloat64(globalManager.ledgerEntries), ShouldEqual, 3)
		})

		Convey("When updating gauges", func() {
			UpdateStubInventory("jobs", 4)
			UpdateSystemGoroutineCount(12)
			UpdateSystemMemoryUsage(2048)
			So(testutil.ToFloat64(globalManager.stubInventory.WithLabelValues("jobs")), ShouldEqual, 4)
			So(testutil.ToFloat64(globalManager.goroutineCount), ShouldEqual, 12)
			So(testutil.ToFloat64(globalManager.memoryUsage), ShouldEqual, 2048)
		})

		Convey("When gathering from the custom registry", func() {
			_, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
		})
	})
}
