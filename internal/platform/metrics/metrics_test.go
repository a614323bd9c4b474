package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithRegistry(registry))

		Convey("When payloads are ingested", func() {
			manager.PayloadIngested("whoscored", "accepted")
			manager.PayloadIngested("whoscored", "accepted")
			manager.PayloadIngested("fotmob", "rejected")

			Convey("Then counters are split by provider and result", func() {
				So(testutil.ToFloat64(manager.payloads.WithLabelValues("whoscored", "accepted")), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.payloads.WithLabelValues("fotmob", "rejected")), ShouldEqual, 1)
			})
		})

		Convey("When the breaker opens", func() {
			manager.BreakerState("open")

			Convey("Then only the open gauge is set", func() {
				So(testutil.ToFloat64(manager.embedderBreaker.WithLabelValues("open")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.embedderBreaker.WithLabelValues("closed")), ShouldEqual, 0)
			})
		})

		Convey("When the handler is scraped", func() {
			manager.QueryServed("structured", "ok", 5*time.Millisecond)
			rec := httptest.NewRecorder()
			manager.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

			Convey("Then the exposition contains namespaced series", func() {
				So(rec.Code, ShouldEqual, 200)
				So(strings.Contains(rec.Body.String(), "matchlens_retrieval_queries_total"), ShouldBeTrue)
			})
		})
	})

	Convey("Given a nil manager", t, func() {
		var manager *Manager

		Convey("Then recording is a no-op", func() {
			So(func() {
				manager.PayloadIngested("fotmob", "accepted")
				manager.MatchComputed(true)
				manager.ObserveStage("resolve", time.Second)
			}, ShouldNotPanic)
		})
	})

	Convey("Given http status codes", t, func() {
		So(statusClass(204), ShouldEqual, "2xx")
		So(statusClass(404), ShouldEqual, "4xx")
		So(statusClass(503), ShouldEqual, "5xx")
	})
}
