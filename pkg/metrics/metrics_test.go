package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewManager(t *testing.T) {
	Convey("Given a private registry", t, func() {
		reg := prometheus.NewRegistry()

		Convey("When a manager is built with options", func() {
			m := NewManager(
				WithPrometheusRegistry(reg),
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
			)

			Convey("Then options are applied and collectors are registered", func() {
				So(m.namespace, ShouldEqual, "test")
				So(m.subsystem, ShouldEqual, "unit")
				So(m.histogramBuckets, ShouldResemble, []float64{1, 10, 100})

				m.battlesResolved.WithLabelValues("player").Inc()
				So(testutil.ToFloat64(m.battlesResolved.WithLabelValues("player")), ShouldEqual, 1)

				families, err := reg.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When empty options are passed", func() {
			m := NewManager(WithPrometheusRegistry(reg), WithNamespace(""), WithHistogramBuckets(nil))

			Convey("Then defaults are kept", func() {
				So(m.namespace, ShouldEqual, "marquee")
				So(m.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then battle and trivia recorders do not panic", func() {
			So(func() { RecordBattleResolved("opponent") }, ShouldNotPanic)
			So(func() { RecordBattleTeamSize(3) }, ShouldNotPanic)
			So(func() { RecordQuestionsServed("firebase", 10) }, ShouldNotPanic)
			So(func() { RecordCacheRefresh("success", 12.5) }, ShouldNotPanic)
			So(func() { UpdateCacheSize(40) }, ShouldNotPanic)
			So(func() { RecordCacheRecordsRejected(2) }, ShouldNotPanic)
			So(func() { RecordStoreQueryLatency("random_questions", 3) }, ShouldNotPanic)
			So(func() { RecordMirrorError("load") }, ShouldNotPanic)
		})

		Convey("Then recorder and HTTP recorders do not panic", func() {
			So(func() { UpdateQueueSize(1) }, ShouldNotPanic)
			So(func() { UpdateQueueCapacity(64) }, ShouldNotPanic)
			So(func() { RecordQueueEnqueue() }, ShouldNotPanic)
			So(func() { RecordQueueDequeue() }, ShouldNotPanic)
			So(func() { RecordQueueEnqueueError() }, ShouldNotPanic)
			So(func() { RecordSessionRecorded() }, ShouldNotPanic)
			So(func() { UpdateWorkerActiveCount(2) }, ShouldNotPanic)
			So(func() { RecordWorkerError() }, ShouldNotPanic)
			So(func() { RecordWorkerProcessingLatency(1.5) }, ShouldNotPanic)
			So(func() { RecordHTTPRequest("/api/trivia/questions", "GET", "200") }, ShouldNotPanic)
			So(func() { RecordHTTPRequestDuration("/api/trivia/questions", "GET", "200", 4) }, ShouldNotPanic)
		})

		Convey("Then error and system recorders do not panic", func() {
			So(func() { RecordErrorByComponent("cache", "fetch") }, ShouldNotPanic)
			So(func() { RecordErrorByType("fetch", "error") }, ShouldNotPanic)
			So(func() { RecordErrorByEndpoint("/api/games", "POST", "validation") }, ShouldNotPanic)
			So(func() { RecordErrorLatency("cache", "fetch", 20) }, ShouldNotPanic)
			So(func() { UpdateSystemMemoryUsage(1 << 20) }, ShouldNotPanic)
			So(func() { UpdateSystemGoroutineCount(12) }, ShouldNotPanic)
			So(func() { RecordSystemGCPauseTime(0.3) }, ShouldNotPanic)
		})

		Convey("Then the custom registry gathers the service metrics", func() {
			RecordQuestionsServed("postgresql", 1)
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(names, ShouldContain, "marquee_api_trivia_questions_served_total")
		})
	})
}
