// Package metrics exposes Prometheus instrumentation for the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	chapterOpens    *prometheus.CounterVec
	testSubmissions *prometheus.CounterVec
	unlocks         prometheus.Counter
	studentsHelped  prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		chapterOpens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jeeprep_chapter_opens_total",
				Help: "Chapters opened, by book",
			},
			[]string{"book"},
		),
		testSubmissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jeeprep_test_submissions_total",
				Help: "Mock test submissions, by result",
			},
			[]string{"result"},
		),
		unlocks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jeeprep_chapters_unlocked_total",
			Help: "Chapters moved to the unlocked state",
		}),
		studentsHelped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jeeprep_students_helped",
			Help: "Current value of the students helped counter",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal, m.requestDuration,
		m.chapterOpens, m.testSubmissions, m.unlocks, m.studentsHelped,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ChapterOpened counts an open action for a book.
func (m *Metrics) ChapterOpened(book string) {
	m.chapterOpens.WithLabelValues(book).Inc()
}

// TestSubmitted counts a graded submission.
func (m *Metrics) TestSubmitted(passed bool) {
	result := "fail"
	if passed {
		result = "pass"
	}
	m.testSubmissions.WithLabelValues(result).Inc()
}

// ChapterUnlocked counts a Solved to Unlocked transition.
func (m *Metrics) ChapterUnlocked() {
	m.unlocks.Inc()
}

// SetStudentsHelped mirrors the counter value.
func (m *Metrics) SetStudentsHelped(v int64) {
	m.studentsHelped.Set(float64(v))
}

// Middleware records request count and latency keyed by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
