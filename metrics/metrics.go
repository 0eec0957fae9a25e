// Package metrics holds the Prometheus collectors of the wedding site. They
// live on a private registry so tests can build as many servers as they like.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wedding"

type Metrics struct {
	registry *prometheus.Registry

	// requests counts HTTP requests.
	// Labels: route, method, code
	requests *prometheus.CounterVec

	// duration measures handler latency.
	// Labels: route
	duration *prometheus.HistogramVec

	// rsvpSubmissions counts stored RSVPs.
	// Labels: language
	rsvpSubmissions *prometheus.CounterVec

	// contentUpdates counts admin edits per section.
	// Labels: section
	contentUpdates *prometheus.CounterVec

	liveWatchers prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code",
		}, []string{"route", "method", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP handler latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		rsvpSubmissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rsvp_submissions_total",
			Help:      "Stored RSVP submissions by form language",
		}, []string{"language"}),
		contentUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_updates_total",
			Help:      "Admin content updates by section",
		}, []string{"section"}),
		liveWatchers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_watchers",
			Help:      "Open live-update streams",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RSVPSubmitted(language string) {
	m.rsvpSubmissions.WithLabelValues(language).Inc()
}

func (m *Metrics) ContentUpdated(sections ...string) {
	for _, section := range sections {
		m.contentUpdates.WithLabelValues(section).Inc()
	}
}

func (m *Metrics) WatcherOpened() { m.liveWatchers.Inc() }

func (m *Metrics) WatcherClosed() { m.liveWatchers.Dec() }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Flush keeps server-sent event streams working through the middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Instrument records count and latency for next under the fixed route label.
func (m *Metrics) Instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
