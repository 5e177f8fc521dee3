package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ardnew/sdfc/compiler"
)

const namespace = "sdfc"

// Compile outcomes recorded by [Metrics.Observe].
const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultStale = "stale"
)

// Metrics contains the Prometheus collectors of a server.
type Metrics struct {
	registry *prometheus.Registry

	compiles  *prometheus.CounterVec
	changes   prometheus.Counter
	duration  prometheus.Histogram
	codeBytes prometheus.Gauge
	helpers   prometheus.Gauge
	seq       prometheus.Gauge
	requests  *prometheus.CounterVec
}

// NewMetrics registers the collectors with registry.
// If registry is nil, a new one is created.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		compiles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compiles_total",
				Help:      "Total number of finished compiles by result",
			},
			[]string{"result"},
		),

		changes: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "code_changes_total",
				Help:      "Total number of accepted compiles that changed the code",
			},
		),

		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "compile_duration_seconds",
				Help:      "Duration of successful compiles in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to 2.6s
			},
		),

		codeBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "code_bytes",
				Help:      "Size of the current generated code in bytes",
			},
		),

		helpers: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "code_helpers",
				Help:      "Number of helper functions in the current generated code",
			},
		),

		seq: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "session_seq",
				Help:      "Sequence number of the latest accepted submission",
			},
		),

		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
	}
}

// Observe records one session update. Pass it to [compiler.WithObserver].
func (m *Metrics) Observe(u compiler.Update) {
	switch {
	case u.Stale:
		m.compiles.WithLabelValues(ResultStale).Inc()

		return

	case u.Err != nil:
		m.compiles.WithLabelValues(ResultError).Inc()
		m.seq.Set(float64(u.Seq))

		return
	}

	m.compiles.WithLabelValues(ResultOK).Inc()
	m.seq.Set(float64(u.Seq))

	if u.Changed {
		m.changes.Inc()
	}

	if u.Result != nil {
		m.duration.Observe(u.Result.Elapsed.Seconds())
		m.codeBytes.Set(float64(len(u.Result.Code)))
		m.helpers.Set(float64(u.Result.Helpers))
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler returns an HTTP handler exposing the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
