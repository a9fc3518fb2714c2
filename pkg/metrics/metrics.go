// Package metrics holds the Prometheus collectors of the statement service.
// All methods are safe on a nil *Metrics so callers can run with metrics off.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "statement"

// Metrics owns a private registry and the service collectors.
type Metrics struct {
	registry *prometheus.Registry

	extractions        *prometheus.CounterVec
	extractionDuration prometheus.Histogram
	confidence         prometheus.Histogram
	fields             *prometheus.CounterVec
	requests           *prometheus.CounterVec
	uploadsSwept       prometheus.Counter
}

// New registers every collector plus the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Statements extracted, by detected provider.",
		}, []string{"provider"}),
		extractionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Time spent in the extraction pipeline.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_confidence",
			Help:      "Confidence of extracted statements.",
			Buckets:   []float64{0, 0.25, 0.5, 0.75, 1},
		}),
		fields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fields_total",
			Help:      "Field extraction outcomes.",
		}, []string{"field", "found"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		uploadsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_swept_total",
			Help:      "Stale uploads removed by the sweeper.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.extractions,
		m.extractionDuration,
		m.confidence,
		m.fields,
		m.requests,
		m.uploadsSwept,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveExtraction(provider string, confidence float64, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(provider).Inc()
	m.confidence.Observe(confidence)
	m.extractionDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveField(field string, found bool) {
	if m == nil {
		return
	}
	m.fields.WithLabelValues(field, strconv.FormatBool(found)).Inc()
}

func (m *Metrics) ObserveRequest(route string, status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ObserveSweep(removed int) {
	if m == nil || removed <= 0 {
		return
	}
	m.uploadsSwept.Add(float64(removed))
}
