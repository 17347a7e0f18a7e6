package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks validation request activity.
//
// Metrics:
//   - fieldgate_validate_requests_total: request count by outcome
//   - fieldgate_validate_duration_seconds: pipeline duration histogram
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal *prometheus.CounterVec
	duration      prometheus.Histogram
}

// NewMetrics creates and registers the server metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fieldgate",
				Subsystem: "validate",
				Name:      "requests_total",
				Help:      "Total number of validation requests by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "fieldgate",
				Subsystem: "validate",
				Name:      "duration_seconds",
				Help:      "Duration of the validation pipeline in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	m.registry.MustRegister(m.requestsTotal, m.duration)
	return m
}

// Observe records one finished validation request.
func (m *Metrics) Observe(outcome string, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// Handler returns the Prometheus scrape endpoint for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
