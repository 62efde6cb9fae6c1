package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the run's prometheus collectors on a private registry so
// repeated construction in tests never double-registers.
type Metrics struct {
	registry *prometheus.Registry

	InFlight  prometheus.Gauge
	Outcomes  *prometheus.CounterVec
	Durations prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "multisend",
			Name:      "transfers_in_flight",
			Help:      "Transfer units currently holding a concurrency permit.",
		}),
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "multisend",
			Name:      "transfer_outcomes_total",
			Help:      "Finished transfer units by terminal status.",
		}, []string{"status"}),
		Durations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "multisend",
			Name:      "transfer_duration_seconds",
			Help:      "Submit-to-resolution duration per transfer unit.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}
	m.registry.MustRegister(m.InFlight, m.Outcomes, m.Durations)
	return m
}

// Handler serves the registry for an optional scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
