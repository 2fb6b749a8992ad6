package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for the alert lifecycle.
type Metrics struct {
	AlertsCreated      *prometheus.CounterVec // label: severity
	AlertsAcknowledged prometheus.Counter
	AlertsRejected     prometheus.Counter
	ReportsExported    prometheus.Counter
}

// NewMetrics creates and registers all alert metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		AlertsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "alerts_created_total",
			Help:      "Total alerts accepted, by severity.",
		}, []string{"severity"}),
		AlertsAcknowledged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "alerts_acknowledged_total",
			Help:      "Total acknowledge operations that found their alert.",
		}),
		AlertsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "alerts_rejected_total",
			Help:      "Total alert submissions rejected by validation.",
		}),
		ReportsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "reports_exported_total",
			Help:      "Total CSV report downloads.",
		}),
	}

	prometheus.MustRegister(
		m.AlertsCreated,
		m.AlertsAcknowledged,
		m.AlertsRejected,
		m.ReportsExported,
	)

	return m
}
