package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	AccessDecisions        *prometheus.CounterVec
	QuotationRecalculation *prometheus.CounterVec
	RequestDuration        *prometheus.HistogramVec
}

// New initializes the metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AccessDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "curtains",
			Subsystem: "access",
			Name:      "decisions_total",
			Help:      "Route access decisions by result.",
		}, []string{"result"}), // result: allowed, denied, unauthenticated, error
		QuotationRecalculation: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "curtains",
			Subsystem: "quotation",
			Name:      "recalculations_total",
			Help:      "Quotation total recalculations by result.",
		}, []string{"result"}), // result: ok, error
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "curtains",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}

// Nop returns metrics registered on a throwaway registry.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}
