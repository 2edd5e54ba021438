// Package metrics exposes the engine's prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the service registers. One instance is
// created at startup and shared by the usecases and HTTP middleware.
type Metrics struct {
	ReservationsCreated prometheus.Counter
	ReservationsExpired prometheus.Counter
	Cancellations       prometheus.Counter
	Settlements         *prometheus.CounterVec // outcome: confirmed | conflict | payment_failed
	SweepRuns           prometheus.Counter
	SweepFailures       prometheus.Counter
	BedsByStatus        *prometheus.GaugeVec // status: available | reserved | occupied | maintenance

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New registers the collectors with the default registry.
func New(serviceName string) *Metrics {
	return NewWith(prometheus.DefaultRegisterer, serviceName)
}

// NewWith registers the collectors with reg. Tests pass a fresh
// prometheus.NewRegistry so parallel test environments never collide.
func NewWith(reg prometheus.Registerer, serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}
	factory := promauto.With(reg)

	return &Metrics{
		ReservationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name:        "reservations_created_total",
			Help:        "Reservations created (holds placed on beds).",
			ConstLabels: constLabels,
		}),
		ReservationsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name:        "reservations_expired_total",
			Help:        "Holds reclaimed by the expiry sweep.",
			ConstLabels: constLabels,
		}),
		Cancellations: factory.NewCounter(prometheus.CounterOpts{
			Name:        "reservations_cancelled_total",
			Help:        "Reservations cancelled by guest or staff.",
			ConstLabels: constLabels,
		}),
		Settlements: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "settlements_total",
			Help:        "Settlement attempts by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		SweepRuns: factory.NewCounter(prometheus.CounterOpts{
			Name:        "expiry_sweep_runs_total",
			Help:        "Executions of the expiry sweep.",
			ConstLabels: constLabels,
		}),
		SweepFailures: factory.NewCounter(prometheus.CounterOpts{
			Name:        "expiry_sweep_failures_total",
			Help:        "Individual reservations the sweep failed to expire.",
			ConstLabels: constLabels,
		}),
		BedsByStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "beds_by_status",
			Help:        "Current bed count per status.",
			ConstLabels: constLabels,
		}, []string{"status"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "HTTP requests by method, path and status code.",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency by method and path.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}
