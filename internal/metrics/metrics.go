package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campusfix",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status class.",
		},
		[]string{"endpoint", "status"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "campusfix",
			Name:      "bookings_created_total",
			Help:      "Bookings created.",
		},
	)

	statusLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campusfix",
			Name:      "status_lookups_total",
			Help:      "Status lookups by outcome (demo, live, not_found).",
		},
		[]string{"outcome"},
	)

	alertsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campusfix",
			Name:      "operator_alerts_total",
			Help:      "Operator alerts by delivery result.",
		},
		[]string{"result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, statusLookups, alertsSent)
	})
}

// IncHTTP increments the request counter for an endpoint/status pair.
func IncHTTP(endpoint, status string) {
	httpRequests.WithLabelValues(endpoint, status).Inc()
}

// IncBookingCreated counts a successful booking creation.
func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncStatusLookup counts a lookup by outcome label.
func IncStatusLookup(outcome string) {
	statusLookups.WithLabelValues(outcome).Inc()
}

// IncAlert counts an operator alert delivery attempt result.
func IncAlert(result string) {
	alertsSent.WithLabelValues(result).Inc()
}
