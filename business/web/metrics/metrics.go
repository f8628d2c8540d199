// Package metrics constructs the metrics the application will track.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "coliseum"

// Counters for the web api. They are registered with a registry through
// Collectors.
var (
	requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of requests handled.",
		},
		[]string{"method"},
	)

	errs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Number of requests that returned an error.",
		},
	)

	panics = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "panics_total",
			Help:      "Number of requests that panicked.",
		},
	)
)

// Collectors returns the web api counters for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{requests, errs, panics}
}

// AddRequest increments the request count for the method.
func AddRequest(method string) {
	requests.WithLabelValues(method).Inc()
}

// AddError increments the error count.
func AddError() {
	errs.Inc()
}

// AddPanic increments the panic count.
func AddPanic() {
	panics.Inc()
}
