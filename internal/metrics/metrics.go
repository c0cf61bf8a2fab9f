// Package metrics exposes prometheus collectors for location updates and
// summary runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Update outcomes
const (
	OutcomeAccepted = "accepted"
	OutcomeSkipped  = "skipped"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

var (
	// LocationUpdates counts update requests by outcome and reason
	LocationUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "location",
		Name:      "updates_total",
		Help:      "Location updates received, by outcome.",
	}, []string{"outcome", "reason"})

	// DistanceMoved observes the great-circle distance between consecutive snapshots
	DistanceMoved = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "location",
		Name:      "distance_moved_km",
		Help:      "Distance between an accepted snapshot and its predecessor.",
		Buckets:   []float64{1, 10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	// SummaryDuration observes how long a summary run takes
	SummaryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "location",
		Name:      "summary_duration_seconds",
		Help:      "Time spent reading snapshots and deriving history views.",
		Buckets:   prometheus.DefBuckets,
	})

	// SummaryEntries reports the size of each view after the last run
	SummaryEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "location",
		Name:      "summary_entries",
		Help:      "Entries per history view after the last summary run.",
	}, []string{"view"})
)

var (
	// GeocodingRequests counts lookups by service and result
	GeocodingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "location",
		Name:      "geocoding_requests_total",
		Help:      "Reverse geocoding and timezone lookups, by service and result.",
	}, []string{"service", "result"})

	// CircuitBreakerState reports breaker state (0 closed, 1 half-open, 2 open)
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "location",
		Name:      "circuit_breaker_state",
		Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open.",
	}, []string{"name"})
)
