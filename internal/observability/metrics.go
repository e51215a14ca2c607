package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	requestsTotal        *prometheus.CounterVec
	latencySeconds       *prometheus.HistogramVec
	errorsTotal          *prometheus.CounterVec
	claimAttemptsTotal   *prometheus.CounterVec
	claimDurationSeconds prometheus.Histogram
	boardSnapshotsTotal  *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the board service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classboard_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "classboard_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classboard_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		claimAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classboard_seat_claim_attempts_total",
			Help: "Seat claim attempts by outcome.",
		}, []string{"outcome"})

		claimDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "classboard_seat_claim_duration_seconds",
			Help:    "Duration of the seat claim transaction.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		})

		boardSnapshotsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classboard_board_snapshots_total",
			Help: "Board snapshot builds by source.",
		}, []string{"source"})

		prometheus.MustRegister(requestsTotal, latencySeconds, errorsTotal,
			claimAttemptsTotal, claimDurationSeconds, boardSnapshotsTotal)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// ClaimAttempts exposes the seat claim outcome counter.
func ClaimAttempts() *prometheus.CounterVec {
	RegisterMetrics()
	return claimAttemptsTotal
}

// ClaimDuration exposes the seat claim latency histogram.
func ClaimDuration() prometheus.Histogram {
	RegisterMetrics()
	return claimDurationSeconds
}

// BoardSnapshots exposes the board snapshot source counter.
func BoardSnapshots() *prometheus.CounterVec {
	RegisterMetrics()
	return boardSnapshotsTotal
}
