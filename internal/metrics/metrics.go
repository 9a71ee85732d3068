package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ovation_reservations_total",
		Help: "General-admission reservation attempts by outcome.",
	}, []string{"outcome"})

	HoldsAcquiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ovation_holds_acquired_total",
		Help: "Seat holds successfully acquired.",
	})

	HoldConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ovation_hold_conflicts_total",
		Help: "Hold requests rejected because a seat was unavailable.",
	})

	ConfirmationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ovation_confirmations_total",
		Help: "Seat confirmation attempts by outcome.",
	}, []string{"outcome"})

	HoldsReapedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ovation_holds_reaped_total",
		Help: "Expired holds reclaimed by the reaper.",
	})

	CodesIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ovation_ticket_codes_issued_total",
		Help: "Ticket code issuance attempts by outcome.",
	}, []string{"outcome"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ovation_http_request_duration_seconds",
		Help:    "HTTP request latency by method and path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

// Outcome labels used across the counters above.
const (
	OutcomeOK               = "ok"
	OutcomeCapacityExceeded = "capacity_exceeded"
	OutcomeExpired          = "expired"
	OutcomeConflict         = "conflict"
	OutcomeError            = "error"
)
