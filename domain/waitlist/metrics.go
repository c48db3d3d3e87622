package waitlist

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes used as the "outcome" label
const (
	OutcomeSuccess          = "success"
	OutcomeValidationError  = "validation_error"
	OutcomeRejected         = "rejected_by_server"
	OutcomeTransportFailure = "transport_failure"
	OutcomeAlreadySubmitted = "already_submitted"
	OutcomeRateLimited      = "rate_limited"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waitlist_submissions_total",
		Help: "Waitlist submit attempts by outcome",
	}, []string{"outcome"})

	SubscribeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "waitlist_subscribe_duration_seconds",
		Help:    "Latency of the outbound subscription call",
		Buckets: prometheus.DefBuckets,
	})

	ConversionsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waitlist_conversion_signals_failed_total",
		Help: "Conversion signals that could not be delivered",
	})
)
