// Package metrics declares the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Auth flows and outcomes used as label values on AuthAttemptsTotal.
const (
	FlowRegister = "register"
	FlowLogin    = "login"
	FlowGoogle   = "google"
	FlowBearer   = "bearer"

	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkhub_auth_attempts_total",
		Help: "Authentication attempts by flow and outcome.",
	}, []string{"flow", "outcome"})

	AuthDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "linkhub_auth_duration_seconds",
		Help:    "Time spent in a credential or identity-token exchange.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"flow"})

	RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkhub_rate_limited_total",
		Help: "Requests rejected by the attempt limiter.",
	}, []string{"route"})

	LinksImportedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkhub_links_imported_total",
		Help: "Links inserted by restore requests.",
	})

	LinksDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkhub_links_import_dropped_total",
		Help: "Invalid entries discarded from restore requests.",
	})
)
