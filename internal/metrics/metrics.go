// Package metrics holds the Prometheus collectors for the Easytrip API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Enrichment step outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeMiss  = "miss"
	OutcomeError = "error"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	EnrichSteps    *prometheus.CounterVec
	EnrichDuration prometheus.Histogram
	TripsCreated   *prometheus.CounterVec
	TripsDeleted   prometheus.Counter
	UsersCreated   prometheus.Counter
	Logins         *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh
// prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EnrichSteps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "easytrip_enrich_steps_total",
			Help: "Enrichment lookups by step and outcome (ok, miss, error)",
		}, []string{"step", "outcome"}),
		EnrichDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "easytrip_enrich_duration_seconds",
			Help:    "Wall time of a full enrichment run",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		TripsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "easytrip_trips_created_total",
			Help: "Trips created, split by whether a signed-in user owns them",
		}, []string{"owner"}),
		TripsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "easytrip_trips_deleted_total",
			Help: "Trips deleted",
		}),
		UsersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "easytrip_users_created_total",
			Help: "Accounts created through signup",
		}),
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "easytrip_logins_total",
			Help: "Login attempts by result (success, failure)",
		}, []string{"result"}),
	}
}

// ObserveStep records the outcome of a single enrichment step.
func (m *Metrics) ObserveStep(step, outcome string) {
	m.EnrichSteps.WithLabelValues(step, outcome).Inc()
}

// ObserveEnrich records how long a full enrichment run took.
func (m *Metrics) ObserveEnrich(d time.Duration) {
	m.EnrichDuration.Observe(d.Seconds())
}

// IncTripsCreated counts a new trip; anonymous selects the owner label.
func (m *Metrics) IncTripsCreated(anonymous bool) {
	owner := "user"
	if anonymous {
		owner = "anonymous"
	}
	m.TripsCreated.WithLabelValues(owner).Inc()
}

// IncLogin counts a login attempt.
func (m *Metrics) IncLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.Logins.WithLabelValues(result).Inc()
}
