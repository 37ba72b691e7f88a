package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// AssessmentsTotal counts stored intakes by risk level ("low", "high").
	AssessmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_assessments_total",
			Help: "Intake submissions stored, by assessed risk level.",
		},
		[]string{"level"},
	)

	// PersistFailuresTotal counts intake writes the store rejected.
	PersistFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_persist_failures_total",
			Help: "Intake submissions that could not be stored.",
		},
	)

	// EventsFailedTotal counts submission events that could not be published.
	EventsFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_events_failed_total",
			Help: "submission.created events that failed to publish.",
		},
	)
)

func init() {
	prometheus.MustRegister(AssessmentsTotal, PersistFailuresTotal, EventsFailedTotal)
}
