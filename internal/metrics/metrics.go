package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workshophub_registrations_submitted_total",
		Help: "Registrations submitted, labeled by the initial status.",
	}, []string{"status"})

	RegistrationsReviewed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workshophub_registrations_reviewed_total",
		Help: "Admin review decisions, labeled by outcome.",
	}, []string{"outcome"})

	SeatContentionRejects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workshophub_seat_contention_rejects_total",
		Help: "Approvals refused because the last seat was already taken.",
	})
)
