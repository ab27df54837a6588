package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statusdeck_uploads_total",
			Help: "Schedule document uploads processed",
		},
		[]string{"outcome"},
	)

	changeCandidatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "statusdeck_change_candidates_total",
			Help: "Schedule slips detected and surfaced for review",
		},
	)

	changesConfirmedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "statusdeck_changes_confirmed_total",
			Help: "Confirmed changes written to project ledgers",
		},
	)

	duplicatesRemovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "statusdeck_duplicate_milestones_removed_total",
			Help: "Duplicate milestones corrected during reconciliation",
		},
	)
)
