package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roommate_registrations_total",
		Help: "Total number of successful user registrations.",
	})

	loginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roommate_logins_total",
		Help: "Total number of successful logins.",
	})

	refreshesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roommate_refreshes_total",
		Help: "Total number of successful token refreshes.",
	})

	tokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roommate_token_verifications_total",
			Help: "Total number of access token verification attempts by status.",
		},
		[]string{"status"},
	)

	candidateSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roommate_candidate_searches_total",
			Help: "Total number of candidate searches by pass (strict or relaxed).",
		},
		[]string{"pass"},
	)

	accountOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roommate_account_operations_total",
			Help: "Total number of account lifecycle operations by kind.",
		},
		[]string{"operation"},
	)
)
