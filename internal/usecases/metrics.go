package usecases

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stageTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_stage_transitions_total",
		Help: "Completed pipeline stage transitions by target stage",
	}, []string{"to_stage"})

	payoutsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_payouts_created_total",
		Help: "Payout ledger entries created by trigger type",
	}, []string{"type"})

	onboardingsLiveTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_onboardings_live_total",
		Help: "Onboardings that reached LIVE",
	})
)
