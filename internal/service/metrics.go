package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	statusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "orders",
		Name:      "status_transitions_total",
		Help:      "Committed order status transitions.",
	}, []string{"from", "to", "forced"})

	rejectedTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "orders",
		Name:      "rejected_transitions_total",
		Help:      "Status transitions rejected by the transition table.",
	}, []string{"source"})

	trackingRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "tracking",
		Name:      "refreshes_total",
		Help:      "Tracking refresh outcomes.",
	}, []string{"outcome"})

	pricingFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "pricing",
		Name:      "fallbacks_total",
		Help:      "Cart lines priced from their stored price.",
	}, []string{"reason"})
)
