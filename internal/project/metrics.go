package project

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	capacityConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proforma_capacity_conflicts_total",
		Help: "Allocation requests that did not fit their floor.",
	})
	forcedAllocations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proforma_forced_allocations_total",
		Help: "Allocations committed over capacity with force.",
	})
	skippedSuggestions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proforma_skipped_suggestions_total",
		Help: "Suggested allocations skipped at commit for lack of room.",
	})
)
