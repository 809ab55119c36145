package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Mutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "battle_mutations_total",
			Help: "Committed game-state mutations by operation",
		},
		[]string{"operation"},
	)
	SaveConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "battle_save_conflicts_total",
			Help: "Compare-and-save attempts rejected with a stale base version",
		},
	)
	Contention = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "battle_contention_total",
			Help: "Mutations that exhausted their retry budget",
		},
	)
	MutationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "battle_mutation_seconds",
			Help:    "Wall time of game-state mutations, load to commit",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(Mutations)
	prometheus.MustRegister(SaveConflicts)
	prometheus.MustRegister(Contention)
	prometheus.MustRegister(MutationDuration)
}
