package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricSolvesStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sokoban_solves_started_total",
		Help: "Solve jobs picked up by a backlog worker.",
	}, []string{"algorithm"})

	metricSolvesFinished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sokoban_solves_finished_total",
		Help: "Solve jobs finished, by final status.",
	}, []string{"algorithm", "status"})

	metricStatesExplored = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sokoban_states_explored_total",
		Help: "Board states expanded across all solve jobs.",
	})

	metricCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sokoban_solution_cache_hits_total",
		Help: "Solve jobs answered from the persisted solution cache.",
	})

	metricSolveSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sokoban_solve_duration_seconds",
		Help:    "Wall-clock duration of finished solve jobs.",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"algorithm"})
)

func init() {
	prometheus.MustRegister(
		metricSolvesStarted,
		metricSolvesFinished,
		metricStatesExplored,
		metricCacheHits,
		metricSolveSeconds,
	)
}
