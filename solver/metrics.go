// SPDX-License-Identifier: MIT

package solver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Failure stages reported by lvsdp_solver_failures_total.
const (
	stageValidate  = "validate"
	stageSelect    = "select"
	stageWarmStart = "warm_start"
	stagePrepare   = "prepare"
	stageBackend   = "backend"
)

var (
	// solvesTotal counts completed solves.
	// Labels: backend, termination
	solvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lvsdp",
		Subsystem: "solver",
		Name:      "solves_total",
		Help:      "Completed solves by backend and termination",
	}, []string{"backend", "termination"})

	// solveDuration measures wall time of the backend pipeline.
	// Labels: backend
	solveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lvsdp",
		Subsystem: "solver",
		Name:      "solve_duration_seconds",
		Help:      "Duration of Prepare, Invoke and Postprocess",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
	}, []string{"backend"})

	// solveIterations tracks backend iteration counts.
	// Labels: backend
	solveIterations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lvsdp",
		Subsystem: "solver",
		Name:      "iterations",
		Help:      "Backend iterations per solve",
		Buckets:   []float64{5, 10, 15, 20, 30, 40, 50, 75, 100},
	}, []string{"backend"})

	// failuresTotal counts solves that stopped early.
	// Labels: stage (validate, select, warm_start, prepare, backend)
	failuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lvsdp",
		Subsystem: "solver",
		Name:      "failures_total",
		Help:      "Solves stopped before a normal result, by stage",
	}, []string{"stage"})
)
