// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

// Package metrics exposes Prometheus instrumentation for the engine:
// matcher latency and result counts, bandit selections and updates,
// retrieval store operations, and embedding failures.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EngineOpDuration observes latency per core operation:
	// recommend_careers, match_jobs, match_catalog, retrieve, index,
	// select_action, update_policy.
	EngineOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pathfinder_engine_op_duration_seconds",
			Help:    "Duration of engine operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// EngineOpErrors counts operation failures by kind
	// (unavailable, embedding, persistence, storage).
	EngineOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathfinder_engine_op_errors_total",
			Help: "Total engine operation errors",
		},
		[]string{"operation", "kind"},
	)

	// MatchResults observes how many results each ranking call returned.
	MatchResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pathfinder_match_results",
			Help:    "Number of results returned by ranking operations",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"operation"},
	)

	// PolicySelections counts bandit selections by action and mode
	// (explore or exploit).
	PolicySelections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathfinder_policy_selections_total",
			Help: "Total bandit action selections",
		},
		[]string{"action", "mode"},
	)

	// PolicyUpdates counts policy weight updates by action.
	PolicyUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathfinder_policy_updates_total",
			Help: "Total bandit policy updates",
		},
		[]string{"action"},
	)

	// PolicyPersistFailures counts failed weight persistence attempts.
	// These are non-fatal; the in-memory policy stays authoritative.
	PolicyPersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pathfinder_policy_persist_failures_total",
			Help: "Total failed policy weight persistence attempts",
		},
	)

	// EmbeddingRequests counts embedding calls by provider and outcome.
	EmbeddingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathfinder_embedding_requests_total",
			Help: "Total embedding function invocations",
		},
		[]string{"provider", "outcome"},
	)

	// RetrievalRecords gauges the number of records in the context store.
	RetrievalRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pathfinder_retrieval_records",
			Help: "Current number of records in the retrieval context store",
		},
	)

	// APIRequestsTotal counts HTTP requests by route and status class.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathfinder_api_requests_total",
			Help: "Total API requests",
		},
		[]string{"route", "status"},
	)
)

// ObserveOp records one engine operation's duration.
func ObserveOp(operation string, start time.Time) {
	EngineOpDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
