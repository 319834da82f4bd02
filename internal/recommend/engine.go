// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pathfinder-ai/pathfinder/internal/metrics"
)

// Engine coordinates the matchers, the retrieval context store and the
// bandit policy behind one instrumented facade. All components are
// injected; the engine owns no global state and is safe for concurrent
// use to the extent its components are (all of them are).
type Engine struct {
	careers CareerRecommender
	jobs    JobMatcher
	store   ContextStore
	policy  Policy
	logger  zerolog.Logger
}

// NewEngine creates an engine from its injected components. Any component
// may be nil, in which case the corresponding operations report
// ErrUnavailable.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(careers CareerRecommender, jobs JobMatcher, store ContextStore, policy Policy, logger zerolog.Logger) *Engine {
	return &Engine{
		careers: careers,
		jobs:    jobs,
		store:   store,
		policy:  policy,
		logger:  logger.With().Str("component", "engine").Logger(),
	}
}

// RecommendCareers ranks reference careers against the given skill set.
func (e *Engine) RecommendCareers(ctx context.Context, skills []string, topK int) ([]CareerMatch, error) {
	defer metrics.ObserveOp("recommend_careers", time.Now())

	if e.careers == nil {
		metrics.EngineOpErrors.WithLabelValues("recommend_careers", "unavailable").Inc()
		return nil, fmt.Errorf("career matcher: %w", ErrUnavailable)
	}

	matches, err := e.careers.RecommendCareers(skills, topK)
	if err != nil {
		metrics.EngineOpErrors.WithLabelValues("recommend_careers", errKind(err)).Inc()
		return nil, err
	}

	metrics.MatchResults.WithLabelValues("recommend_careers").Observe(float64(len(matches)))
	return matches, nil
}

// MatchJobs ranks the supplied jobs against the profile text.
func (e *Engine) MatchJobs(ctx context.Context, profileText string, jobs []JobDocument, topK int) ([]JobMatch, error) {
	defer metrics.ObserveOp("match_jobs", time.Now())

	if e.jobs == nil {
		metrics.EngineOpErrors.WithLabelValues("match_jobs", "unavailable").Inc()
		return nil, fmt.Errorf("job matcher: %w", ErrUnavailable)
	}

	matches, err := e.jobs.MatchJobs(profileText, jobs, topK)
	if err != nil {
		metrics.EngineOpErrors.WithLabelValues("match_jobs", errKind(err)).Inc()
		return nil, err
	}

	metrics.MatchResults.WithLabelValues("match_jobs").Observe(float64(len(matches)))
	return matches, nil
}

// MatchCatalog ranks the precomputed job catalog against the profile text.
func (e *Engine) MatchCatalog(ctx context.Context, profileText string, topK int) ([]CatalogMatch, error) {
	defer metrics.ObserveOp("match_catalog", time.Now())

	if e.jobs == nil {
		metrics.EngineOpErrors.WithLabelValues("match_catalog", "unavailable").Inc()
		return nil, fmt.Errorf("job matcher: %w", ErrUnavailable)
	}

	matches, err := e.jobs.MatchCatalog(profileText, topK)
	if err != nil {
		metrics.EngineOpErrors.WithLabelValues("match_catalog", errKind(err)).Inc()
		return nil, err
	}

	metrics.MatchResults.WithLabelValues("match_catalog").Observe(float64(len(matches)))
	return matches, nil
}

// IndexContext upserts one document into the retrieval context store.
func (e *Engine) IndexContext(ctx context.Context, docID, text string, metadata map[string]string) error {
	defer metrics.ObserveOp("index", time.Now())

	if e.store == nil {
		metrics.EngineOpErrors.WithLabelValues("index", "unavailable").Inc()
		return fmt.Errorf("context store: %w", ErrUnavailable)
	}
	return e.store.Index(ctx, docID, text, metadata)
}

// RetrieveContext returns the k nearest records for the query.
func (e *Engine) RetrieveContext(ctx context.Context, query string, k int) ([]RetrievedDocument, error) {
	defer metrics.ObserveOp("retrieve", time.Now())

	if e.store == nil {
		metrics.EngineOpErrors.WithLabelValues("retrieve", "unavailable").Inc()
		return nil, fmt.Errorf("context store: %w", ErrUnavailable)
	}

	docs, err := e.store.Retrieve(ctx, query, k)
	if err != nil {
		metrics.EngineOpErrors.WithLabelValues("retrieve", errKind(err)).Inc()
		return nil, err
	}
	return docs, nil
}

// ClearContext deletes every record in the retrieval collection.
func (e *Engine) ClearContext(ctx context.Context) error {
	if e.store == nil {
		return fmt.Errorf("context store: %w", ErrUnavailable)
	}
	return e.store.Clear(ctx)
}

// SelectAction asks the bandit for the next roadmap action for the user.
func (e *Engine) SelectAction(ctx context.Context, userID int64) (ActionRecommendation, error) {
	defer metrics.ObserveOp("select_action", time.Now())

	if e.policy == nil {
		metrics.EngineOpErrors.WithLabelValues("select_action", "unavailable").Inc()
		return ActionRecommendation{}, fmt.Errorf("policy: %w", ErrUnavailable)
	}
	return e.policy.SelectAction(ctx, userID)
}

// UpdatePolicy applies an observed reward to the bandit and persists the
// updated weights. A zero reward is a no-op by contract; the caller is
// expected to skip the call, but the engine tolerates it.
func (e *Engine) UpdatePolicy(ctx context.Context, userID int64, action string, reward float64) error {
	defer metrics.ObserveOp("update_policy", time.Now())

	if e.policy == nil {
		metrics.EngineOpErrors.WithLabelValues("update_policy", "unavailable").Inc()
		return fmt.Errorf("policy: %w", ErrUnavailable)
	}
	if reward == 0 {
		e.logger.Debug().Int64("user_id", userID).Msg("zero reward, skipping policy update")
		return nil
	}
	return e.policy.UpdatePolicy(ctx, userID, action, reward)
}

// errKind buckets an error for the metrics label.
func errKind(err error) string {
	switch {
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrEmbedding):
		return "embedding"
	case errors.Is(err, ErrUnknownAction):
		return "invalid_input"
	default:
		return "internal"
	}
}
