// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

// Package policy implements the epsilon-greedy linear contextual bandit
// over roadmap actions. The weight matrix is the only mutable shared
// state in the engine; every read-modify-persist sequence runs under one
// writer lock so concurrent updates cannot lose gradient steps.
package policy

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pathfinder-ai/pathfinder/internal/metrics"
	"github.com/pathfinder-ai/pathfinder/internal/recommend"
)

const (
	// ModelVersion tags persisted weights and reward log entries.
	ModelVersion = "v1_linear_sgd"

	// numFeatures is the fixed state vector dimensionality.
	numFeatures = 5

	// defaultSeed keeps cold deployments reproducible when no seed is
	// configured.
	defaultSeed = 42

	explorationExplanation = "Exploration (trying new strategy)"
)

// Config holds the bandit hyperparameters.
type Config struct {
	// Epsilon is the exploration probability, in [0,1].
	Epsilon float64

	// LearningRate is the online gradient step size.
	LearningRate float64

	// WeightsPath is the JSON file the weight matrix persists to.
	WeightsPath string

	// Seed drives weight initialization and exploration. Zero selects
	// the fixed default seed.
	Seed int64
}

// Bandit is the epsilon-greedy linear policy over the fixed action set.
// It implements recommend.Policy.
type Bandit struct {
	cfg     Config
	actions []string

	source  recommend.InteractionSource
	rewards recommend.RewardSink
	logger  zerolog.Logger

	mu    sync.Mutex
	theta [][]float64
	rng   *rand.Rand
}

// New loads or initializes the bandit. Missing persisted weights are not
// an error: a fresh random matrix is created and persisted best-effort.
// Corrupt or misshapen weights are replaced the same way, with a warning.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg Config, source recommend.InteractionSource, rewards recommend.RewardSink, logger zerolog.Logger) *Bandit {
	seed := cfg.Seed
	if seed == 0 {
		seed = defaultSeed
	}

	b := &Bandit{
		cfg:     cfg,
		actions: recommend.Actions(),
		source:  source,
		rewards: rewards,
		logger:  logger.With().Str("component", "policy").Logger(),
		rng:     rand.New(rand.NewSource(seed)), //nolint:gosec // reproducible exploration, not crypto
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	theta, err := loadWeights(cfg.WeightsPath, len(b.actions), numFeatures)
	switch {
	case err == nil:
		b.theta = theta
		b.logger.Info().Str("path", cfg.WeightsPath).Msg("loaded policy weights")
	case errors.Is(err, os.ErrNotExist):
		b.theta = randomTheta(b.rng, len(b.actions), numFeatures)
		b.logger.Info().Str("path", cfg.WeightsPath).Msg("no persisted weights, initialized fresh matrix")
		b.persistLocked()
	default:
		b.theta = randomTheta(b.rng, len(b.actions), numFeatures)
		b.logger.Warn().Err(err).Msg("unusable persisted weights, reinitialized")
		b.persistLocked()
	}
	return b
}

// DeriveState builds the 5-feature state vector from the user's
// interaction history. An empty history yields the fixed cold-start
// vector. The trailing features are a phase placeholder, a pacing
// placeholder and the bias term.
func (b *Bandit) DeriveState(ctx context.Context, userID int64) ([]float64, error) {
	var events []recommend.InteractionEvent
	if b.source != nil {
		var err error
		events, err = b.source.ListByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list interactions for user %d: %w", userID, err)
		}
	}

	if len(events) == 0 {
		return []float64{0.5, 0.0, 0.0, 0.5, 1.0}, nil
	}

	ratingSum, ratingCount, completed := 0, 0, 0
	for _, ev := range events {
		if ev.DifficultyRating > 0 {
			ratingSum += ev.DifficultyRating
			ratingCount++
		}
		if ev.Action == recommend.InteractionComplete {
			completed++
		}
	}

	avgDifficulty := 0.5
	if ratingCount > 0 {
		avgDifficulty = float64(ratingSum) / float64(ratingCount) / 5.0
	}
	completionRate := float64(completed) / float64(len(events))

	return []float64{avgDifficulty, completionRate, 0.1, 0.5, 1.0}, nil
}

// SelectAction picks the next roadmap action for the user: with
// probability epsilon a uniform random action (exploration), otherwise
// the argmax of expected reward under the current weights, ties broken
// by first occurrence.
func (b *Bandit) SelectAction(ctx context.Context, userID int64) (recommend.ActionRecommendation, error) {
	state, err := b.DeriveState(ctx, userID)
	if err != nil {
		return recommend.ActionRecommendation{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.rng.Float64() < b.cfg.Epsilon {
		action := b.actions[b.rng.Intn(len(b.actions))]
		metrics.PolicySelections.WithLabelValues(action, "explore").Inc()
		b.logger.Debug().Int64("user_id", userID).Str("action", action).Msg("exploration pick")
		return recommend.ActionRecommendation{
			Action:      action,
			Explanation: explorationExplanation,
		}, nil
	}

	best, bestScore := 0, dot(b.theta[0], state)
	for i := 1; i < len(b.actions); i++ {
		if score := dot(b.theta[i], state); score > bestScore {
			best, bestScore = i, score
		}
	}
	action := b.actions[best]
	metrics.PolicySelections.WithLabelValues(action, "exploit").Inc()
	b.logger.Debug().Int64("user_id", userID).Str("action", action).
		Float64("score", bestScore).Msg("exploitation pick")

	return recommend.ActionRecommendation{
		Action:      action,
		Explanation: fmt.Sprintf("Model Prediction (Score: %.2f)", bestScore),
	}, nil
}

// UpdatePolicy applies one online gradient step for the observed reward,
// appends a reward log entry and persists the matrix. Reward logging and
// persistence failures are logged but non-fatal: the in-memory policy
// stays updated and persistence retries on the next update.
func (b *Bandit) UpdatePolicy(ctx context.Context, userID int64, action string, reward float64) error {
	idx := -1
	for i, a := range b.actions {
		if a == action {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("action %q: %w", action, recommend.ErrUnknownAction)
	}

	state, err := b.DeriveState(ctx, userID)
	if err != nil {
		return err
	}

	b.mu.Lock()
	prediction := dot(b.theta[idx], state)
	gradErr := reward - prediction
	for j := range b.theta[idx] {
		b.theta[idx][j] += b.cfg.LearningRate * gradErr * state[j]
	}
	b.persistLocked()
	b.mu.Unlock()

	metrics.PolicyUpdates.WithLabelValues(action).Inc()
	b.logger.Info().Int64("user_id", userID).Str("action", action).
		Float64("reward", reward).Float64("prediction", prediction).
		Msg("policy updated")

	if b.rewards != nil {
		entry := recommend.RewardLog{
			ID:           uuid.NewString(),
			UserID:       userID,
			Reward:       reward,
			ModelVersion: ModelVersion,
			CreatedAt:    time.Now().UTC(),
		}
		if err := b.rewards.AppendReward(ctx, entry); err != nil {
			b.logger.Warn().Err(err).Int64("user_id", userID).Msg("reward log append failed")
		}
	}
	return nil
}

// Reload re-reads the persisted weight matrix, replacing the in-memory
// copy when the file is valid.
func (b *Bandit) Reload() error {
	theta, err := loadWeights(b.cfg.WeightsPath, len(b.actions), numFeatures)
	if err != nil {
		return fmt.Errorf("reload weights: %w", err)
	}
	b.mu.Lock()
	b.theta = theta
	b.mu.Unlock()
	b.logger.Info().Str("path", b.cfg.WeightsPath).Msg("reloaded policy weights")
	return nil
}

// Weights returns a snapshot copy of the current matrix.
func (b *Bandit) Weights() [][]float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneTheta(b.theta)
}

// persistLocked writes the matrix to disk. Caller holds b.mu.
func (b *Bandit) persistLocked() {
	if err := saveWeights(b.cfg.WeightsPath, b.theta); err != nil {
		metrics.PolicyPersistFailures.Inc()
		b.logger.Error().Err(err).Str("path", b.cfg.WeightsPath).Msg("weight persistence failed")
	}
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
