// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/pathfinder-ai/pathfinder/internal/metrics"
)

// GeminiConfig configures the remote embedding provider.
type GeminiConfig struct {
	APIKey            string
	Model             string
	Dimensions        int
	Timeout           time.Duration
	RequestsPerMinute int
}

// GeminiEmbedder calls the Gemini embedding API behind a client-side
// rate limiter and a circuit breaker. Failures surface as errors; the
// store decides whether to degrade to a zero vector.
type GeminiEmbedder struct {
	client  *genai.Client
	cfg     GeminiConfig
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]float32]
	logger  zerolog.Logger
}

// NewGeminiEmbedder creates the remote embedder.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewGeminiEmbedder(ctx context.Context, cfg GeminiConfig, logger zerolog.Logger) (*GeminiEmbedder, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	e := &GeminiEmbedder{
		client: client,
		cfg:    cfg,
		logger: logger.With().Str("component", "gemini_embedder").Logger(),
	}

	if cfg.RequestsPerMinute > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute)
	}

	e.breaker = gobreaker.NewCircuitBreaker[[]float32](gobreaker.Settings{
		Name:    "gemini-embeddings",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("embedding breaker state change")
		},
	})
	return e, nil
}

// Embed requests one embedding, bounded by the configured timeout.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			metrics.EmbeddingRequests.WithLabelValues(e.Provider(), "rate_limited").Inc()
			return nil, fmt.Errorf("embedding rate limit: %w", err)
		}
	}

	vec, err := e.breaker.Execute(func() ([]float32, error) {
		callCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()

		dims := int32(e.cfg.Dimensions) //nolint:gosec // dimensions are small, validated config
		result, err := e.client.Models.EmbedContent(callCtx, e.cfg.Model,
			genai.Text(text), &genai.EmbedContentConfig{
				TaskType:             "RETRIEVAL_DOCUMENT",
				OutputDimensionality: &dims,
			})
		if err != nil {
			return nil, err
		}
		if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
			return nil, fmt.Errorf("empty embedding response")
		}
		return result.Embeddings[0].Values, nil
	})
	if err != nil {
		metrics.EmbeddingRequests.WithLabelValues(e.Provider(), "error").Inc()
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(vec) != e.cfg.Dimensions {
		metrics.EmbeddingRequests.WithLabelValues(e.Provider(), "error").Inc()
		return nil, fmt.Errorf("gemini embed: got %d dimensions, want %d", len(vec), e.cfg.Dimensions)
	}

	metrics.EmbeddingRequests.WithLabelValues(e.Provider(), "ok").Inc()
	return vec, nil
}

// Dimensions returns the configured vector dimensionality.
func (e *GeminiEmbedder) Dimensions() int { return e.cfg.Dimensions }

// Provider identifies the embedder in logs and metrics.
func (e *GeminiEmbedder) Provider() string { return "gemini" }
