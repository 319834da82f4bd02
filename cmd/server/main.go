// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

// Package main is the entry point for the Pathfinder engine server.
//
// Startup order:
//
//  1. Configuration: koanf v2 layered defaults, YAML file, PATHFINDER_* env
//  2. Logging: zerolog global logger
//  3. Artifacts: load the immutable inference artifacts (degraded start on
//     missing capabilities, never a refusal to boot)
//  4. Stores: badger retrieval context store, DuckDB interaction store
//  5. Engine: matchers, bandit policy, instrumented facade
//  6. Supervision: suture tree running the HTTP server and badger GC
//
// Graceful shutdown on SIGINT/SIGTERM: the supervisor drains the HTTP
// server within the configured timeout, then stores are closed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pathfinder-ai/pathfinder/internal/api"
	"github.com/pathfinder-ai/pathfinder/internal/artifact"
	"github.com/pathfinder-ai/pathfinder/internal/config"
	"github.com/pathfinder-ai/pathfinder/internal/interactions"
	"github.com/pathfinder-ai/pathfinder/internal/logging"
	"github.com/pathfinder-ai/pathfinder/internal/recommend"
	"github.com/pathfinder-ai/pathfinder/internal/recommend/matcher"
	"github.com/pathfinder-ai/pathfinder/internal/recommend/policy"
	"github.com/pathfinder-ai/pathfinder/internal/retrieval"
	"github.com/pathfinder-ai/pathfinder/internal/supervisor"
	"github.com/pathfinder-ai/pathfinder/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()
	logger.Info().Str("addr", cfg.Server.Addr()).Msg("starting pathfinder")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Artifacts load degraded: missing capabilities disable their
	// operations but never prevent boot.
	artifacts := artifact.Load(cfg.Artifacts.Dir)

	careers := matcher.NewCareerMatcher(artifacts, logger)
	jobs := matcher.NewJobMatcher(artifacts,
		cfg.Matching.SimilarityWeight, cfg.Matching.SkillWeight, logger)

	// Retrieval context store with its pluggable embedder.
	var embedder retrieval.Embedder
	if cfg.Retrieval.Embedding.APIKey != "" {
		gemini, err := retrieval.NewGeminiEmbedder(ctx, retrieval.GeminiConfig{
			APIKey:            cfg.Retrieval.Embedding.APIKey,
			Model:             cfg.Retrieval.Embedding.Model,
			Dimensions:        cfg.Retrieval.Embedding.Dimensions,
			Timeout:           cfg.Retrieval.Embedding.Timeout,
			RequestsPerMinute: cfg.Retrieval.Embedding.RequestsPerMinute,
		}, logger)
		if err != nil {
			return err
		}
		embedder = gemini
	} else {
		logger.Info().Msg("no embedding api key, using local deterministic embedder")
		embedder = retrieval.NewLocalEmbedder(cfg.Retrieval.Embedding.Dimensions)
	}

	store, err := retrieval.Open(cfg.Retrieval.Dir, cfg.Retrieval.Collection, embedder, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("close retrieval store")
		}
	}()

	// Interaction store: durable DuckDB or in-memory.
	var events api.InteractionLogger
	var source recommend.InteractionSource
	var sink recommend.RewardSink
	if cfg.Interactions.Enabled {
		ddb, err := interactions.OpenDuckDB(cfg.Interactions.Path, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := ddb.Close(); err != nil {
				logger.Error().Err(err).Msg("close interactions store")
			}
		}()
		events, source, sink = ddb, ddb, ddb
	} else {
		logger.Warn().Msg("durable interactions disabled, using in-memory store")
		mem := interactions.NewMemoryStore()
		events, source, sink = mem, mem, mem
	}

	bandit := policy.New(policy.Config{
		Epsilon:      cfg.Policy.Epsilon,
		LearningRate: cfg.Policy.LearningRate,
		WeightsPath:  cfg.Policy.WeightsPath,
		Seed:         cfg.Policy.Seed,
	}, source, sink, logger)

	engine := recommend.NewEngine(careers, jobs, store, bandit, logger)

	handler := api.NewHandler(engine, events, policy.DefaultRewardMapping(), logger)
	router := api.NewRouter(handler, api.NewMiddleware(&api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		RateLimitRequests:  rateLimit(cfg.Server),
		RateLimitWindow:    cfg.Server.RateLimitWindow,
	}))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(services.NewHTTPService(server, cfg.Server.ShutdownTimeout))
	tree.AddStorageService(services.NewGCService(store, 10*time.Minute, logger))

	logger.Info().
		Bool("careers", artifacts.Available(artifact.CapabilityCareers)).
		Bool("text_model", artifacts.Available(artifact.CapabilityTextModel)).
		Bool("catalog", artifacts.Available(artifact.CapabilityCatalog)).
		Str("embedder", embedder.Provider()).
		Msg("pathfinder ready")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info().Msg("shutdown complete")
	return nil
}

func rateLimit(s config.ServerConfig) int {
	if s.RateLimitDisabled {
		return 0
	}
	return s.RateLimitRequests
}
