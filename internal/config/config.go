// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

// Package config loads and validates Pathfinder configuration.
//
// Configuration is layered: struct defaults, then an optional YAML file,
// then PATHFINDER_* environment variables. Precedence: ENV > file > defaults.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration for the Pathfinder engine service.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Logging      LoggingConfig      `koanf:"logging"`
	Artifacts    ArtifactsConfig    `koanf:"artifacts"`
	Matching     MatchingConfig     `koanf:"matching"`
	Policy       PolicyConfig       `koanf:"policy"`
	Retrieval    RetrievalConfig    `koanf:"retrieval"`
	Interactions InteractionsConfig `koanf:"interactions"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ArtifactsConfig locates the immutable inference artifacts.
type ArtifactsConfig struct {
	// Dir is the directory holding the artifact files produced offline.
	Dir string `koanf:"dir"`
}

// MatchingConfig holds the score-fusion constants for the job matcher.
// The 0.7/0.3 split is an empirical choice carried over from the trained
// artifacts; it is configuration, not gospel.
type MatchingConfig struct {
	SimilarityWeight float64 `koanf:"similarity_weight"`
	SkillWeight      float64 `koanf:"skill_weight"`
}

// PolicyConfig configures the contextual bandit policy engine.
type PolicyConfig struct {
	// Epsilon is the exploration probability for epsilon-greedy selection.
	Epsilon float64 `koanf:"epsilon"`

	// LearningRate is the online gradient step size.
	LearningRate float64 `koanf:"learning_rate"`

	// WeightsPath is where the weight matrix is persisted wholesale.
	WeightsPath string `koanf:"weights_path"`

	// Seed makes weight initialization and exploration deterministic.
	// Zero selects a fixed default seed.
	Seed int64 `koanf:"seed"`
}

// RetrievalConfig configures the persistent retrieval context store.
type RetrievalConfig struct {
	// Dir is the badger database directory.
	Dir string `koanf:"dir"`

	// Collection is the logical collection name records live under.
	Collection string `koanf:"collection"`

	Embedding EmbeddingConfig `koanf:"embedding"`
}

// EmbeddingConfig configures the pluggable embedding function.
// With an API key the remote Gemini embedder is used; without one the
// deterministic local embedder produces vectors of the same dimensionality.
type EmbeddingConfig struct {
	APIKey            string        `koanf:"api_key"`
	Model             string        `koanf:"model"`
	Dimensions        int           `koanf:"dimensions"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerMinute int           `koanf:"requests_per_minute"`
}

// InteractionsConfig configures the interaction event store.
type InteractionsConfig struct {
	// Enabled selects the embedded DuckDB store; when false an in-memory
	// store is used and events do not survive restarts.
	Enabled bool `koanf:"enabled"`

	// Path is the DuckDB database file.
	Path string `koanf:"path"`
}

// Validate checks that the configuration is internally consistent.
// It is called once at startup; the process refuses to boot on error.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1,65535], got %d", c.Server.Port)
	}
	if c.Server.RateLimitRequests < 0 {
		return fmt.Errorf("server.rate_limit_requests must be >= 0")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if c.Artifacts.Dir == "" {
		return fmt.Errorf("artifacts.dir is required")
	}

	if c.Matching.SimilarityWeight < 0 || c.Matching.SkillWeight < 0 {
		return fmt.Errorf("matching weights must be non-negative")
	}
	if c.Matching.SimilarityWeight+c.Matching.SkillWeight == 0 {
		return fmt.Errorf("matching weights must not both be zero")
	}

	if c.Policy.Epsilon < 0 || c.Policy.Epsilon > 1 {
		return fmt.Errorf("policy.epsilon must be in [0,1], got %v", c.Policy.Epsilon)
	}
	if c.Policy.LearningRate <= 0 || c.Policy.LearningRate > 1 {
		return fmt.Errorf("policy.learning_rate must be in (0,1], got %v", c.Policy.LearningRate)
	}
	if c.Policy.WeightsPath == "" {
		return fmt.Errorf("policy.weights_path is required")
	}

	if c.Retrieval.Dir == "" {
		return fmt.Errorf("retrieval.dir is required")
	}
	if c.Retrieval.Collection == "" {
		return fmt.Errorf("retrieval.collection is required")
	}
	if c.Retrieval.Embedding.Dimensions <= 0 {
		return fmt.Errorf("retrieval.embedding.dimensions must be > 0")
	}
	if c.Retrieval.Embedding.Timeout <= 0 {
		return fmt.Errorf("retrieval.embedding.timeout must be > 0")
	}

	if c.Interactions.Enabled && c.Interactions.Path == "" {
		return fmt.Errorf("interactions.path is required when interactions.enabled=true")
	}

	return nil
}
