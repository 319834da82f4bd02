// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/pathfinder/config.yaml",
	"/etc/pathfinder/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces every Pathfinder environment variable:
// PATHFINDER_POLICY_EPSILON -> policy.epsilon.
const envPrefix = "PATHFINDER_"

// defaultConfig returns a Config with all defaults applied. The numeric
// defaults (epsilon 0.2, learning rate 0.1, 0.7/0.3 fusion) match the
// values the artifacts were tuned with.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8470,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Artifacts: ArtifactsConfig{
			Dir: "/data/artifacts",
		},
		Matching: MatchingConfig{
			SimilarityWeight: 0.7,
			SkillWeight:      0.3,
		},
		Policy: PolicyConfig{
			Epsilon:      0.2,
			LearningRate: 0.1,
			WeightsPath:  "/data/policy/weights.json",
			Seed:         0,
		},
		Retrieval: RetrievalConfig{
			Dir:        "/data/retrieval",
			Collection: "pathfinder_context",
			Embedding: EmbeddingConfig{
				APIKey:            "",
				Model:             "gemini-embedding-001",
				Dimensions:        768,
				Timeout:           10 * time.Second,
				RequestsPerMinute: 120,
			},
		},
		Interactions: InteractionsConfig{
			Enabled: true,
			Path:    "/data/pathfinder.duckdb",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// PATHFINDER_* environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// envTransform maps PATHFINDER_RETRIEVAL_EMBEDDING_API_KEY style variables
// onto koanf paths. Section names never contain underscores, so the first
// two segments become path components and the rest stays a single key.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(s, "_", 2)
	if len(parts) == 1 {
		return parts[0]
	}
	section, rest := parts[0], parts[1]
	if section == "retrieval" && strings.HasPrefix(rest, "embedding_") {
		return "retrieval.embedding." + strings.TrimPrefix(rest, "embedding_")
	}
	return section + "." + rest
}

// findConfigFile returns the first config file that exists, honoring the
// CONFIG_PATH override, or empty string when none is present.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
