// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

// Package retrieval implements the persistent semantic context store:
// badger-backed records with pluggable text embedding and cosine-ranked
// retrieval. It grounds generated content in previously indexed context.
package retrieval

import "context"

// Embedder turns text into a fixed-dimension vector. Implementations
// must always return vectors of exactly Dimensions() length so the
// store's dimensionality invariant holds across providers.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
	Provider() string
}
