// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package retrieval

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/pathfinder-ai/pathfinder/internal/metrics"
	"github.com/pathfinder-ai/pathfinder/internal/recommend/matcher"
)

// LocalEmbedder is the deterministic offline fallback: token hashing
// into a fixed-dimension bag vector, L2 normalized. It has no semantic
// understanding but preserves exact-term overlap, which keeps retrieval
// usable without an API credential.
type LocalEmbedder struct {
	dims int
}

// NewLocalEmbedder creates a local embedder of the given dimensionality,
// which must match the remote provider's so stored vectors stay
// comparable across provider switches.
func NewLocalEmbedder(dims int) *LocalEmbedder {
	return &LocalEmbedder{dims: dims}
}

// Embed hashes each token into a dimension bucket and normalizes.
// Text with no usable tokens embeds to the zero vector.
func (e *LocalEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dims)
	tokens := matcher.Tokenize(text)
	if len(tokens) == 0 {
		metrics.EmbeddingRequests.WithLabelValues(e.Provider(), "empty").Inc()
		return vec, nil
	}

	for _, tok := range tokens {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()
		idx := int(sum % uint64(e.dims))
		// Sign from a hash bit spreads tokens across both directions.
		if sum&(1<<63) == 0 {
			vec[idx]++
		} else {
			vec[idx]--
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		n := float32(math.Sqrt(norm))
		for i := range vec {
			vec[i] /= n
		}
	}
	metrics.EmbeddingRequests.WithLabelValues(e.Provider(), "ok").Inc()
	return vec, nil
}

// Dimensions returns the vector dimensionality.
func (e *LocalEmbedder) Dimensions() int { return e.dims }

// Provider identifies the embedder in logs and metrics.
func (e *LocalEmbedder) Provider() string { return "local" }
