// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package matcher

import (
	"errors"
	"hash/fnv"
	"math"

	"github.com/pathfinder-ai/pathfinder/internal/artifact"
)

// errNoTokens indicates the input produced no usable tokens, so no
// embedding can be inferred.
var errNoTokens = errors.New("no usable tokens")

// inferStartRate is the initial blend rate of the iterative inference.
// The rate decays linearly to zero over the configured epochs.
const inferStartRate = 0.1

// TextModel infers fixed-dimension document embeddings from the trained
// token vector table. Inference is iterative with a fixed epoch count and
// a deterministic seed derived from the tokens, so the same text always
// yields the same vector.
type TextModel struct {
	dims    int
	epochs  int
	vectors map[string][]float32
}

// NewTextModel wraps loaded text model artifact data.
// Returns nil when data is nil (capability unavailable).
func NewTextModel(data *artifact.TextModelData) *TextModel {
	if data == nil {
		return nil
	}
	return &TextModel{
		dims:    data.Dimensions,
		epochs:  data.Epochs,
		vectors: data.Vectors,
	}
}

// Dimensions returns the embedding dimensionality.
func (m *TextModel) Dimensions() int { return m.dims }

// Infer computes the document embedding for the given tokens.
// The result is L2-normalized. Tokens absent from the vocabulary
// contribute only to the seed, not to the refinement target.
func (m *TextModel) Infer(tokens []string) ([]float64, error) {
	if len(tokens) == 0 {
		return nil, errNoTokens
	}

	vec := m.seedVector(tokens)

	// Mean of known token vectors is the refinement target.
	target := make([]float64, m.dims)
	known := 0
	for _, tok := range tokens {
		tv, ok := m.vectors[tok]
		if !ok {
			continue
		}
		for i, v := range tv {
			target[i] += float64(v)
		}
		known++
	}

	if known > 0 {
		for i := range target {
			target[i] /= float64(known)
		}
		// Fixed-epoch blend toward the target with a linearly decaying
		// rate; fixed iteration count keeps inference deterministic.
		for e := 0; e < m.epochs; e++ {
			rate := inferStartRate * (1 - float64(e)/float64(m.epochs))
			for i := range vec {
				vec[i] = (1-rate)*vec[i] + rate*target[i]
			}
		}
	}

	normalize(vec)
	return vec, nil
}

// seedVector derives the deterministic starting vector from the token
// sequence, one hashed contribution per token position.
func (m *TextModel) seedVector(tokens []string) []float64 {
	vec := make([]float64, m.dims)
	for pos, tok := range tokens {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		seed := h.Sum64() + uint64(pos)

		idx := int(seed % uint64(m.dims))
		// Map the next hash bits to a small value in [-0.5, 0.5).
		frac := float64((seed>>8)&0xffff)/65536.0 - 0.5
		vec[idx] += frac / float64(len(tokens))
	}
	return vec
}

// normalize scales vec to unit L2 norm in place. Zero vectors are left
// untouched.
func normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	n := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= n
	}
}

// cosine returns the cosine similarity of two equal-length vectors, or 0
// when either has zero norm.
func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// cosine32 is cosine against a float32 vector, used for the precomputed
// catalog and retrieval records.
func cosine32(a []float64, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		bv := float64(b[i])
		dot += a[i] * bv
		na += a[i] * a[i]
		nb += bv * bv
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// round2 and round4 round to fixed decimal places for API stability.
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
