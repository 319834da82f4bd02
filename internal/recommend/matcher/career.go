// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package matcher

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/pathfinder-ai/pathfinder/internal/artifact"
	"github.com/pathfinder-ai/pathfinder/internal/recommend"
)

// maxMissingSkills caps the missing-skills list per career match.
const maxMissingSkills = 5

// CareerMatcher ranks reference careers against a user skill set by
// nearest-neighbor search over multi-hot skill vectors. All state is
// derived once from the immutable artifacts, so the matcher is safe for
// concurrent use without locking.
type CareerMatcher struct {
	vocab     map[string]int
	careers   []artifact.Career
	vectors   [][]float64
	metric    artifact.DistanceMetric
	vocabSize int
	logger    zerolog.Logger
	available bool
}

// NewCareerMatcher builds the matcher from loaded artifacts. When the
// careers capability is unavailable the matcher is still constructed but
// every call reports recommend.ErrUnavailable.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCareerMatcher(store *artifact.Store, logger zerolog.Logger) *CareerMatcher {
	m := &CareerMatcher{
		metric: store.Manifest().CareerMetric,
		logger: logger.With().Str("component", "career_matcher").Logger(),
	}
	if !store.Available(artifact.CapabilityCareers) {
		return m
	}

	vocab := store.Vocabulary()
	m.vocab = make(map[string]int, len(vocab))
	for i, label := range vocab {
		m.vocab[label] = i
	}
	m.vocabSize = len(vocab)

	m.careers = store.Careers()
	m.vectors = make([][]float64, len(m.careers))
	for i, c := range m.careers {
		m.vectors[i] = m.encode(c.Skills)
	}
	m.available = true
	return m
}

// encode builds the multi-hot indicator vector for a skill set.
// Labels outside the vocabulary are ignored.
func (m *CareerMatcher) encode(skills []string) []float64 {
	vec := make([]float64, m.vocabSize)
	for _, s := range skills {
		if idx, ok := m.vocab[s]; ok {
			vec[idx] = 1
		}
	}
	return vec
}

// distance computes the configured metric between two multi-hot vectors.
// Hamming is normalized by the vocabulary size so both metrics map into a
// comparable range for the similarity conversion.
func (m *CareerMatcher) distance(a, b []float64) float64 {
	differing := 0.0
	for i := range a {
		d := a[i] - b[i]
		differing += d * d
	}
	if m.metric == artifact.MetricHamming {
		return differing / float64(m.vocabSize)
	}
	return math.Sqrt(differing)
}

// RecommendCareers returns the topK nearest careers for the skill set.
// An empty skill set is valid and matches against the zero vector. topK
// is clamped to the number of reference careers.
func (m *CareerMatcher) RecommendCareers(skills []string, topK int) ([]recommend.CareerMatch, error) {
	if !m.available {
		return nil, fmt.Errorf("career reference artifacts: %w", recommend.ErrUnavailable)
	}
	if topK <= 0 {
		return []recommend.CareerMatch{}, nil
	}
	if topK > len(m.careers) {
		topK = len(m.careers)
	}

	userVec := m.encode(skills)
	userSet := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		userSet[s] = struct{}{}
	}

	type scored struct {
		idx  int
		dist float64
	}
	ranked := make([]scored, len(m.careers))
	for i, vec := range m.vectors {
		ranked[i] = scored{idx: i, dist: m.distance(userVec, vec)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].dist < ranked[j].dist
	})

	matches := make([]recommend.CareerMatch, 0, topK)
	for _, r := range ranked[:topK] {
		career := m.careers[r.idx]

		matching := make([]string, 0, len(career.Skills))
		missing := make([]string, 0, maxMissingSkills)
		for _, s := range career.Skills {
			if _, ok := userSet[s]; ok {
				matching = append(matching, s)
			} else if len(missing) < maxMissingSkills {
				missing = append(missing, s)
			}
		}

		similarity := (1 - r.dist) * 100
		if similarity < 0 {
			similarity = 0
		} else if similarity > 100 {
			similarity = 100
		}

		matches = append(matches, recommend.CareerMatch{
			Career:          career.Name,
			SimilarityScore: round2(similarity),
			MatchingSkills:  matching,
			MissingSkills:   missing,
			RequiredSkills:  career.Skills,
		})
	}
	return matches, nil
}
