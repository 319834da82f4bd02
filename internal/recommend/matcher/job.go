// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package matcher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pathfinder-ai/pathfinder/internal/artifact"
	"github.com/pathfinder-ai/pathfinder/internal/recommend"
)

// JobMatcher ranks jobs against a free-text candidate profile by fusing
// semantic similarity from the text model with required-skill overlap.
// The model and catalog are immutable after construction, so the matcher
// is safe for concurrent use.
type JobMatcher struct {
	model     *TextModel
	catalog   []artifact.CatalogJob
	simWeight float64
	skWeight  float64
	logger    zerolog.Logger
}

// NewJobMatcher builds the matcher from loaded artifacts and the score
// fusion weights. When the text model capability is unavailable the
// matcher is constructed but every call reports recommend.ErrUnavailable.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewJobMatcher(store *artifact.Store, simWeight, skillWeight float64, logger zerolog.Logger) *JobMatcher {
	m := &JobMatcher{
		simWeight: simWeight,
		skWeight:  skillWeight,
		logger:    logger.With().Str("component", "job_matcher").Logger(),
	}
	if store.Available(artifact.CapabilityTextModel) {
		m.model = NewTextModel(store.TextModel())
	}
	if store.Available(artifact.CapabilityCatalog) {
		m.catalog = store.Catalog()
	}
	return m
}

// MatchJobs ranks the caller-supplied jobs against the profile text.
// A profile that tokenizes to nothing aborts the whole batch with
// recommend.ErrEmbedding; individual jobs with no usable text are
// skipped instead. Results are sorted by final score descending and
// truncated to topK.
func (m *JobMatcher) MatchJobs(profileText string, jobs []recommend.JobDocument, topK int) ([]recommend.JobMatch, error) {
	if m.model == nil {
		return nil, fmt.Errorf("text model artifacts: %w", recommend.ErrUnavailable)
	}

	profileVec, err := m.model.Infer(Tokenize(profileText))
	if err != nil {
		return nil, fmt.Errorf("profile text: %w", recommend.ErrEmbedding)
	}
	profileLower := strings.ToLower(profileText)

	matches := make([]recommend.JobMatch, 0, len(jobs))
	for _, job := range jobs {
		tokens := Tokenize(compositeText(job))
		if len(tokens) == 0 {
			m.logger.Debug().Str("job_id", job.ID).Msg("job has no usable text, skipping")
			continue
		}
		jobVec, err := m.model.Infer(tokens)
		if err != nil {
			m.logger.Debug().Str("job_id", job.ID).Msg("job embedding failed, skipping")
			continue
		}

		sim := cosine(profileVec, jobVec)
		overlap, matching := skillOverlap(profileLower, job.RequiredSkills)
		final := (sim*m.simWeight + overlap*m.skWeight) * 100
		if final < 0 {
			final = 0
		}

		matches = append(matches, recommend.JobMatch{
			JobID:                job.ID,
			FinalScore:           round2(final),
			SimilarityScore:      round4(sim),
			SkillMatchPercentage: round2(overlap * 100),
			MatchingSkills:       matching,
			Job:                  job,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].FinalScore > matches[j].FinalScore
	})
	if topK > 0 && topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

// MatchCatalog ranks the precomputed job catalog by cosine similarity
// against the profile text. Catalog entries carry their embeddings from
// the artifact bundle, so only the profile is inferred per call.
func (m *JobMatcher) MatchCatalog(profileText string, topK int) ([]recommend.CatalogMatch, error) {
	if m.model == nil || m.catalog == nil {
		return nil, fmt.Errorf("job catalog artifacts: %w", recommend.ErrUnavailable)
	}

	profileVec, err := m.model.Infer(Tokenize(profileText))
	if err != nil {
		return nil, fmt.Errorf("profile text: %w", recommend.ErrEmbedding)
	}

	matches := make([]recommend.CatalogMatch, 0, len(m.catalog))
	for _, job := range m.catalog {
		sim := cosine32(profileVec, job.Vector)
		score := sim * 100
		if score < 0 {
			score = 0
		}
		matches = append(matches, recommend.CatalogMatch{
			JobID:       job.ID,
			Title:       job.Title,
			Description: job.Description,
			Skills:      job.Skills,
			Industry:    job.Industry,
			PayGrade:    job.PayGrade,
			MatchScore:  round2(score),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})
	if topK > 0 && topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

// compositeText joins a job's textual fields into the document the text
// model embeds.
func compositeText(job recommend.JobDocument) string {
	parts := make([]string, 0, 6)
	for _, p := range []string{
		job.Title,
		job.Description,
		strings.Join(job.RequiredSkills, " "),
		strings.Join(job.NiceToHave, " "),
		job.Industry,
		job.ExperienceLevel,
	} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// skillOverlap reports the fraction of required skills found in the
// lowercased profile text by substring match, plus the matched skills.
// Jobs with no required skills score zero rather than a free full match.
func skillOverlap(profileLower string, required []string) (float64, []string) {
	if len(required) == 0 {
		return 0, []string{}
	}
	matching := make([]string, 0, len(required))
	for _, skill := range required {
		if skill == "" {
			continue
		}
		if strings.Contains(profileLower, strings.ToLower(skill)) {
			matching = append(matching, skill)
		}
	}
	return float64(len(matching)) / float64(len(required)), matching
}
