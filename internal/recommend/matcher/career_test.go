// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package matcher

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pathfinder-ai/pathfinder/internal/artifact"
	"github.com/pathfinder-ai/pathfinder/internal/recommend"
)

func writeArtifact(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// careerStore loads a small reference set: four skills, three careers.
func careerStore(t *testing.T, metric string) *artifact.Store {
	t.Helper()
	dir := t.TempDir()
	writeArtifact(t, dir, artifact.ManifestFile,
		`{"model_version":"v1","career_metric":"`+metric+`"}`)
	writeArtifact(t, dir, artifact.VocabFile, `["Python","SQL","AWS","Docker"]`)
	writeArtifact(t, dir, artifact.CareersFile, `[
		{"career":"Data Engineer","skills":["Python","SQL","AWS"]},
		{"career":"DevOps Engineer","skills":["Docker","AWS"]},
		{"career":"Backend Developer","skills":["Python","SQL"]}
	]`)
	return artifact.Load(dir)
}

func TestRecommendCareersExactMatch(t *testing.T) {
	m := NewCareerMatcher(careerStore(t, "euclidean"), zerolog.Nop())

	matches, err := m.RecommendCareers([]string{"Python", "SQL", "AWS"}, 1)
	if err != nil {
		t.Fatalf("RecommendCareers: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(matches))
	}

	got := matches[0]
	if got.Career != "Data Engineer" {
		t.Errorf("career = %q, want Data Engineer", got.Career)
	}
	if got.SimilarityScore != 100 {
		t.Errorf("similarity = %v, want 100", got.SimilarityScore)
	}
	if !reflect.DeepEqual(got.MatchingSkills, []string{"Python", "SQL", "AWS"}) {
		t.Errorf("matching skills = %v", got.MatchingSkills)
	}
	if len(got.MissingSkills) != 0 {
		t.Errorf("missing skills = %v, want none", got.MissingSkills)
	}
}

func TestRecommendCareersScoreClamped(t *testing.T) {
	m := NewCareerMatcher(careerStore(t, "euclidean"), zerolog.Nop())

	matches, err := m.RecommendCareers([]string{"Python", "SQL", "AWS"}, 3)
	if err != nil {
		t.Fatalf("RecommendCareers: %v", err)
	}
	for _, match := range matches {
		if match.SimilarityScore < 0 || match.SimilarityScore > 100 {
			t.Errorf("%s: similarity %v outside [0,100]", match.Career, match.SimilarityScore)
		}
	}
}

func TestRecommendCareersHammingMetric(t *testing.T) {
	m := NewCareerMatcher(careerStore(t, "hamming"), zerolog.Nop())

	matches, err := m.RecommendCareers([]string{"Python", "SQL"}, 3)
	if err != nil {
		t.Fatalf("RecommendCareers: %v", err)
	}
	// Backend Developer has the identical skill vector.
	if matches[0].Career != "Backend Developer" {
		t.Errorf("top career = %q, want Backend Developer", matches[0].Career)
	}
	if matches[0].SimilarityScore != 100 {
		t.Errorf("top similarity = %v, want 100", matches[0].SimilarityScore)
	}
	// Data Engineer differs in 1 of 4 vocabulary slots.
	for _, match := range matches {
		if match.Career == "Data Engineer" && match.SimilarityScore != 75 {
			t.Errorf("Data Engineer similarity = %v, want 75", match.SimilarityScore)
		}
	}
}

func TestRecommendCareersEmptySkills(t *testing.T) {
	m := NewCareerMatcher(careerStore(t, "euclidean"), zerolog.Nop())

	matches, err := m.RecommendCareers(nil, 3)
	if err != nil {
		t.Fatalf("RecommendCareers with no skills: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("matches = %d, want 3", len(matches))
	}
	for _, match := range matches {
		if len(match.MatchingSkills) != 0 {
			t.Errorf("%s: matching skills = %v, want none", match.Career, match.MatchingSkills)
		}
	}
}

func TestRecommendCareersTopKClamped(t *testing.T) {
	m := NewCareerMatcher(careerStore(t, "euclidean"), zerolog.Nop())

	matches, err := m.RecommendCareers([]string{"Python"}, 50)
	if err != nil {
		t.Fatalf("RecommendCareers: %v", err)
	}
	if len(matches) != 3 {
		t.Errorf("matches = %d, want all 3", len(matches))
	}

	matches, err = m.RecommendCareers([]string{"Python"}, 0)
	if err != nil {
		t.Fatalf("RecommendCareers topK=0: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("topK=0 matches = %d, want 0", len(matches))
	}
}

func TestRecommendCareersMissingSkillsCapped(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, artifact.ManifestFile, `{"model_version":"v1","career_metric":"euclidean"}`)
	writeArtifact(t, dir, artifact.VocabFile, `["S1","S2","S3","S4","S5","S6","S7"]`)
	writeArtifact(t, dir, artifact.CareersFile,
		`[{"career":"Polyglot","skills":["S1","S2","S3","S4","S5","S6","S7"]}]`)

	m := NewCareerMatcher(artifact.Load(dir), zerolog.Nop())
	matches, err := m.RecommendCareers(nil, 1)
	if err != nil {
		t.Fatalf("RecommendCareers: %v", err)
	}
	if got := len(matches[0].MissingSkills); got != maxMissingSkills {
		t.Errorf("missing skills = %d, want %d", got, maxMissingSkills)
	}
	if len(matches[0].RequiredSkills) != 7 {
		t.Errorf("required skills = %d, want all 7", len(matches[0].RequiredSkills))
	}
}

func TestRecommendCareersUnavailable(t *testing.T) {
	m := NewCareerMatcher(artifact.Load(t.TempDir()), zerolog.Nop())

	_, err := m.RecommendCareers([]string{"Python"}, 3)
	if !errors.Is(err, recommend.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
