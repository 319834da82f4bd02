// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package matcher

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pathfinder-ai/pathfinder/internal/artifact"
	"github.com/pathfinder-ai/pathfinder/internal/recommend"
)

const (
	testSimWeight   = 0.7
	testSkillWeight = 0.3
)

// jobStore loads a text model plus a two-entry catalog.
func jobStore(t *testing.T) *artifact.Store {
	t.Helper()
	dir := t.TempDir()
	writeArtifact(t, dir, artifact.ManifestFile, `{"model_version":"v1","career_metric":"euclidean"}`)
	writeArtifact(t, dir, artifact.TextModelFile, `{
		"dimensions":4,
		"epochs":20,
		"vectors":{
			"python":[0.9,0.1,0.0,0.0],
			"sql":[0.8,0.2,0.0,0.0],
			"backend":[0.7,0.3,0.1,0.0],
			"painting":[0.0,0.0,0.9,0.4]
		}
	}`)
	writeArtifact(t, dir, artifact.CatalogFile, `[
		{"job_id":1,"job_title":"Backend Engineer","description":"APIs","skills_required":["Python"],
		 "industry":"Tech","pay_grade":"L4","vector":[0.9,0.2,0.0,0.0]},
		{"job_id":2,"job_title":"Art Restorer","description":"Paintings","skills_required":["Painting"],
		 "industry":"Arts","pay_grade":"L2","vector":[0.0,0.0,0.9,0.4]}
	]`)
	return artifact.Load(dir)
}

func newTestJobMatcher(t *testing.T) *JobMatcher {
	t.Helper()
	return NewJobMatcher(jobStore(t), testSimWeight, testSkillWeight, zerolog.Nop())
}

func TestMatchJobsSkillOverlap(t *testing.T) {
	m := newTestJobMatcher(t)
	profile := "Backend developer with Python and SQL experience"

	matches, err := m.MatchJobs(profile, []recommend.JobDocument{
		{
			ID:             "j1",
			Title:          "Backend Engineer",
			Description:    "Python backend services",
			RequiredSkills: []string{"Python", "Rust"},
		},
	}, 10)
	if err != nil {
		t.Fatalf("MatchJobs: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(matches))
	}

	got := matches[0]
	if got.SkillMatchPercentage != 50 {
		t.Errorf("skill match = %v, want 50", got.SkillMatchPercentage)
	}
	if len(got.MatchingSkills) != 1 || got.MatchingSkills[0] != "Python" {
		t.Errorf("matching skills = %v, want [Python]", got.MatchingSkills)
	}
	if got.FinalScore < 0 || got.FinalScore > 100 {
		t.Errorf("final score %v outside [0,100]", got.FinalScore)
	}
	if got.Job.ID != "j1" {
		t.Errorf("job echoed back = %q, want j1", got.Job.ID)
	}
}

func TestMatchJobsOverlapBreaksTies(t *testing.T) {
	m := newTestJobMatcher(t)
	profile := "python backend developer"

	// Identical text, so identical similarity; overlap decides the order.
	matches, err := m.MatchJobs(profile, []recommend.JobDocument{
		{ID: "no-overlap", Title: "Backend role", RequiredSkills: []string{"zzqq"}},
		{ID: "full-overlap", Title: "Backend role", RequiredSkills: []string{"python"}},
	}, 10)
	if err != nil {
		t.Fatalf("MatchJobs: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	if matches[0].JobID != "full-overlap" {
		t.Errorf("top job = %q, want full-overlap", matches[0].JobID)
	}
	if matches[0].SimilarityScore != matches[1].SimilarityScore {
		t.Errorf("similarity differs for identical text: %v vs %v",
			matches[0].SimilarityScore, matches[1].SimilarityScore)
	}
}

func TestMatchJobsNoRequiredSkills(t *testing.T) {
	m := newTestJobMatcher(t)

	matches, err := m.MatchJobs("python developer", []recommend.JobDocument{
		{ID: "j1", Title: "Backend role"},
	}, 10)
	if err != nil {
		t.Fatalf("MatchJobs: %v", err)
	}
	if matches[0].SkillMatchPercentage != 0 {
		t.Errorf("skill match without required skills = %v, want 0", matches[0].SkillMatchPercentage)
	}
}

func TestMatchJobsSkipsEmptyJobs(t *testing.T) {
	m := newTestJobMatcher(t)

	matches, err := m.MatchJobs("python developer", []recommend.JobDocument{
		{ID: "empty"},
		{ID: "punct", Title: "?! 123"},
		{ID: "ok", Title: "Backend Python"},
	}, 10)
	if err != nil {
		t.Fatalf("MatchJobs: %v", err)
	}
	if len(matches) != 1 || matches[0].JobID != "ok" {
		t.Errorf("matches = %+v, want only job ok", matches)
	}
}

func TestMatchJobsEmptyProfile(t *testing.T) {
	m := newTestJobMatcher(t)

	_, err := m.MatchJobs("?! 123", []recommend.JobDocument{{ID: "j1", Title: "Backend"}}, 10)
	if !errors.Is(err, recommend.ErrEmbedding) {
		t.Errorf("err = %v, want ErrEmbedding", err)
	}
}

func TestMatchJobsTopK(t *testing.T) {
	m := newTestJobMatcher(t)

	jobs := []recommend.JobDocument{
		{ID: "j1", Title: "Backend Python"},
		{ID: "j2", Title: "SQL Analyst"},
		{ID: "j3", Title: "Painting Restorer"},
	}
	matches, err := m.MatchJobs("python sql backend", jobs, 2)
	if err != nil {
		t.Fatalf("MatchJobs: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("matches = %d, want 2", len(matches))
	}
}

func TestMatchJobsUnavailable(t *testing.T) {
	m := NewJobMatcher(artifact.Load(t.TempDir()), testSimWeight, testSkillWeight, zerolog.Nop())

	_, err := m.MatchJobs("python", []recommend.JobDocument{{ID: "j1", Title: "Backend"}}, 5)
	if !errors.Is(err, recommend.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestMatchCatalogRanksBySimilarity(t *testing.T) {
	m := newTestJobMatcher(t)

	matches, err := m.MatchCatalog("python sql backend developer", 10)
	if err != nil {
		t.Fatalf("MatchCatalog: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	if matches[0].JobID != 1 {
		t.Errorf("top catalog job = %d, want 1 (Backend Engineer)", matches[0].JobID)
	}
	if matches[0].MatchScore <= matches[1].MatchScore {
		t.Errorf("scores not descending: %v then %v", matches[0].MatchScore, matches[1].MatchScore)
	}
	for _, match := range matches {
		if match.MatchScore < 0 || match.MatchScore > 100 {
			t.Errorf("job %d: score %v outside [0,100]", match.JobID, match.MatchScore)
		}
	}
	if matches[0].Title != "Backend Engineer" || matches[0].PayGrade != "L4" {
		t.Errorf("catalog fields not carried through: %+v", matches[0])
	}
}

func TestMatchCatalogUnavailable(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, artifact.ManifestFile, `{"model_version":"v1","career_metric":"euclidean"}`)
	writeArtifact(t, dir, artifact.TextModelFile,
		`{"dimensions":4,"epochs":20,"vectors":{"python":[0.9,0.1,0.0,0.0]}}`)

	m := NewJobMatcher(artifact.Load(dir), testSimWeight, testSkillWeight, zerolog.Nop())
	_, err := m.MatchCatalog("python", 5)
	if !errors.Is(err, recommend.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
