// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

// Package artifact loads the immutable inference artifacts produced by the
// offline training pipeline: the skill vocabulary, the career reference
// set, the text-embedding model and the precomputed job vector cache.
//
// Artifacts are read once at process start. A missing or corrupt artifact
// marks the corresponding capability unavailable; it never fails startup.
// Operations that depend on an unavailable capability degrade instead of
// erroring out the process (the engine surfaces ErrUnavailable to callers).
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/pathfinder-ai/pathfinder/internal/logging"
)

// Artifact file names within the artifact directory.
const (
	ManifestFile  = "manifest.json"
	VocabFile     = "skills_vocab.json"
	CareersFile   = "career_reference.json"
	TextModelFile = "text_model.json"
	CatalogFile   = "job_vectors.json"
)

// Capability identifies a loadable inference capability.
type Capability string

const (
	// CapabilityCareers is the skill-based career matcher's KNN reference
	// data (vocabulary + career skill sets).
	CapabilityCareers Capability = "careers"

	// CapabilityTextModel is the doc2vec-style text embedding model.
	CapabilityTextModel Capability = "text_model"

	// CapabilityCatalog is the precomputed job embedding cache.
	CapabilityCatalog Capability = "catalog"
)

// DistanceMetric selects how career vectors are compared. It is declared
// by the artifact manifest so matching stays consistent with training.
type DistanceMetric string

const (
	MetricEuclidean DistanceMetric = "euclidean"
	MetricHamming   DistanceMetric = "hamming"
)

// Manifest carries artifact-set metadata.
type Manifest struct {
	ModelVersion string         `json:"model_version"`
	CareerMetric DistanceMetric `json:"career_metric"`
}

// Career is one reference career with its required skill set.
type Career struct {
	Name   string   `json:"career"`
	Skills []string `json:"skills"`
}

// TextModelData is the serialized embedding model: a token vector table
// with fixed dimensionality and a fixed inference epoch count.
type TextModelData struct {
	Dimensions int                  `json:"dimensions"`
	Epochs     int                  `json:"epochs"`
	Vectors    map[string][]float32 `json:"vectors"`
}

// CatalogJob is one precomputed entry of the static job catalog.
type CatalogJob struct {
	ID          int       `json:"job_id"`
	Title       string    `json:"job_title"`
	Description string    `json:"description"`
	Skills      []string  `json:"skills_required"`
	Industry    string    `json:"industry"`
	PayGrade    string    `json:"pay_grade"`
	Vector      []float32 `json:"vector"`
}

// Store holds loaded artifacts and exposes read-only accessors.
// It is immutable after Load and safe for concurrent use.
type Store struct {
	dir       string
	manifest  Manifest
	vocab     []string
	careers   []Career
	textModel *TextModelData
	catalog   []CatalogJob
	available map[Capability]bool
}

// Load reads all artifacts from dir. Each capability loads independently;
// failures are logged and leave that capability unavailable.
func Load(dir string) *Store {
	logger := logging.Component("artifact")

	s := &Store{
		dir: dir,
		manifest: Manifest{
			ModelVersion: "unknown",
			CareerMetric: MetricEuclidean,
		},
		available: make(map[Capability]bool),
	}

	if err := readJSON(filepath.Join(dir, ManifestFile), &s.manifest); err != nil {
		logger.Warn().Err(err).Msg("manifest missing, using defaults")
	}
	if s.manifest.CareerMetric != MetricHamming {
		s.manifest.CareerMetric = MetricEuclidean
	}

	if err := s.loadCareers(); err != nil {
		logger.Warn().Err(err).Msg("career matching unavailable")
	} else {
		s.available[CapabilityCareers] = true
		logger.Info().
			Int("vocabulary", len(s.vocab)).
			Int("careers", len(s.careers)).
			Msg("career reference loaded")
	}

	if err := s.loadTextModel(); err != nil {
		logger.Warn().Err(err).Msg("text model unavailable")
	} else {
		s.available[CapabilityTextModel] = true
		logger.Info().
			Int("dimensions", s.textModel.Dimensions).
			Int("tokens", len(s.textModel.Vectors)).
			Msg("text model loaded")
	}

	if err := s.loadCatalog(); err != nil {
		logger.Warn().Err(err).Msg("job catalog unavailable")
	} else {
		s.available[CapabilityCatalog] = true
		logger.Info().Int("jobs", len(s.catalog)).Msg("job vector cache loaded")
	}

	return s
}

func (s *Store) loadCareers() error {
	if err := readJSON(filepath.Join(s.dir, VocabFile), &s.vocab); err != nil {
		return fmt.Errorf("skill vocabulary: %w", err)
	}
	if len(s.vocab) == 0 {
		return fmt.Errorf("skill vocabulary is empty")
	}
	seen := make(map[string]struct{}, len(s.vocab))
	for _, label := range s.vocab {
		if _, dup := seen[label]; dup {
			return fmt.Errorf("skill vocabulary has duplicate label %q", label)
		}
		seen[label] = struct{}{}
	}

	if err := readJSON(filepath.Join(s.dir, CareersFile), &s.careers); err != nil {
		return fmt.Errorf("career reference: %w", err)
	}
	if len(s.careers) == 0 {
		return fmt.Errorf("career reference is empty")
	}
	for _, c := range s.careers {
		if strings.TrimSpace(c.Name) == "" || len(c.Skills) == 0 {
			return fmt.Errorf("career reference entry %q is malformed", c.Name)
		}
	}
	return nil
}

func (s *Store) loadTextModel() error {
	model := &TextModelData{}
	if err := readJSON(filepath.Join(s.dir, TextModelFile), model); err != nil {
		return err
	}
	if model.Dimensions <= 0 {
		return fmt.Errorf("text model dimensions must be > 0, got %d", model.Dimensions)
	}
	if model.Epochs <= 0 {
		model.Epochs = 20
	}
	for token, vec := range model.Vectors {
		if len(vec) != model.Dimensions {
			return fmt.Errorf("token %q has %d dims, model declares %d", token, len(vec), model.Dimensions)
		}
	}
	s.textModel = model
	return nil
}

func (s *Store) loadCatalog() error {
	if err := readJSON(filepath.Join(s.dir, CatalogFile), &s.catalog); err != nil {
		return err
	}
	if len(s.catalog) == 0 {
		return fmt.Errorf("job vector cache is empty")
	}
	dims := len(s.catalog[0].Vector)
	for _, job := range s.catalog {
		if len(job.Vector) != dims {
			return fmt.Errorf("job %d vector has %d dims, expected %d", job.ID, len(job.Vector), dims)
		}
	}
	return nil
}

// Available reports whether the given capability loaded successfully.
func (s *Store) Available(c Capability) bool {
	return s.available[c]
}

// Manifest returns artifact-set metadata.
func (s *Store) Manifest() Manifest { return s.manifest }

// Vocabulary returns the ordered skill vocabulary.
// Callers must not mutate the returned slice.
func (s *Store) Vocabulary() []string { return s.vocab }

// Careers returns the reference career set.
// Callers must not mutate the returned slice.
func (s *Store) Careers() []Career { return s.careers }

// TextModel returns the embedding model data, or nil when unavailable.
func (s *Store) TextModel() *TextModelData { return s.textModel }

// Catalog returns the precomputed job catalog.
// Callers must not mutate the returned slice.
func (s *Store) Catalog() []CatalogJob { return s.catalog }

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
