// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package policy

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
)

// weightsFile is the on-disk weight artifact. The matrix is persisted
// wholesale on every update.
type weightsFile struct {
	ModelVersion string      `json:"model_version"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Theta        [][]float64 `json:"theta"`
}

// loadWeights reads the persisted matrix and validates its shape.
// A missing file is reported as os.ErrNotExist for the caller to
// initialize fresh weights.
func loadWeights(path string, actions, features int) ([][]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wf weightsFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("decode weights %s: %w", path, err)
	}
	if len(wf.Theta) != actions {
		return nil, fmt.Errorf("weights %s: %d action rows, want %d", path, len(wf.Theta), actions)
	}
	for i, row := range wf.Theta {
		if len(row) != features {
			return nil, fmt.Errorf("weights %s: row %d has %d features, want %d", path, i, len(row), features)
		}
	}
	return wf.Theta, nil
}

// saveWeights persists the matrix atomically via a temp file and rename
// in the destination directory.
func saveWeights(path string, theta [][]float64) error {
	data, err := json.MarshalIndent(weightsFile{
		ModelVersion: ModelVersion,
		UpdatedAt:    time.Now().UTC(),
		Theta:        theta,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode weights: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create weights dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".weights-*.json")
	if err != nil {
		return fmt.Errorf("create temp weights: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp weights: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp weights: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename weights: %w", err)
	}
	return nil
}

// randomTheta initializes a fresh weight matrix with values in [0,1).
func randomTheta(rng *rand.Rand, actions, features int) [][]float64 {
	theta := make([][]float64, actions)
	for i := range theta {
		row := make([]float64, features)
		for j := range row {
			row[j] = rng.Float64()
		}
		theta[i] = row
	}
	return theta
}

// cloneTheta deep-copies the matrix for snapshot reads.
func cloneTheta(theta [][]float64) [][]float64 {
	out := make([][]float64, len(theta))
	for i, row := range theta {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
