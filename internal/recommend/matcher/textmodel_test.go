// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package matcher

import (
	"errors"
	"math"
	"testing"

	"github.com/pathfinder-ai/pathfinder/internal/artifact"
)

func testModel() *TextModel {
	return NewTextModel(&artifact.TextModelData{
		Dimensions: 8,
		Epochs:     20,
		Vectors: map[string][]float32{
			"python":   {0.9, 0.1, 0, 0, 0.2, 0, 0, 0},
			"sql":      {0.7, 0.3, 0.1, 0, 0, 0, 0, 0},
			"database": {0.6, 0.4, 0.2, 0, 0, 0, 0, 0},
			"painting": {0, 0, 0, 0.9, 0, 0.8, 0.1, 0},
		},
	})
}

func TestInferDeterministic(t *testing.T) {
	m := testModel()
	tokens := []string{"python", "sql", "unknown"}

	first, err := m.Infer(tokens)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := m.Infer(tokens)
		if err != nil {
			t.Fatalf("Infer: %v", err)
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("run %d dim %d: %v != %v", i, j, again[j], first[j])
			}
		}
	}
}

func TestInferUnitNorm(t *testing.T) {
	m := testModel()
	vec, err := m.Infer([]string{"python", "database"})
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if len(vec) != 8 {
		t.Fatalf("dims = %d, want 8", len(vec))
	}
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("norm^2 = %v, want 1", sum)
	}
}

func TestInferNoTokens(t *testing.T) {
	m := testModel()
	if _, err := m.Infer(nil); !errors.Is(err, errNoTokens) {
		t.Errorf("err = %v, want errNoTokens", err)
	}
}

func TestInferSimilarityOrdering(t *testing.T) {
	m := testModel()

	query, err := m.Infer([]string{"python", "sql"})
	if err != nil {
		t.Fatalf("Infer query: %v", err)
	}
	near, err := m.Infer([]string{"sql", "database"})
	if err != nil {
		t.Fatalf("Infer near: %v", err)
	}
	far, err := m.Infer([]string{"painting"})
	if err != nil {
		t.Fatalf("Infer far: %v", err)
	}

	if simNear, simFar := cosine(query, near), cosine(query, far); simNear <= simFar {
		t.Errorf("related text should score higher: near=%v far=%v", simNear, simFar)
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 0}, []float64{1, 0}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosine = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosine32DimensionMismatch(t *testing.T) {
	if got := cosine32([]float64{1, 0}, []float32{1}); got != 0 {
		t.Errorf("mismatched dims = %v, want 0", got)
	}
}
