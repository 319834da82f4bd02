// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package policy

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pathfinder-ai/pathfinder/internal/recommend"
)

// fakeSource serves a fixed interaction history per user.
type fakeSource struct {
	events map[int64][]recommend.InteractionEvent
	err    error
}

func (s *fakeSource) ListByUser(_ context.Context, userID int64) ([]recommend.InteractionEvent, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.events[userID], nil
}

// fakeSink records appended reward logs.
type fakeSink struct {
	mu      sync.Mutex
	entries []recommend.RewardLog
	err     error
}

func (s *fakeSink) AppendReward(_ context.Context, entry recommend.RewardLog) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()
	return nil
}

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Epsilon:      0.2,
		LearningRate: 0.1,
		WeightsPath:  filepath.Join(t.TempDir(), "weights.json"),
		Seed:         7,
	}
}

func TestDeriveState(t *testing.T) {
	tests := []struct {
		name   string
		events []recommend.InteractionEvent
		want   []float64
	}{
		{
			name:   "cold start",
			events: nil,
			want:   []float64{0.5, 0.0, 0.0, 0.5, 1.0},
		},
		{
			name: "no ratings defaults difficulty",
			events: []recommend.InteractionEvent{
				{Action: recommend.InteractionStart},
				{Action: recommend.InteractionComplete},
			},
			want: []float64{0.5, 0.5, 0.1, 0.5, 1.0},
		},
		{
			name: "ratings averaged and normalized",
			events: []recommend.InteractionEvent{
				{Action: recommend.InteractionRateDifficulty, DifficultyRating: 2},
				{Action: recommend.InteractionRateDifficulty, DifficultyRating: 4},
				{Action: recommend.InteractionComplete},
				{Action: recommend.InteractionSkip},
			},
			want: []float64{0.6, 0.25, 0.1, 0.5, 1.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{events: map[int64][]recommend.InteractionEvent{1: tt.events}}
			b := New(testConfig(t), src, nil, zerolog.Nop())

			state, err := b.DeriveState(context.Background(), 1)
			if err != nil {
				t.Fatalf("DeriveState: %v", err)
			}
			if len(state) != numFeatures {
				t.Fatalf("state dims = %d, want %d", len(state), numFeatures)
			}
			for i := range state {
				if math.Abs(state[i]-tt.want[i]) > 1e-9 {
					t.Errorf("state[%d] = %v, want %v", i, state[i], tt.want[i])
				}
			}
		})
	}
}

func TestSelectActionGreedyIsDeterministic(t *testing.T) {
	cfg := testConfig(t)
	cfg.Epsilon = 0 // never explore
	b := New(cfg, &fakeSource{}, nil, zerolog.Nop())

	first, err := b.SelectAction(context.Background(), 1)
	if err != nil {
		t.Fatalf("SelectAction: %v", err)
	}
	if !strings.HasPrefix(first.Explanation, "Model Prediction (Score: ") {
		t.Errorf("explanation = %q, want model prediction form", first.Explanation)
	}
	for i := 0; i < 20; i++ {
		got, err := b.SelectAction(context.Background(), 1)
		if err != nil {
			t.Fatalf("SelectAction: %v", err)
		}
		if got != first {
			t.Fatalf("run %d: %+v != %+v", i, got, first)
		}
	}
}

func TestSelectActionAlwaysExplore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Epsilon = 1
	b := New(cfg, &fakeSource{}, nil, zerolog.Nop())

	valid := make(map[string]bool)
	for _, a := range recommend.Actions() {
		valid[a] = true
	}
	for i := 0; i < 30; i++ {
		got, err := b.SelectAction(context.Background(), 1)
		if err != nil {
			t.Fatalf("SelectAction: %v", err)
		}
		if got.Explanation != explorationExplanation {
			t.Fatalf("explanation = %q, want %q", got.Explanation, explorationExplanation)
		}
		if !valid[got.Action] {
			t.Fatalf("action %q outside the action set", got.Action)
		}
	}
}

func TestUpdatePolicyReducesError(t *testing.T) {
	b := New(testConfig(t), &fakeSource{}, nil, zerolog.Nop())
	ctx := context.Background()

	state, err := b.DeriveState(ctx, 1)
	if err != nil {
		t.Fatalf("DeriveState: %v", err)
	}

	const reward = 1.0
	before := math.Abs(reward - dot(b.Weights()[0], state))
	if err := b.UpdatePolicy(ctx, 1, recommend.ActionRecommendNext, reward); err != nil {
		t.Fatalf("UpdatePolicy: %v", err)
	}
	after := math.Abs(reward - dot(b.Weights()[0], state))

	if after >= before {
		t.Errorf("prediction error did not shrink: before=%v after=%v", before, after)
	}
}

func TestUpdatePolicyOnlyTouchesTargetRow(t *testing.T) {
	b := New(testConfig(t), &fakeSource{}, nil, zerolog.Nop())

	before := b.Weights()
	if err := b.UpdatePolicy(context.Background(), 1, recommend.ActionSkipAhead, -0.5); err != nil {
		t.Fatalf("UpdatePolicy: %v", err)
	}
	after := b.Weights()

	for row := 0; row < 2; row++ {
		for j := range before[row] {
			if before[row][j] != after[row][j] {
				t.Errorf("row %d changed at %d: %v -> %v", row, j, before[row][j], after[row][j])
			}
		}
	}
}

func TestUpdatePolicyUnknownAction(t *testing.T) {
	b := New(testConfig(t), &fakeSource{}, nil, zerolog.Nop())

	err := b.UpdatePolicy(context.Background(), 1, "DO_EVERYTHING", 1)
	if !errors.Is(err, recommend.ErrUnknownAction) {
		t.Errorf("err = %v, want ErrUnknownAction", err)
	}
}

func TestUpdatePolicyAppendsRewardLog(t *testing.T) {
	sink := &fakeSink{}
	b := New(testConfig(t), &fakeSource{}, sink, zerolog.Nop())

	if err := b.UpdatePolicy(context.Background(), 42, recommend.ActionRecommendNext, 1); err != nil {
		t.Fatalf("UpdatePolicy: %v", err)
	}

	if len(sink.entries) != 1 {
		t.Fatalf("reward logs = %d, want 1", len(sink.entries))
	}
	entry := sink.entries[0]
	if entry.UserID != 42 || entry.Reward != 1 {
		t.Errorf("entry = %+v", entry)
	}
	if entry.ModelVersion != ModelVersion {
		t.Errorf("model version = %q, want %q", entry.ModelVersion, ModelVersion)
	}
	if entry.ID == "" {
		t.Error("entry has no id")
	}
}

func TestUpdatePolicySinkFailureNonFatal(t *testing.T) {
	sink := &fakeSink{err: errors.New("disk full")}
	b := New(testConfig(t), &fakeSource{}, sink, zerolog.Nop())

	if err := b.UpdatePolicy(context.Background(), 1, recommend.ActionRecommendNext, 1); err != nil {
		t.Errorf("UpdatePolicy should tolerate sink failure, got %v", err)
	}
}

func TestWeightsPersistenceRoundtrip(t *testing.T) {
	cfg := testConfig(t)
	first := New(cfg, &fakeSource{}, nil, zerolog.Nop())

	if err := first.UpdatePolicy(context.Background(), 1, recommend.ActionInsertPrerequisite, 1); err != nil {
		t.Fatalf("UpdatePolicy: %v", err)
	}
	want := first.Weights()

	second := New(cfg, &fakeSource{}, nil, zerolog.Nop())
	got := second.Weights()
	for i := range want {
		for j := range want[i] {
			if want[i][j] != got[i][j] {
				t.Errorf("theta[%d][%d] = %v after restart, want %v", i, j, got[i][j], want[i][j])
			}
		}
	}
}

func TestCorruptWeightsReinitialized(t *testing.T) {
	cfg := testConfig(t)
	if err := saveWeights(cfg.WeightsPath, [][]float64{{1}}); err != nil {
		t.Fatalf("saveWeights: %v", err)
	}

	b := New(cfg, &fakeSource{}, nil, zerolog.Nop())
	theta := b.Weights()
	if len(theta) != len(recommend.Actions()) {
		t.Fatalf("rows = %d, want %d", len(theta), len(recommend.Actions()))
	}
	for i, row := range theta {
		if len(row) != numFeatures {
			t.Errorf("row %d features = %d, want %d", i, len(row), numFeatures)
		}
	}
}

func TestReload(t *testing.T) {
	cfg := testConfig(t)
	b := New(cfg, &fakeSource{}, nil, zerolog.Nop())

	fixed := [][]float64{
		{1, 0, 0, 0, 0},
		{0, 1, 0, 0, 0},
		{0, 0, 1, 0, 0},
	}
	if err := saveWeights(cfg.WeightsPath, fixed); err != nil {
		t.Fatalf("saveWeights: %v", err)
	}
	if err := b.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := b.Weights(); got[0][0] != 1 || got[1][1] != 1 || got[2][2] != 1 {
		t.Errorf("weights after reload = %v", got)
	}
}

func TestConcurrentUpdatesKeepShape(t *testing.T) {
	b := New(testConfig(t), &fakeSource{}, &fakeSink{}, zerolog.Nop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			action := recommend.Actions()[n%3]
			for j := 0; j < 25; j++ {
				if err := b.UpdatePolicy(ctx, int64(n), action, 0.5); err != nil {
					t.Errorf("UpdatePolicy: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	theta := b.Weights()
	for i, row := range theta {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("theta[%d][%d] = %v", i, j, v)
			}
		}
	}
}

func TestRewardForEvent(t *testing.T) {
	m := DefaultRewardMapping()
	tests := []struct {
		name  string
		event recommend.InteractionEvent
		want  float64
	}{
		{"complete", recommend.InteractionEvent{Action: recommend.InteractionComplete}, 1.0},
		{"skip", recommend.InteractionEvent{Action: recommend.InteractionSkip}, -0.5},
		{"start is neutral", recommend.InteractionEvent{Action: recommend.InteractionStart}, 0},
		{"rating 1", recommend.InteractionEvent{Action: recommend.InteractionRateDifficulty, DifficultyRating: 1}, -1.0},
		{"rating 3", recommend.InteractionEvent{Action: recommend.InteractionRateDifficulty, DifficultyRating: 3}, 0.1},
		{"rating 5", recommend.InteractionEvent{Action: recommend.InteractionRateDifficulty, DifficultyRating: 5}, 1.0},
		{"rating out of range", recommend.InteractionEvent{Action: recommend.InteractionRateDifficulty, DifficultyRating: 9}, 0},
		{"unknown action", recommend.InteractionEvent{Action: "view"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.RewardForEvent(tt.event); got != tt.want {
				t.Errorf("reward = %v, want %v", got, tt.want)
			}
		})
	}
}
