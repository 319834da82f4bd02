// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package policy

import "github.com/pathfinder-ai/pathfinder/internal/recommend"

// RewardMapping translates interaction events into scalar rewards for the
// bandit. A zero reward means the event carries no learning signal and no
// policy update is triggered.
type RewardMapping struct {
	Complete   float64
	Skip       float64
	Difficulty map[int]float64
}

// DefaultRewardMapping returns the mapping the policy was trained with:
// completing a task is a strong positive, skipping a mild negative, and a
// difficulty rating maps its 1..5 scale onto [-1,1].
func DefaultRewardMapping() RewardMapping {
	return RewardMapping{
		Complete: 1.0,
		Skip:     -0.5,
		Difficulty: map[int]float64{
			1: -1.0,
			2: -0.5,
			3: 0.1,
			4: 0.5,
			5: 1.0,
		},
	}
}

// RewardForEvent maps one logged interaction to its reward value.
// Unknown actions and out-of-range ratings yield zero.
func (m RewardMapping) RewardForEvent(event recommend.InteractionEvent) float64 {
	switch event.Action {
	case recommend.InteractionComplete:
		return m.Complete
	case recommend.InteractionSkip:
		return m.Skip
	case recommend.InteractionRateDifficulty:
		return m.Difficulty[event.DifficultyRating]
	default:
		return 0
	}
}
