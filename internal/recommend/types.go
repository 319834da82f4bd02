// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package recommend

import (
	"context"
	"time"
)

// Bandit actions over roadmap tasks. The action set is fixed; the policy
// weight matrix has one row per action in this order.
const (
	ActionRecommendNext      = "RECOMMEND_NEXT"
	ActionInsertPrerequisite = "INSERT_PREREQUISITE"
	ActionSkipAhead          = "SKIP_AHEAD"
)

// Actions lists the bandit action set in weight-matrix row order.
func Actions() []string {
	return []string{ActionRecommendNext, ActionInsertPrerequisite, ActionSkipAhead}
}

// Interaction action types logged against roadmap tasks.
const (
	InteractionStart          = "start"
	InteractionComplete       = "complete"
	InteractionSkip           = "skip"
	InteractionRateDifficulty = "rate_difficulty"
)

// JobDocument is a job posting's textual and skill representation for
// matching. It is constructed per request from caller-supplied records;
// the matcher never persists it.
type JobDocument struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	RequiredSkills  []string `json:"required_skills"`
	NiceToHave      []string `json:"nice_to_have_skills"`
	Industry        string   `json:"industry"`
	ExperienceLevel string   `json:"experience_level"`
}

// CareerMatch is one ranked career from the skill-based matcher.
type CareerMatch struct {
	Career string `json:"career"`

	// SimilarityScore is in [0,100].
	SimilarityScore float64 `json:"similarity_score"`

	MatchingSkills []string `json:"matching_skills"`

	// MissingSkills is truncated to at most 5 entries, in the artifact's
	// iteration order.
	MissingSkills []string `json:"missing_skills"`

	RequiredSkills []string `json:"required_skills"`
}

// JobMatch is one ranked job from the semantic matcher.
type JobMatch struct {
	JobID string `json:"job_id"`

	// FinalScore fuses semantic similarity and skill overlap, in [0,100],
	// rounded to 2 decimals.
	FinalScore float64 `json:"final_score"`

	// SimilarityScore is the raw cosine similarity in [-1,1], rounded to
	// 4 decimals.
	SimilarityScore float64 `json:"similarity_score"`

	// SkillMatchPercentage is the required-skill overlap in [0,100].
	SkillMatchPercentage float64 `json:"skill_match_percentage"`

	MatchingSkills []string `json:"matching_skills"`

	Job JobDocument `json:"job"`
}

// CatalogMatch is one ranked entry of the precomputed job catalog.
type CatalogMatch struct {
	JobID       int      `json:"job_id"`
	Title       string   `json:"job_title"`
	Description string   `json:"description"`
	Skills      []string `json:"skills_required"`
	Industry    string   `json:"industry"`
	PayGrade    string   `json:"pay_grade"`

	// MatchScore is cosine similarity scaled to [0,100], rounded to 2
	// decimals.
	MatchScore float64 `json:"match_score"`
}

// RetrievedDocument is one scored record from the retrieval context store.
type RetrievedDocument struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
	Score    float64           `json:"score"`
}

// ActionRecommendation is the bandit's selected action with a
// human-readable explanation distinguishing exploration from exploitation.
type ActionRecommendation struct {
	Action      string `json:"action"`
	Explanation string `json:"explanation"`
}

// InteractionEvent is one logged user action against a roadmap task.
// Events are append-only; the policy engine reads them to derive state.
type InteractionEvent struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	JobID     string    `json:"job_id,omitempty"`
	RoadmapID string    `json:"roadmap_id,omitempty"`
	TaskID    string    `json:"task_id,omitempty"`
	Action    string    `json:"action_type"`
	CreatedAt time.Time `json:"created_at"`

	// DifficultyRating is 1..5 when present, 0 when absent.
	DifficultyRating int `json:"difficulty_rating,omitempty"`

	DurationSeconds int `json:"duration_seconds,omitempty"`
}

// RewardLog records one reward value applied in a policy update.
type RewardLog struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	Reward       float64   `json:"reward_value"`
	ModelVersion string    `json:"model_version"`
	CreatedAt    time.Time `json:"created_at"`
}

// CareerRecommender ranks reference careers against a skill set.
type CareerRecommender interface {
	RecommendCareers(skills []string, topK int) ([]CareerMatch, error)
}

// JobMatcher ranks caller-supplied jobs, or the static catalog, against a
// free-text profile.
type JobMatcher interface {
	MatchJobs(profileText string, jobs []JobDocument, topK int) ([]JobMatch, error)
	MatchCatalog(profileText string, topK int) ([]CatalogMatch, error)
}

// ContextStore is the persistent semantic retrieval index used to ground
// generated content.
type ContextStore interface {
	Index(ctx context.Context, docID, text string, metadata map[string]string) error
	Retrieve(ctx context.Context, query string, k int) ([]RetrievedDocument, error)
	Clear(ctx context.Context) error
}

// Policy is the contextual bandit over roadmap actions.
type Policy interface {
	DeriveState(ctx context.Context, userID int64) ([]float64, error)
	SelectAction(ctx context.Context, userID int64) (ActionRecommendation, error)
	UpdatePolicy(ctx context.Context, userID int64, action string, reward float64) error
}

// InteractionSource supplies a user's interaction history to the policy
// engine. Implemented by the interactions store.
type InteractionSource interface {
	ListByUser(ctx context.Context, userID int64) ([]InteractionEvent, error)
}

// RewardSink appends reward log entries. Implemented by the interactions
// store.
type RewardSink interface {
	AppendReward(ctx context.Context, entry RewardLog) error
}
