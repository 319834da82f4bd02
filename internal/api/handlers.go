// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/pathfinder-ai/pathfinder/internal/logging"
	"github.com/pathfinder-ai/pathfinder/internal/recommend"
	"github.com/pathfinder-ai/pathfinder/internal/recommend/policy"
)

const (
	defaultTopK = 5
	maxTopK     = 50
)

// InteractionLogger is the handler's view of the interaction store.
type InteractionLogger interface {
	LogInteraction(ctx context.Context, event recommend.InteractionEvent) (recommend.InteractionEvent, error)
	ListRewards(ctx context.Context, userID int64) ([]recommend.RewardLog, error)
}

// Handler serves the recommendation API.
type Handler struct {
	engine       *recommend.Engine
	interactions InteractionLogger
	rewards      policy.RewardMapping
	validate     *validator.Validate
	logger       zerolog.Logger
}

// NewHandler creates the handler. interactions may be nil, disabling the
// interaction endpoints.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandler(engine *recommend.Engine, interactions InteractionLogger, rewards policy.RewardMapping, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:       engine,
		interactions: interactions,
		rewards:      rewards,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		logger:       logger.With().Str("component", "api").Logger(),
	}
}

type careersRecommendRequest struct {
	Skills []string `json:"skills"`
	TopK   int      `json:"top_k" validate:"gte=0,lte=50"`
}

type careersRecommendResponse struct {
	Recommendations []recommend.CareerMatch `json:"recommendations"`
	Warning         string                  `json:"warning,omitempty"`
}

// RecommendCareers handles POST /api/v1/careers/recommend.
func (h *Handler) RecommendCareers(w http.ResponseWriter, r *http.Request) {
	var req careersRecommendRequest
	if !h.decode(w, r, &req) {
		return
	}

	matches, err := h.engine.RecommendCareers(r.Context(), req.Skills, clampTopK(req.TopK))
	if err != nil {
		h.degradeOrFail(w, r, err, careersRecommendResponse{
			Recommendations: []recommend.CareerMatch{},
			Warning:         "career matching unavailable",
		})
		return
	}
	respondJSON(w, http.StatusOK, careersRecommendResponse{Recommendations: matches})
}

type jobsMatchRequest struct {
	ProfileText string                  `json:"profile_text" validate:"required"`
	Jobs        []recommend.JobDocument `json:"jobs"`
	TopK        int                     `json:"top_k" validate:"gte=0,lte=50"`
}

type jobsMatchResponse struct {
	Matches []recommend.JobMatch `json:"matches"`
	Warning string               `json:"warning,omitempty"`
}

// MatchJobs handles POST /api/v1/jobs/match.
func (h *Handler) MatchJobs(w http.ResponseWriter, r *http.Request) {
	var req jobsMatchRequest
	if !h.decode(w, r, &req) {
		return
	}

	matches, err := h.engine.MatchJobs(r.Context(), req.ProfileText, req.Jobs, clampTopK(req.TopK))
	if err != nil {
		h.degradeOrFail(w, r, err, jobsMatchResponse{
			Matches: []recommend.JobMatch{},
			Warning: "job matching unavailable",
		})
		return
	}
	respondJSON(w, http.StatusOK, jobsMatchResponse{Matches: matches})
}

type catalogMatchRequest struct {
	ProfileText string `json:"profile_text" validate:"required"`
	TopK        int    `json:"top_k" validate:"gte=0,lte=50"`
}

type catalogMatchResponse struct {
	Matches []recommend.CatalogMatch `json:"matches"`
	Warning string                   `json:"warning,omitempty"`
}

// MatchCatalog handles POST /api/v1/jobs/match-catalog.
func (h *Handler) MatchCatalog(w http.ResponseWriter, r *http.Request) {
	var req catalogMatchRequest
	if !h.decode(w, r, &req) {
		return
	}

	matches, err := h.engine.MatchCatalog(r.Context(), req.ProfileText, clampTopK(req.TopK))
	if err != nil {
		h.degradeOrFail(w, r, err, catalogMatchResponse{
			Matches: []recommend.CatalogMatch{},
			Warning: "catalog matching unavailable",
		})
		return
	}
	respondJSON(w, http.StatusOK, catalogMatchResponse{Matches: matches})
}

type contextIndexRequest struct {
	DocID    string            `json:"doc_id" validate:"required"`
	Text     string            `json:"text" validate:"required"`
	Metadata map[string]string `json:"metadata"`
}

// IndexContext handles POST /api/v1/context/index.
func (h *Handler) IndexContext(w http.ResponseWriter, r *http.Request) {
	var req contextIndexRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.engine.IndexContext(r.Context(), req.DocID, req.Text, req.Metadata); err != nil {
		if errors.Is(err, recommend.ErrUnavailable) {
			respondJSON(w, http.StatusOK, map[string]string{"warning": "context store unavailable"})
			return
		}
		h.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "indexed", "doc_id": req.DocID})
}

type contextQueryRequest struct {
	Query string `json:"query" validate:"required"`
	TopK  int    `json:"top_k" validate:"gte=0,lte=50"`
}

type contextQueryResponse struct {
	Documents []recommend.RetrievedDocument `json:"documents"`
	Warning   string                        `json:"warning,omitempty"`
}

// QueryContext handles POST /api/v1/context/query.
func (h *Handler) QueryContext(w http.ResponseWriter, r *http.Request) {
	var req contextQueryRequest
	if !h.decode(w, r, &req) {
		return
	}

	docs, err := h.engine.RetrieveContext(r.Context(), req.Query, clampTopK(req.TopK))
	if err != nil {
		h.degradeOrFail(w, r, err, contextQueryResponse{
			Documents: []recommend.RetrievedDocument{},
			Warning:   "context store unavailable",
		})
		return
	}
	respondJSON(w, http.StatusOK, contextQueryResponse{Documents: docs})
}

// ClearContext handles DELETE /api/v1/context.
func (h *Handler) ClearContext(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.ClearContext(r.Context()); err != nil {
		if errors.Is(err, recommend.ErrUnavailable) {
			respondJSON(w, http.StatusOK, map[string]string{"warning": "context store unavailable"})
			return
		}
		h.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type policyRecommendationResponse struct {
	UserID      int64  `json:"user_id"`
	Action      string `json:"action"`
	Explanation string `json:"explanation"`
	Warning     string `json:"warning,omitempty"`
}

// PolicyRecommendation handles GET /api/v1/policy/recommendation?user_id=N.
func (h *Handler) PolicyRecommendation(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		badRequest(w, "user_id must be a positive integer")
		return
	}

	rec, err := h.engine.SelectAction(r.Context(), userID)
	if err != nil {
		h.degradeOrFail(w, r, err, policyRecommendationResponse{
			UserID:  userID,
			Warning: "policy engine unavailable",
		})
		return
	}
	respondJSON(w, http.StatusOK, policyRecommendationResponse{
		UserID:      userID,
		Action:      rec.Action,
		Explanation: rec.Explanation,
	})
}

type interactionRequest struct {
	UserID           int64  `json:"user_id" validate:"required,gt=0"`
	JobID            string `json:"job_id"`
	RoadmapID        string `json:"roadmap_id"`
	TaskID           string `json:"task_id"`
	ActionType       string `json:"action_type" validate:"required,oneof=start complete skip rate_difficulty"`
	DifficultyRating int    `json:"difficulty_rating" validate:"gte=0,lte=5"`
	DurationSeconds  int    `json:"duration_seconds" validate:"gte=0"`
}

type interactionResponse struct {
	Event            recommend.InteractionEvent `json:"event"`
	RewardCalculated float64                    `json:"reward_calculated"`
	PolicyUpdated    bool                       `json:"policy_updated"`
}

// LogInteraction handles POST /api/v1/interactions: records the event,
// maps it to a reward, and feeds a nonzero reward back into the policy.
func (h *Handler) LogInteraction(w http.ResponseWriter, r *http.Request) {
	if h.interactions == nil {
		respondJSON(w, http.StatusOK, map[string]string{"warning": "interaction store unavailable"})
		return
	}

	var req interactionRequest
	if !h.decode(w, r, &req) {
		return
	}

	event, err := h.interactions.LogInteraction(r.Context(), recommend.InteractionEvent{
		UserID:           req.UserID,
		JobID:            req.JobID,
		RoadmapID:        req.RoadmapID,
		TaskID:           req.TaskID,
		Action:           req.ActionType,
		DifficultyRating: req.DifficultyRating,
		DurationSeconds:  req.DurationSeconds,
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	reward := h.rewards.RewardForEvent(event)
	updated := false
	if reward != 0 {
		// The reward attributes to the action that surfaced the task.
		if err := h.engine.UpdatePolicy(r.Context(), req.UserID, recommend.ActionRecommendNext, reward); err != nil {
			logger := logging.Ctx(r.Context())
			logger.Warn().Err(err).Int64("user_id", req.UserID).Msg("policy update failed")
		} else {
			updated = true
		}
	}

	respondJSON(w, http.StatusOK, interactionResponse{
		Event:            event,
		RewardCalculated: reward,
		PolicyUpdated:    updated,
	})
}

// ListRewards handles GET /api/v1/rewards?user_id=N.
func (h *Handler) ListRewards(w http.ResponseWriter, r *http.Request) {
	if h.interactions == nil {
		respondJSON(w, http.StatusOK, map[string]string{"warning": "interaction store unavailable"})
		return
	}

	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		badRequest(w, "user_id must be a positive integer")
		return
	}

	entries, err := h.interactions.ListRewards(r.Context(), userID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if entries == nil {
		entries = []recommend.RewardLog{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"rewards": entries})
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// degradeOrFail writes the degraded payload for unavailable capabilities
// and embedding failures; anything else is a server error. The core never
// fails the caller over a missing artifact.
func (h *Handler) degradeOrFail(w http.ResponseWriter, r *http.Request, err error, degraded any) {
	if errors.Is(err, recommend.ErrUnavailable) || errors.Is(err, recommend.ErrEmbedding) {
		logger := logging.Ctx(r.Context())
		logger.Warn().Err(err).Str("path", r.URL.Path).Msg("degraded response")
		respondJSON(w, http.StatusOK, degraded)
		return
	}
	h.serverError(w, r, err)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.Ctx(r.Context())
	logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func clampTopK(k int) int {
	if k <= 0 {
		return defaultTopK
	}
	if k > maxTopK {
		return maxTopK
	}
	return k
}
