// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires handlers and middleware into the Chi route tree.
type Router struct {
	handler    *Handler
	middleware *Middleware
}

// NewRouter creates the router.
func NewRouter(handler *Handler, mw *Middleware) *Router {
	if mw == nil {
		mw = NewMiddleware(nil)
	}
	return &Router{handler: handler, middleware: mw}
}

// Setup builds the complete route tree.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.middleware.CORS())

	r.Get("/healthz", rt.handler.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.middleware.RateLimit())

		r.Post("/careers/recommend", rt.handler.RecommendCareers)
		r.Post("/jobs/match", rt.handler.MatchJobs)
		r.Post("/jobs/match-catalog", rt.handler.MatchCatalog)

		r.Post("/context/index", rt.handler.IndexContext)
		r.Post("/context/query", rt.handler.QueryContext)
		r.Delete("/context", rt.handler.ClearContext)

		r.Get("/policy/recommendation", rt.handler.PolicyRecommendation)
		r.Post("/interactions", rt.handler.LogInteraction)
		r.Get("/rewards", rt.handler.ListRewards)
	})

	return r
}
