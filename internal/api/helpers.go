// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package api

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/pathfinder-ai/pathfinder/internal/logging"
)

// maxBodyBytes bounds request bodies; match payloads carry job lists but
// nothing near a megabyte.
const maxBodyBytes = 1 << 20

// decode reads and validates a JSON request body, writing a 400 response
// on failure. Returns false when the handler should stop.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		badRequest(w, "invalid JSON body")
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		badRequest(w, err.Error())
		return false
	}
	return true
}

// respondJSON writes a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("write response")
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}
