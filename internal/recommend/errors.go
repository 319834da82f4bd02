// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package recommend

import "errors"

var (
	// ErrUnavailable indicates a required artifact or capability did not
	// load. Callers may treat it as "no results" with a warning rather
	// than as a hard failure.
	ErrUnavailable = errors.New("capability unavailable")

	// ErrEmbedding indicates the embedding step failed for the input that
	// drives a whole operation (e.g. the profile text of a match batch).
	ErrEmbedding = errors.New("embedding failed")

	// ErrUnknownAction indicates an action outside the fixed bandit
	// action set.
	ErrUnknownAction = errors.New("unknown action")
)
