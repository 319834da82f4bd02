// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

// Package recommend defines the domain types and the engine facade for the
// adaptive recommendation core: skill-based career matching, semantic job
// matching, retrieval-grounded context and the contextual bandit policy.
//
// The package holds only types, interfaces and the coordinating Engine;
// the implementations live in subpackages (matcher, policy) and sibling
// packages (retrieval, interactions) and are injected at startup. This
// keeps the dependency direction clean: implementations import recommend,
// never the other way around.
//
// # Failure model
//
// Core operations are total from the caller's perspective. When a required
// artifact or capability is missing they return ErrUnavailable rather than
// panicking or returning partial garbage; the transport layer decides
// whether that surfaces as an empty result with a warning or as an error.
package recommend
