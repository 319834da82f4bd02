// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// GarbageCollector is the maintenance hook the retrieval store exposes.
type GarbageCollector interface {
	RunGC() error
}

// GCService periodically runs value-log garbage collection on the
// retrieval store. Badger reclaims space only when GC is driven
// externally, so this runs for the life of the process.
type GCService struct {
	gc       GarbageCollector
	interval time.Duration
	logger   zerolog.Logger
}

// NewGCService creates the GC service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewGCService(gc GarbageCollector, interval time.Duration, logger zerolog.Logger) *GCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &GCService{
		gc:       gc,
		interval: interval,
		logger:   logger.With().Str("component", "retrieval_gc").Logger(),
	}
}

// Serve implements suture.Service.
func (s *GCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.gc.RunGC(); err != nil {
				s.logger.Warn().Err(err).Msg("value log gc failed")
			}
		}
	}
}

// String identifies the service in supervisor logs.
func (s *GCService) String() string { return "retrieval-gc" }
