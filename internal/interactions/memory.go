// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package interactions

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pathfinder-ai/pathfinder/internal/recommend"
)

// MemoryStore keeps events and rewards in process memory. Used in tests
// and when the durable store is disabled; nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	events  map[int64][]recommend.InteractionEvent
	rewards map[int64][]recommend.RewardLog
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:  make(map[int64][]recommend.InteractionEvent),
		rewards: make(map[int64][]recommend.RewardLog),
	}
}

// LogInteraction appends one event, assigning an id and timestamp when
// absent, and returns the stored event.
func (s *MemoryStore) LogInteraction(_ context.Context, event recommend.InteractionEvent) (recommend.InteractionEvent, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.events[event.UserID] = append(s.events[event.UserID], event)
	s.mu.Unlock()
	return event, nil
}

// ListByUser returns the user's events, oldest first.
func (s *MemoryStore) ListByUser(_ context.Context, userID int64) ([]recommend.InteractionEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := append([]recommend.InteractionEvent(nil), s.events[userID]...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

// AppendReward appends one reward log entry.
func (s *MemoryStore) AppendReward(_ context.Context, entry recommend.RewardLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.rewards[entry.UserID] = append(s.rewards[entry.UserID], entry)
	s.mu.Unlock()
	return nil
}

// ListRewards returns the user's reward history, newest first.
func (s *MemoryStore) ListRewards(_ context.Context, userID int64) ([]recommend.RewardLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := append([]recommend.RewardLog(nil), s.rewards[userID]...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
