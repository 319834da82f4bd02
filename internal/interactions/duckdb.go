// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

// Package interactions persists user interaction events and reward logs.
// The DuckDB store backs production deployments; the in-memory store
// backs tests and deployments that opt out of durability.
package interactions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // duckdb driver
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pathfinder-ai/pathfinder/internal/recommend"
)

const schema = `
CREATE TABLE IF NOT EXISTS interaction_events (
	id VARCHAR PRIMARY KEY,
	user_id BIGINT NOT NULL,
	job_id VARCHAR,
	roadmap_id VARCHAR,
	task_id VARCHAR,
	action_type VARCHAR NOT NULL,
	difficulty_rating INTEGER,
	duration_seconds INTEGER,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS reward_logs (
	id VARCHAR PRIMARY KEY,
	user_id BIGINT NOT NULL,
	reward_value DOUBLE NOT NULL,
	model_version VARCHAR NOT NULL,
	created_at TIMESTAMP NOT NULL
);
`

// DuckDBStore is the embedded append/query store over interaction events
// and reward logs. It implements recommend.InteractionSource and
// recommend.RewardSink.
type DuckDBStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// OpenDuckDB opens (or creates) the database file and ensures the schema.
// Auto-install of extensions is disabled so startup cannot hang in
// restricted network environments.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func OpenDuckDB(path string, logger zerolog.Logger) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb",
		path+"?access_mode=read_write&autoinstall_known_extensions=false&autoload_known_extensions=false")
	if err != nil {
		return nil, fmt.Errorf("open interactions db %s: %w", path, err)
	}
	// DuckDB is embedded; a single writer connection avoids lock contention.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create interactions schema: %w", err)
	}

	return &DuckDBStore{
		db:     db,
		logger: logger.With().Str("component", "interactions").Logger(),
	}, nil
}

// LogInteraction appends one event, assigning an id and timestamp when
// absent, and returns the stored event.
func (s *DuckDBStore) LogInteraction(ctx context.Context, event recommend.InteractionEvent) (recommend.InteractionEvent, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO interaction_events
			(id, user_id, job_id, roadmap_id, task_id, action_type, difficulty_rating, duration_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.UserID, event.JobID, event.RoadmapID, event.TaskID,
		event.Action, event.DifficultyRating, event.DurationSeconds, event.CreatedAt,
	)
	if err != nil {
		return recommend.InteractionEvent{}, fmt.Errorf("insert interaction: %w", err)
	}
	return event, nil
}

// ListByUser returns the user's events, oldest first.
func (s *DuckDBStore) ListByUser(ctx context.Context, userID int64) ([]recommend.InteractionEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, job_id, roadmap_id, task_id, action_type, difficulty_rating, duration_seconds, created_at
		FROM interaction_events
		WHERE user_id = ?
		ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query interactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var events []recommend.InteractionEvent
	for rows.Next() {
		var ev recommend.InteractionEvent
		var jobID, roadmapID, taskID sql.NullString
		var rating, duration sql.NullInt32
		if err := rows.Scan(&ev.ID, &ev.UserID, &jobID, &roadmapID, &taskID,
			&ev.Action, &rating, &duration, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		ev.JobID = jobID.String
		ev.RoadmapID = roadmapID.String
		ev.TaskID = taskID.String
		ev.DifficultyRating = int(rating.Int32)
		ev.DurationSeconds = int(duration.Int32)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return events, nil
}

// AppendReward appends one reward log entry.
func (s *DuckDBStore) AppendReward(ctx context.Context, entry recommend.RewardLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reward_logs (id, user_id, reward_value, model_version, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.Reward, entry.ModelVersion, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reward log: %w", err)
	}
	return nil
}

// ListRewards returns the user's reward history, newest first.
func (s *DuckDBStore) ListRewards(ctx context.Context, userID int64) ([]recommend.RewardLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, reward_value, model_version, created_at
		FROM reward_logs
		WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query rewards for user %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []recommend.RewardLog
	for rows.Next() {
		var entry recommend.RewardLog
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Reward, &entry.ModelVersion, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reward log: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rewards: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (s *DuckDBStore) Close() error {
	return s.db.Close()
}
