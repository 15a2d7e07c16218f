package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claude/ironlog/internal/models"
)

// ListSessionLogs returns a user's session logs, most-recent-started first.
func (db *DB) ListSessionLogs(ctx context.Context, userID, limit int) ([]models.WorkoutSessionLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, workout_id, workout_name, started_at, ended_at,
		        duration_minutes, duration_seconds, total_volume, total_sets_completed,
		        is_deload, notes, exercises, new_prs
		 FROM workout_sessions
		 WHERE user_id = $1
		 ORDER BY started_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying session logs: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSessionLog
	for rows.Next() {
		var l models.WorkoutSessionLog
		var exercisesJSON, prsJSON []byte
		if err := rows.Scan(&l.ID, &l.WorkoutID, &l.WorkoutName, &l.StartedAt, &l.EndedAt,
			&l.DurationMinutes, &l.DurationSeconds, &l.TotalVolume, &l.TotalSetsCompleted,
			&l.IsDeload, &l.Notes, &exercisesJSON, &prsJSON); err != nil {
			return nil, fmt.Errorf("scanning session log: %w", err)
		}
		if err := json.Unmarshal(exercisesJSON, &l.Exercises); err != nil {
			return nil, fmt.Errorf("decoding session exercises: %w", err)
		}
		if len(prsJSON) > 0 {
			if err := json.Unmarshal(prsJSON, &l.NewPRs); err != nil {
				return nil, fmt.Errorf("decoding session PRs: %w", err)
			}
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// InsertSessionLog stores a finished session. A log row is write-once;
// inserting the same id twice is an error.
func (db *DB) InsertSessionLog(ctx context.Context, userID int, log models.WorkoutSessionLog) error {
	exercisesJSON, err := json.Marshal(log.Exercises)
	if err != nil {
		return fmt.Errorf("encoding session exercises: %w", err)
	}
	prsJSON, err := json.Marshal(log.NewPRs)
	if err != nil {
		return fmt.Errorf("encoding session PRs: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO workout_sessions
		 (id, user_id, workout_id, workout_name, started_at, ended_at,
		  duration_minutes, duration_seconds, total_volume, total_sets_completed,
		  is_deload, notes, exercises, new_prs)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		log.ID, userID, log.WorkoutID, log.WorkoutName, log.StartedAt, log.EndedAt,
		log.DurationMinutes, log.DurationSeconds, log.TotalVolume, log.TotalSetsCompleted,
		log.IsDeload, log.Notes, exercisesJSON, prsJSON)
	if err != nil {
		return fmt.Errorf("inserting session log: %w", err)
	}
	return nil
}
