package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/ironlog/internal/models"
)

// ListExerciseRecords returns all best-ever records for a user.
func (db *DB) ListExerciseRecords(ctx context.Context, userID int) ([]models.ExerciseRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT exercise_id, exercise_name, best_volume, best_set, estimated_1rm
		 FROM exercise_records
		 WHERE user_id = $1`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercise records: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseRecord
	for rows.Next() {
		var r models.ExerciseRecord
		var bestSetJSON []byte
		if err := rows.Scan(&r.ExerciseID, &r.ExerciseName, &r.BestVolume,
			&bestSetJSON, &r.Estimated1RM); err != nil {
			return nil, fmt.Errorf("scanning exercise record: %w", err)
		}
		if err := json.Unmarshal(bestSetJSON, &r.BestSet); err != nil {
			return nil, fmt.Errorf("decoding best set: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// UpsertExerciseRecord stores a best-ever record, keyed by
// (user_id, exercise_id). Safe to retry.
func (db *DB) UpsertExerciseRecord(ctx context.Context, userID int, rec models.ExerciseRecord) error {
	bestSetJSON, err := json.Marshal(rec.BestSet)
	if err != nil {
		return fmt.Errorf("encoding best set: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO exercise_records
		 (user_id, exercise_id, exercise_name, best_volume, best_set, estimated_1rm, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (user_id, exercise_id) DO UPDATE
		   SET exercise_name = EXCLUDED.exercise_name,
		       best_volume = EXCLUDED.best_volume,
		       best_set = EXCLUDED.best_set,
		       estimated_1rm = EXCLUDED.estimated_1rm,
		       updated_at = EXCLUDED.updated_at`,
		userID, rec.ExerciseID, rec.ExerciseName, rec.BestVolume,
		bestSetJSON, rec.Estimated1RM, time.Now())
	if err != nil {
		return fmt.Errorf("upserting exercise record: %w", err)
	}
	return nil
}
