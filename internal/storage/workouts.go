package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
)

// ListWorkouts returns a user's workout templates, newest-created first.
func (db *DB) ListWorkouts(ctx context.Context, userID int) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, description, estimated_duration, last_performed, exercises, created_at
		 FROM workouts
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.Workout
	for rows.Next() {
		var w models.Workout
		var exercisesJSON []byte
		if err := rows.Scan(&w.ID, &w.Name, &w.Description, &w.EstimatedDuration,
			&w.LastPerformed, &exercisesJSON, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		if err := json.Unmarshal(exercisesJSON, &w.Exercises); err != nil {
			return nil, fmt.Errorf("decoding workout exercises: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// InsertWorkout inserts a new workout template.
func (db *DB) InsertWorkout(ctx context.Context, userID int, w models.Workout) error {
	exercisesJSON, err := json.Marshal(exercisesOrEmpty(w.Exercises))
	if err != nil {
		return fmt.Errorf("encoding workout exercises: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO workouts (id, user_id, name, description, estimated_duration, last_performed, exercises, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		w.ID, userID, w.Name, w.Description, w.EstimatedDuration, w.LastPerformed,
		exercisesJSON, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}
	return nil
}

// UpdateWorkout overwrites the mutable fields of a template.
func (db *DB) UpdateWorkout(ctx context.Context, workoutID uuid.UUID, w models.Workout) error {
	exercisesJSON, err := json.Marshal(exercisesOrEmpty(w.Exercises))
	if err != nil {
		return fmt.Errorf("encoding workout exercises: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`UPDATE workouts
		 SET name = $2, description = $3, estimated_duration = $4,
		     last_performed = $5, exercises = $6, updated_at = $7
		 WHERE id = $1`,
		workoutID, w.Name, w.Description, w.EstimatedDuration, w.LastPerformed,
		exercisesJSON, time.Now())
	if err != nil {
		return fmt.Errorf("updating workout: %w", err)
	}
	return nil
}

// DeleteWorkout removes a workout template. Session logs referencing it
// are kept.
func (db *DB) DeleteWorkout(ctx context.Context, workoutID uuid.UUID) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, workoutID)
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	return nil
}

func exercisesOrEmpty(exercises []models.Exercise) []models.Exercise {
	if exercises == nil {
		return []models.Exercise{}
	}
	return exercises
}
