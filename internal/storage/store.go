package storage

import (
	"context"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
)

// Store is the persistence contract the core depends on. All failures are
// generic I/O errors; callers treat them as non-fatal to in-memory state.
type Store interface {
	// GetOrCreateUser finds or creates a user by login name and returns
	// its id.
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)

	// ListWorkouts returns a user's workout templates, newest-created first.
	ListWorkouts(ctx context.Context, userID int) ([]models.Workout, error)
	InsertWorkout(ctx context.Context, userID int, w models.Workout) error
	// UpdateWorkout overwrites the mutable template fields (name,
	// description, estimated duration, exercises, last-performed).
	UpdateWorkout(ctx context.Context, workoutID uuid.UUID, w models.Workout) error
	DeleteWorkout(ctx context.Context, workoutID uuid.UUID) error

	// ListSessionLogs returns session logs, most-recent-started first,
	// capped at limit.
	ListSessionLogs(ctx context.Context, userID, limit int) ([]models.WorkoutSessionLog, error)
	// InsertSessionLog stores a finished session. Logs are write-once.
	InsertSessionLog(ctx context.Context, userID int, log models.WorkoutSessionLog) error

	ListExerciseRecords(ctx context.Context, userID int) ([]models.ExerciseRecord, error)
	// UpsertExerciseRecord is idempotent by (userID, exerciseID).
	UpsertExerciseRecord(ctx context.Context, userID int, rec models.ExerciseRecord) error

	Close()
}

// Compile-time checks: all three backends satisfy Store.
var (
	_ Store = (*DB)(nil)
	_ Store = (*SQLite)(nil)
	_ Store = (*Memory)(nil)
)
