package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLite is a single-file Store backend for local, single-binary use.
// The schema is created on open; no external migration step is needed.
type SQLite struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	login        TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_seen    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS workouts (
	id                 TEXT PRIMARY KEY,
	user_id            INTEGER NOT NULL REFERENCES users(id),
	name               TEXT NOT NULL,
	description        TEXT NOT NULL DEFAULT '',
	estimated_duration INTEGER NOT NULL DEFAULT 0,
	last_performed     TIMESTAMP,
	exercises          TEXT NOT NULL DEFAULT '[]',
	created_at         TIMESTAMP NOT NULL,
	updated_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS workout_sessions (
	id                   TEXT PRIMARY KEY,
	user_id              INTEGER NOT NULL REFERENCES users(id),
	workout_id           TEXT NOT NULL,
	workout_name         TEXT NOT NULL,
	started_at           TIMESTAMP NOT NULL,
	ended_at             TIMESTAMP NOT NULL,
	duration_minutes     INTEGER NOT NULL,
	duration_seconds     INTEGER NOT NULL,
	total_volume         REAL NOT NULL,
	total_sets_completed INTEGER NOT NULL,
	is_deload            INTEGER NOT NULL DEFAULT 0,
	notes                TEXT NOT NULL DEFAULT '',
	exercises            TEXT NOT NULL DEFAULT '[]',
	new_prs              TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_sessions_user_started
	ON workout_sessions (user_id, started_at DESC);
CREATE TABLE IF NOT EXISTS exercise_records (
	user_id       INTEGER NOT NULL REFERENCES users(id),
	exercise_id   TEXT NOT NULL,
	exercise_name TEXT NOT NULL,
	best_volume   REAL NOT NULL,
	best_set      TEXT NOT NULL,
	estimated_1rm REAL NOT NULL,
	updated_at    TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, exercise_id)
);`

// OpenSQLite opens (or creates) the SQLite database at the given path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() {
	s.db.Close()
}

// GetOrCreateUser finds or creates a user by login name.
func (s *SQLite) GetOrCreateUser(ctx context.Context, login, displayName string) (int, error) {
	var id int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (login, display_name)
		VALUES (?, ?)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = CURRENT_TIMESTAMP,
			    display_name = CASE WHEN ?2 != '' THEN ?2 ELSE users.display_name END
		RETURNING id
	`, login, displayName).Scan(&id)
	return id, err
}

// ListWorkouts returns a user's workout templates, newest-created first.
func (s *SQLite) ListWorkouts(ctx context.Context, userID int) ([]models.Workout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, estimated_duration, last_performed, exercises, created_at
		 FROM workouts
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.Workout
	for rows.Next() {
		var w models.Workout
		var id, exercisesJSON string
		if err := rows.Scan(&id, &w.Name, &w.Description, &w.EstimatedDuration,
			&w.LastPerformed, &exercisesJSON, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		if w.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing workout id: %w", err)
		}
		if err := json.Unmarshal([]byte(exercisesJSON), &w.Exercises); err != nil {
			return nil, fmt.Errorf("decoding workout exercises: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// InsertWorkout inserts a new workout template.
func (s *SQLite) InsertWorkout(ctx context.Context, userID int, w models.Workout) error {
	exercisesJSON, err := json.Marshal(exercisesOrEmpty(w.Exercises))
	if err != nil {
		return fmt.Errorf("encoding workout exercises: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO workouts (id, user_id, name, description, estimated_duration, last_performed, exercises, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID.String(), userID, w.Name, w.Description, w.EstimatedDuration,
		w.LastPerformed, string(exercisesJSON), w.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}
	return nil
}

// UpdateWorkout overwrites the mutable fields of a template.
func (s *SQLite) UpdateWorkout(ctx context.Context, workoutID uuid.UUID, w models.Workout) error {
	exercisesJSON, err := json.Marshal(exercisesOrEmpty(w.Exercises))
	if err != nil {
		return fmt.Errorf("encoding workout exercises: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE workouts
		 SET name = ?, description = ?, estimated_duration = ?,
		     last_performed = ?, exercises = ?, updated_at = ?
		 WHERE id = ?`,
		w.Name, w.Description, w.EstimatedDuration, w.LastPerformed,
		string(exercisesJSON), time.Now(), workoutID.String())
	if err != nil {
		return fmt.Errorf("updating workout: %w", err)
	}
	return nil
}

// DeleteWorkout removes a workout template.
func (s *SQLite) DeleteWorkout(ctx context.Context, workoutID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM workouts WHERE id = ?`, workoutID.String())
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	return nil
}

// ListSessionLogs returns a user's session logs, most-recent-started first.
func (s *SQLite) ListSessionLogs(ctx context.Context, userID, limit int) ([]models.WorkoutSessionLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, workout_id, workout_name, started_at, ended_at,
		        duration_minutes, duration_seconds, total_volume, total_sets_completed,
		        is_deload, notes, exercises, new_prs
		 FROM workout_sessions
		 WHERE user_id = ?
		 ORDER BY started_at DESC
		 LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying session logs: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSessionLog
	for rows.Next() {
		var l models.WorkoutSessionLog
		var id, workoutID, exercisesJSON, prsJSON string
		if err := rows.Scan(&id, &workoutID, &l.WorkoutName, &l.StartedAt, &l.EndedAt,
			&l.DurationMinutes, &l.DurationSeconds, &l.TotalVolume, &l.TotalSetsCompleted,
			&l.IsDeload, &l.Notes, &exercisesJSON, &prsJSON); err != nil {
			return nil, fmt.Errorf("scanning session log: %w", err)
		}
		if l.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing session id: %w", err)
		}
		if l.WorkoutID, err = uuid.Parse(workoutID); err != nil {
			return nil, fmt.Errorf("parsing session workout id: %w", err)
		}
		if err := json.Unmarshal([]byte(exercisesJSON), &l.Exercises); err != nil {
			return nil, fmt.Errorf("decoding session exercises: %w", err)
		}
		if err := json.Unmarshal([]byte(prsJSON), &l.NewPRs); err != nil {
			return nil, fmt.Errorf("decoding session PRs: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// InsertSessionLog stores a finished session.
func (s *SQLite) InsertSessionLog(ctx context.Context, userID int, log models.WorkoutSessionLog) error {
	exercisesJSON, err := json.Marshal(log.Exercises)
	if err != nil {
		return fmt.Errorf("encoding session exercises: %w", err)
	}
	prs := log.NewPRs
	if prs == nil {
		prs = []models.PersonalRecord{}
	}
	prsJSON, err := json.Marshal(prs)
	if err != nil {
		return fmt.Errorf("encoding session PRs: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO workout_sessions
		 (id, user_id, workout_id, workout_name, started_at, ended_at,
		  duration_minutes, duration_seconds, total_volume, total_sets_completed,
		  is_deload, notes, exercises, new_prs)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		log.ID.String(), userID, log.WorkoutID.String(), log.WorkoutName,
		log.StartedAt, log.EndedAt, log.DurationMinutes, log.DurationSeconds,
		log.TotalVolume, log.TotalSetsCompleted, log.IsDeload, log.Notes,
		string(exercisesJSON), string(prsJSON))
	if err != nil {
		return fmt.Errorf("inserting session log: %w", err)
	}
	return nil
}

// ListExerciseRecords returns all best-ever records for a user.
func (s *SQLite) ListExerciseRecords(ctx context.Context, userID int) ([]models.ExerciseRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT exercise_id, exercise_name, best_volume, best_set, estimated_1rm
		 FROM exercise_records
		 WHERE user_id = ?`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercise records: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseRecord
	for rows.Next() {
		var r models.ExerciseRecord
		var bestSetJSON string
		if err := rows.Scan(&r.ExerciseID, &r.ExerciseName, &r.BestVolume,
			&bestSetJSON, &r.Estimated1RM); err != nil {
			return nil, fmt.Errorf("scanning exercise record: %w", err)
		}
		if err := json.Unmarshal([]byte(bestSetJSON), &r.BestSet); err != nil {
			return nil, fmt.Errorf("decoding best set: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// UpsertExerciseRecord stores a best-ever record, keyed by
// (user_id, exercise_id).
func (s *SQLite) UpsertExerciseRecord(ctx context.Context, userID int, rec models.ExerciseRecord) error {
	bestSetJSON, err := json.Marshal(rec.BestSet)
	if err != nil {
		return fmt.Errorf("encoding best set: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO exercise_records
		 (user_id, exercise_id, exercise_name, best_volume, best_set, estimated_1rm, updated_at)
		 VALUES (?,?,?,?,?,?,?)
		 ON CONFLICT (user_id, exercise_id) DO UPDATE
		   SET exercise_name = excluded.exercise_name,
		       best_volume = excluded.best_volume,
		       best_set = excluded.best_set,
		       estimated_1rm = excluded.estimated_1rm,
		       updated_at = excluded.updated_at`,
		userID, rec.ExerciseID, rec.ExerciseName, rec.BestVolume,
		string(bestSetJSON), rec.Estimated1RM, time.Now())
	if err != nil {
		return fmt.Errorf("upserting exercise record: %w", err)
	}
	return nil
}
