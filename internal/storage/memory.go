package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests and by the -ephemeral dev
// mode. It applies the same ordering and idempotence rules as the real
// backends.
type Memory struct {
	mu       sync.Mutex
	FailNext bool // next operation returns an error, for failure-path tests

	users    map[string]int
	nextUser int
	workouts map[uuid.UUID]memWorkout
	sessions map[int][]models.WorkoutSessionLog
	records  map[int]map[string]models.ExerciseRecord
}

type memWorkout struct {
	userID  int
	workout models.Workout
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:    make(map[string]int),
		nextUser: 1,
		workouts: make(map[uuid.UUID]memWorkout),
		sessions: make(map[int][]models.WorkoutSessionLog),
		records:  make(map[int]map[string]models.ExerciseRecord),
	}
}

// Close is a no-op.
func (m *Memory) Close() {}

func (m *Memory) failing() error {
	if m.FailNext {
		m.FailNext = false
		return fmt.Errorf("storage unavailable")
	}
	return nil
}

// GetOrCreateUser finds or creates a user by login name.
func (m *Memory) GetOrCreateUser(_ context.Context, login, _ string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.users[login]; ok {
		return id, nil
	}
	id := m.nextUser
	m.nextUser++
	m.users[login] = id
	return id, nil
}

// ListWorkouts returns a user's workouts, newest-created first.
func (m *Memory) ListWorkouts(_ context.Context, userID int) ([]models.Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing(); err != nil {
		return nil, err
	}
	var out []models.Workout
	for _, mw := range m.workouts {
		if mw.userID == userID {
			out = append(out, mw.workout)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// InsertWorkout stores a new workout template.
func (m *Memory) InsertWorkout(_ context.Context, userID int, w models.Workout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing(); err != nil {
		return err
	}
	m.workouts[w.ID] = memWorkout{userID: userID, workout: w}
	return nil
}

// UpdateWorkout overwrites a template's mutable fields.
func (m *Memory) UpdateWorkout(_ context.Context, workoutID uuid.UUID, w models.Workout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing(); err != nil {
		return err
	}
	mw, ok := m.workouts[workoutID]
	if !ok {
		return nil
	}
	w.ID = workoutID
	w.CreatedAt = mw.workout.CreatedAt
	mw.workout = w
	m.workouts[workoutID] = mw
	return nil
}

// DeleteWorkout removes a template.
func (m *Memory) DeleteWorkout(_ context.Context, workoutID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing(); err != nil {
		return err
	}
	delete(m.workouts, workoutID)
	return nil
}

// ListSessionLogs returns logs most-recent-started first, capped at limit.
func (m *Memory) ListSessionLogs(_ context.Context, userID, limit int) ([]models.WorkoutSessionLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing(); err != nil {
		return nil, err
	}
	logs := make([]models.WorkoutSessionLog, len(m.sessions[userID]))
	copy(logs, m.sessions[userID])
	sort.Slice(logs, func(i, j int) bool { return logs[i].StartedAt.After(logs[j].StartedAt) })
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

// InsertSessionLog appends a finished session.
func (m *Memory) InsertSessionLog(_ context.Context, userID int, log models.WorkoutSessionLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing(); err != nil {
		return err
	}
	for _, existing := range m.sessions[userID] {
		if existing.ID == log.ID {
			return fmt.Errorf("session log %s already exists", log.ID)
		}
	}
	m.sessions[userID] = append(m.sessions[userID], log)
	return nil
}

// ListExerciseRecords returns all records for a user.
func (m *Memory) ListExerciseRecords(_ context.Context, userID int) ([]models.ExerciseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing(); err != nil {
		return nil, err
	}
	var out []models.ExerciseRecord
	for _, r := range m.records[userID] {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExerciseID < out[j].ExerciseID })
	return out, nil
}

// UpsertExerciseRecord stores a record keyed by (userID, exerciseID).
func (m *Memory) UpsertExerciseRecord(_ context.Context, userID int, rec models.ExerciseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing(); err != nil {
		return err
	}
	if m.records[userID] == nil {
		m.records[userID] = make(map[string]models.ExerciseRecord)
	}
	m.records[userID][rec.ExerciseID] = rec
	return nil
}

// SessionLogCount reports how many logs are stored for a user.
func (m *Memory) SessionLogCount(userID int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions[userID])
}
