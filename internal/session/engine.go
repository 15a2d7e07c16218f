// Package session implements the active-workout state machine: one
// session at a time, driven from Idle through Active to a summary and
// back to Idle. All mutations are synchronous; only persistence crosses
// an asynchronous boundary, and a storage failure never interrupts the
// session in progress.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/ironlog/internal/catalog"
	"github.com/claude/ironlog/internal/formulas"
	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/records"
	"github.com/claude/ironlog/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrNoActiveSession  = errors.New("no active session")
	ErrSessionActive    = errors.New("a session is already active")
	ErrInvalidSetIndex  = errors.New("set index out of range")
	ErrInvalidSetField  = errors.New("unknown set field")
	ErrInvalidSetValue  = errors.New("invalid set value")
)

// Phase is the engine's lifecycle state.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseActive  Phase = "active"
	PhaseSummary Phase = "summary"
)

// SetField names a mutable ActiveSet field for UpdateSet.
type SetField string

const (
	FieldWeight    SetField = "weight"
	FieldReps      SetField = "reps"
	FieldRPE       SetField = "rpe"
	FieldCompleted SetField = "completed"
)

// WorkoutSource provides workout templates to the engine.
type WorkoutSource interface {
	Get(id uuid.UUID) (models.Workout, bool)
	// MarkPerformed records a completed session on the template: the
	// last-performed timestamp and the exercise list actually worked.
	MarkPerformed(id uuid.UUID, exercises []models.Exercise, at time.Time)
}

// HistorySource supplies prior session logs and accepts finished ones.
type HistorySource interface {
	LatestFor(workoutID uuid.UUID) (models.WorkoutSessionLog, bool)
	Append(log models.WorkoutSessionLog)
}

// Engine drives one user's active workout session.
type Engine struct {
	db       storage.Store
	userID   int
	catalog  *catalog.Catalog
	records  *records.Store
	workouts WorkoutSource
	history  HistorySource
	log      *slog.Logger
	now      func() time.Time
	events   *broadcaster

	mu           sync.Mutex
	phase        Phase
	workoutID    uuid.UUID
	workoutName  string
	exercises    []models.Exercise
	current      int
	done         map[string]models.ExerciseSessionData
	activeSets   []models.ActiveSet
	sessionStart time.Time
	anchor       time.Time
	isDeload     bool
	notes        string
	prs          []models.PersonalRecord
	summary      *models.WorkoutSessionLog

	persist sync.WaitGroup
}

// New creates an idle engine for one user.
func New(db storage.Store, userID int, cat *catalog.Catalog, recs *records.Store,
	workouts WorkoutSource, history HistorySource, log *slog.Logger) *Engine {
	return &Engine{
		db:       db,
		userID:   userID,
		catalog:  cat,
		records:  recs,
		workouts: workouts,
		history:  history,
		log:      log,
		now:      time.Now,
		events:   newBroadcaster(),
	}
}

// Subscribe returns a channel of engine events and a cancel func. Sends
// are non-blocking; slow consumers miss events instead of stalling the
// session.
func (e *Engine) Subscribe() (<-chan Event, func()) {
	return e.events.Subscribe()
}

// Start begins a session for the given workout. The working exercise
// list is seeded from the most recent prior session for this workout
// when one logged exercises, else from the template, else left empty for
// ad hoc additions.
func (e *Engine) Start(workoutID uuid.UUID) error {
	w, ok := e.workouts.Get(workoutID)
	if !ok {
		return ErrWorkoutNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == PhaseActive {
		return ErrSessionActive
	}

	var working []models.Exercise
	if last, ok := e.history.LatestFor(workoutID); ok && len(last.Exercises) > 0 {
		ids := make([]string, 0, len(last.Exercises))
		for _, ex := range last.Exercises {
			ids = append(ids, ex.ExerciseID)
		}
		working = e.catalog.Resolve(ids)
	}
	if len(working) == 0 {
		working = append(working, w.Exercises...)
	}

	now := e.now()
	e.phase = PhaseActive
	e.workoutID = workoutID
	e.workoutName = w.Name
	e.exercises = working
	e.current = 0
	e.done = make(map[string]models.ExerciseSessionData)
	e.activeSets = []models.ActiveSet{emptySet(1)}
	e.sessionStart = now
	e.anchor = now
	e.isDeload = false
	e.notes = ""
	e.prs = nil
	e.summary = nil

	e.log.Info("session started", "workout", w.Name, "exercises", len(working))
	return nil
}

// UpdateSet mutates one field of the set at index in the current working
// list. Marking a set completed publishes a set-completed event for the
// external rest timer.
func (e *Engine) UpdateSet(index int, field SetField, value any) error {
	e.mu.Lock()
	if e.phase != PhaseActive {
		e.mu.Unlock()
		return ErrNoActiveSession
	}
	if index < 0 || index >= len(e.activeSets) {
		e.mu.Unlock()
		return ErrInvalidSetIndex
	}

	set := &e.activeSets[index]
	var completedNow bool
	switch field {
	case FieldWeight:
		v, ok := toFloat(value)
		if !ok {
			e.mu.Unlock()
			return ErrInvalidSetValue
		}
		set.Weight = v
	case FieldReps:
		v, ok := toInt(value)
		if !ok {
			e.mu.Unlock()
			return ErrInvalidSetValue
		}
		set.Reps = v
	case FieldRPE:
		v, ok := toFloat(value)
		if !ok {
			e.mu.Unlock()
			return ErrInvalidSetValue
		}
		set.RPE = v
	case FieldCompleted:
		v, ok := value.(bool)
		if !ok {
			e.mu.Unlock()
			return ErrInvalidSetValue
		}
		completedNow = v && !set.Completed
		set.Completed = v
	default:
		e.mu.Unlock()
		return ErrInvalidSetField
	}

	var exerciseID string
	if e.current < len(e.exercises) {
		exerciseID = e.exercises[e.current].ID
	}
	e.mu.Unlock()

	if completedNow {
		e.events.publish(Event{Type: EventSetCompleted, ExerciseID: exerciseID, SetIndex: index})
	}
	return nil
}

// AddSet appends an empty set to the current exercise.
func (e *Engine) AddSet() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseActive {
		return ErrNoActiveSession
	}
	e.activeSets = append(e.activeSets, emptySet(len(e.activeSets)+1))
	return nil
}

// AddExercise appends a catalog exercise to the working list. Adding an
// exercise already in the list is a silent no-op.
func (e *Engine) AddExercise(exerciseID string) error {
	ex, ok := e.catalog.Get(exerciseID)
	if !ok {
		return ErrExerciseNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseActive {
		return ErrNoActiveSession
	}
	for _, existing := range e.exercises {
		if existing.ID == exerciseID {
			return nil
		}
	}
	e.exercises = append(e.exercises, ex)
	return nil
}

// RemoveExercise drops an exercise from the working list and discards
// any snapshot taken for it. Removing at or before the pointer moves the
// pointer back by one, floored at zero; an absent id is a silent no-op.
func (e *Engine) RemoveExercise(exerciseID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseActive {
		return ErrNoActiveSession
	}

	idx := -1
	for i, ex := range e.exercises {
		if ex.ID == exerciseID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	e.exercises = append(e.exercises[:idx], e.exercises[idx+1:]...)
	delete(e.done, exerciseID)
	if idx <= e.current {
		e.current = max(0, e.current-1)
	}
	return nil
}

// ReorderExercise moves the exercise at from to position to. An
// out-of-bounds index is a no-op, not an error. The pointer follows the
// drop target.
func (e *Engine) ReorderExercise(from, to int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseActive {
		return ErrNoActiveSession
	}
	if from < 0 || from >= len(e.exercises) || to < 0 || to >= len(e.exercises) || from == to {
		return nil
	}
	moved := e.exercises[from]
	rest := append(e.exercises[:from:from], e.exercises[from+1:]...)
	e.exercises = append(rest[:to:to], append([]models.Exercise{moved}, rest[to:]...)...)
	e.current = to
	return nil
}

// SelectExercise moves the pointer directly to an exercise, as when the
// user taps it in the plan or navigates back. Out of bounds is a no-op.
func (e *Engine) SelectExercise(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseActive {
		return ErrNoActiveSession
	}
	if index >= 0 && index < len(e.exercises) {
		e.current = index
	}
	return nil
}

// SetDeload flags the session as reduced-intensity training. The flag is
// recorded on the log; it does not suppress PR evaluation.
func (e *Engine) SetDeload(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.isDeload = v
}

// SetNotes replaces the session-level note text.
func (e *Engine) SetNotes(notes string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notes = notes
}

// SetExerciseNote attaches a note to the current exercise; it is carried
// into the exercise's session snapshot.
func (e *Engine) SetExerciseNote(note string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseActive || e.current >= len(e.exercises) {
		return ErrNoActiveSession
	}
	e.exercises[e.current].Note = note
	return nil
}

// Advance finishes the current exercise: it snapshots the set list,
// evaluates records, and either moves to the next exercise or, on the
// last one, completes the session. It reports whether the session
// finished.
func (e *Engine) Advance(ctx context.Context) (bool, error) {
	e.mu.Lock()
	if e.phase != PhaseActive {
		e.mu.Unlock()
		return false, ErrNoActiveSession
	}
	if e.current >= len(e.exercises) {
		e.mu.Unlock()
		return false, ErrExerciseNotFound
	}

	ex := e.exercises[e.current]
	sets := make([]models.ActiveSet, len(e.activeSets))
	copy(sets, e.activeSets)

	e.done[ex.ID] = models.ExerciseSessionData{
		ExerciseID:  ex.ID,
		Name:        ex.Name,
		MuscleGroup: ex.MuscleGroup,
		Note:        ex.Note,
		Sets:        sets,
		Volume:      formulas.TotalVolume(sets),
	}

	// Record evaluation happens under the session lock: exercise-finish
	// points are sequential, so evaluations for one exercise never race.
	_, events := e.records.Evaluate(ex.ID, ex.Name, sets, e.now())
	e.prs = append(e.prs, events...)

	last := e.current >= len(e.exercises)-1
	if !last {
		e.current++
		e.activeSets = []models.ActiveSet{emptySet(1)}
	}
	e.mu.Unlock()

	for i := range events {
		e.events.publish(Event{Type: EventPR, ExerciseID: ex.ID, PR: &events[i]})
	}

	if last {
		return true, e.Complete(ctx)
	}
	return false, nil
}

// Elapsed returns the time since the session's timer anchor, truncated
// to whole seconds. Zero when no session is active.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseActive || e.anchor.IsZero() {
		return 0
	}
	return e.now().Sub(e.anchor).Truncate(time.Second)
}

// Abandon discards all transient state and returns to Idle without
// persisting anything. The confirmation prompt is the caller's concern.
func (e *Engine) Abandon() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == PhaseIdle {
		return
	}
	e.log.Info("session abandoned", "workout", e.workoutName)
	e.reset()
}

// reset clears transient session state. Caller holds the lock.
func (e *Engine) reset() {
	e.phase = PhaseIdle
	e.workoutID = uuid.Nil
	e.workoutName = ""
	e.exercises = nil
	e.current = 0
	e.done = nil
	e.activeSets = nil
	e.sessionStart = time.Time{}
	e.anchor = time.Time{}
	e.isDeload = false
	e.notes = ""
	e.prs = nil
	e.summary = nil
}

// Wait blocks until background persistence has drained. Used on shutdown
// and in tests.
func (e *Engine) Wait() {
	e.persist.Wait()
	e.records.Wait()
}

func emptySet(number int) models.ActiveSet {
	return models.ActiveSet{SetNumber: number}
}

func toFloat(v any) (*float64, bool) {
	switch n := v.(type) {
	case nil:
		return nil, true
	case float64:
		return &n, true
	case int:
		f := float64(n)
		return &f, true
	}
	return nil, false
}

func toInt(v any) (*int, bool) {
	switch n := v.(type) {
	case nil:
		return nil, true
	case int:
		return &n, true
	case float64:
		if n != float64(int(n)) {
			return nil, false
		}
		i := int(n)
		return &i, true
	}
	return nil, false
}
