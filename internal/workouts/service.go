// Package workouts manages a user's workout templates. Mutations apply
// to the in-memory list synchronously and persist in the background;
// a storage failure is logged and never rolls back local state.
package workouts

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/storage"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a workout id is unknown.
var ErrNotFound = errors.New("workout not found")

const persistTimeout = 10 * time.Second

// Service holds one user's workout templates.
type Service struct {
	db     storage.Store
	userID int
	log    *slog.Logger
	now    func() time.Time

	mu   sync.Mutex
	list []models.Workout // newest-created first

	persist sync.WaitGroup
}

// New creates an empty service for a user.
func New(db storage.Store, userID int, log *slog.Logger) *Service {
	return &Service{db: db, userID: userID, log: log, now: time.Now}
}

// Load replaces the in-memory list with the persisted templates.
func (s *Service) Load(ctx context.Context) error {
	list, err := s.db.ListWorkouts(ctx, s.userID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.list = list
	s.mu.Unlock()
	return nil
}

// List returns the templates, newest-created first.
func (s *Service) List() []models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Workout, len(s.list))
	copy(out, s.list)
	return out
}

// Get returns a template by id.
func (s *Service) Get(id uuid.UUID) (models.Workout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.list {
		if w.ID == id {
			return w, true
		}
	}
	return models.Workout{}, false
}

// Create adds a new empty template at the head of the list.
func (s *Service) Create(name, description string, estimatedDuration int) models.Workout {
	w := models.Workout{
		ID:                uuid.New(),
		Name:              name,
		Description:       description,
		EstimatedDuration: estimatedDuration,
		Exercises:         []models.Exercise{},
		CreatedAt:         s.now(),
	}

	s.mu.Lock()
	s.list = append([]models.Workout{w}, s.list...)
	s.mu.Unlock()

	s.persistAsync("insert workout", func(ctx context.Context) error {
		return s.db.InsertWorkout(ctx, s.userID, w)
	})
	return w
}

// UpdateDetails edits a template's name and description.
func (s *Service) UpdateDetails(id uuid.UUID, name, description string) error {
	return s.update(id, func(w *models.Workout) {
		w.Name = name
		w.Description = description
	})
}

// AddExercise appends an exercise to the template. Duplicates are a
// silent no-op.
func (s *Service) AddExercise(id uuid.UUID, ex models.Exercise) error {
	return s.update(id, func(w *models.Workout) {
		for _, existing := range w.Exercises {
			if existing.ID == ex.ID {
				return
			}
		}
		w.Exercises = append(w.Exercises, ex)
	})
}

// RemoveExercise drops an exercise from the template. An absent id is a
// silent no-op.
func (s *Service) RemoveExercise(id uuid.UUID, exerciseID string) error {
	return s.update(id, func(w *models.Workout) {
		for i, ex := range w.Exercises {
			if ex.ID == exerciseID {
				w.Exercises = append(w.Exercises[:i], w.Exercises[i+1:]...)
				return
			}
		}
	})
}

// ReorderExercise moves an exercise within the template. Out-of-bounds
// indices are a no-op.
func (s *Service) ReorderExercise(id uuid.UUID, from, to int) error {
	return s.update(id, func(w *models.Workout) {
		if from < 0 || from >= len(w.Exercises) || to < 0 || to >= len(w.Exercises) || from == to {
			return
		}
		moved := w.Exercises[from]
		rest := append(w.Exercises[:from:from], w.Exercises[from+1:]...)
		w.Exercises = append(rest[:to:to], append([]models.Exercise{moved}, rest[to:]...)...)
	})
}

// MarkPerformed records a completed session on the template: the
// last-performed timestamp and the exercise list actually worked that
// session.
func (s *Service) MarkPerformed(id uuid.UUID, exercises []models.Exercise, at time.Time) {
	_ = s.update(id, func(w *models.Workout) {
		w.LastPerformed = &at
		if len(exercises) > 0 {
			w.Exercises = exercises
		}
	})
}

// Delete removes a template.
func (s *Service) Delete(id uuid.UUID) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.list = append(s.list[:idx], s.list[idx+1:]...)
	s.mu.Unlock()

	s.persistAsync("delete workout", func(ctx context.Context) error {
		return s.db.DeleteWorkout(ctx, id)
	})
	return nil
}

// Move reorders the template list itself. Display order is a local
// concern and is not persisted.
func (s *Service) Move(from, to int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if from < 0 || from >= len(s.list) || to < 0 || to >= len(s.list) || from == to {
		return
	}
	moved := s.list[from]
	rest := append(s.list[:from:from], s.list[from+1:]...)
	s.list = append(rest[:to:to], append([]models.Workout{moved}, rest[to:]...)...)
}

// Wait blocks until background persistence has drained.
func (s *Service) Wait() {
	s.persist.Wait()
}

// update applies fn to the template and persists the result.
func (s *Service) update(id uuid.UUID, fn func(*models.Workout)) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	fn(&s.list[idx])
	updated := s.list[idx]
	s.mu.Unlock()

	s.persistAsync("update workout", func(ctx context.Context) error {
		return s.db.UpdateWorkout(ctx, id, updated)
	})
	return nil
}

// indexLocked returns the list index for id. Caller holds the lock.
func (s *Service) indexLocked(id uuid.UUID) int {
	for i, w := range s.list {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// persistAsync runs one best-effort storage write in the background.
func (s *Service) persistAsync(op string, fn func(context.Context) error) {
	s.persist.Add(1)
	go func() {
		defer s.persist.Done()
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.log.Error("workout persistence failed", "op", op, "error", err)
		}
	}()
}
