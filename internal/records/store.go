// Package records holds the per-exercise best-ever performance table and
// the personal-record evaluation rules.
package records

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/ironlog/internal/formulas"
	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/storage"
)

const persistTimeout = 10 * time.Second

// Store is the authoritative best-ever performance table for one user.
// The in-memory map is the source of truth during a session; writes to
// the backing storage are best-effort and never block or roll back the
// local state.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]models.ExerciseRecord
	db      storage.Store
	userID  int
	log     *slog.Logger
	persist sync.WaitGroup
}

// New creates an empty record store for a user.
func New(db storage.Store, userID int, log *slog.Logger) *Store {
	return &Store{
		byID:   make(map[string]models.ExerciseRecord),
		db:     db,
		userID: userID,
		log:    log,
	}
}

// Load replaces the in-memory table with the persisted records.
func (s *Store) Load(ctx context.Context) error {
	recs, err := s.db.ListExerciseRecords(ctx, s.userID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]models.ExerciseRecord, len(recs))
	for _, r := range recs {
		s.byID[r.ExerciseID] = r
	}
	return nil
}

// Get returns the record for an exercise, if one exists.
func (s *Store) Get(exerciseID string) (models.ExerciseRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[exerciseID]
	return r, ok
}

// All returns every record.
func (s *Store) All() []models.ExerciseRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ExerciseRecord, 0, len(s.byID))
	for _, r := range s.byID {
		out = append(out, r)
	}
	return out
}

// Len returns the number of exercises with a record.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Evaluate compares an exercise's completed sets against the stored record
// and updates it when a metric strictly improves. It returns the record
// now in effect and zero, one or two PR events: best single-set volume and
// best estimated 1RM are independent axes. An absent record behaves as a
// record with both metrics at zero.
//
// On ties the established best wins; only a strictly greater value counts.
// The best set (and its date) is replaced only when volume improves, so
// BestSet always describes the highest-volume set even when the same
// evaluation raised the 1RM estimate.
//
// The updated record is written to storage in the background; a write
// failure leaves the in-memory update in place.
func (s *Store) Evaluate(exerciseID, exerciseName string, sets []models.ActiveSet, achievedAt time.Time) (models.ExerciseRecord, []models.PersonalRecord) {
	var (
		maxVolume float64
		bestSet   models.BestSet
		max1RM    float64
	)
	for _, set := range sets {
		if !set.Counts() {
			continue
		}
		volume := *set.Weight * float64(*set.Reps)
		if volume > maxVolume {
			maxVolume = volume
			bestSet = models.BestSet{Weight: *set.Weight, Reps: *set.Reps, AchievedAt: achievedAt}
		}
		if est := formulas.OneRepMax(*set.Weight, *set.Reps); est > max1RM {
			max1RM = est
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.byID[exerciseID] // zero value when absent

	var events []models.PersonalRecord
	volumeImproved := maxVolume > current.BestVolume
	oneRMImproved := max1RM > current.Estimated1RM

	if volumeImproved {
		events = append(events, models.PersonalRecord{
			ExerciseID:   exerciseID,
			ExerciseName: exerciseName,
			Type:         models.PRVolume,
			OldValue:     current.BestVolume,
			NewValue:     maxVolume,
			AchievedAt:   achievedAt,
		})
	}
	if oneRMImproved {
		events = append(events, models.PersonalRecord{
			ExerciseID:   exerciseID,
			ExerciseName: exerciseName,
			Type:         models.PROneRM,
			OldValue:     current.Estimated1RM,
			NewValue:     max1RM,
			AchievedAt:   achievedAt,
		})
	}

	if !volumeImproved && !oneRMImproved {
		return current, nil
	}

	updated := models.ExerciseRecord{
		ExerciseID:   exerciseID,
		ExerciseName: exerciseName,
		BestVolume:   max(current.BestVolume, maxVolume),
		BestSet:      current.BestSet,
		Estimated1RM: max(current.Estimated1RM, max1RM),
	}
	if volumeImproved {
		updated.BestSet = bestSet
	}
	s.byID[exerciseID] = updated

	s.persist.Add(1)
	go func() {
		defer s.persist.Done()
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.db.UpsertExerciseRecord(ctx, s.userID, updated); err != nil {
			s.log.Error("persisting exercise record failed",
				"exercise", exerciseID, "error", err)
		}
	}()

	return updated, events
}

// Wait blocks until all background record writes have finished. Used on
// shutdown and in tests.
func (s *Store) Wait() {
	s.persist.Wait()
}
