package session

import (
	"context"
	"math"
	"time"

	"github.com/claude/ironlog/internal/formulas"
	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
)

const persistTimeout = 10 * time.Second

// Complete finalizes the active session into an immutable log: duration
// from the timer anchor, totals summed over the exercises explicitly
// finished, the accumulated PR events, and the deload/notes flags as
// currently set. A missing start timestamp or anchor is an engine
// invariant violation and the call returns silently without effect.
//
// The log is inserted and the template's last-performed timestamp and
// final exercise list are updated in the background; the in-memory
// summary is correct regardless of persistence outcome.
func (e *Engine) Complete(ctx context.Context) error {
	e.mu.Lock()
	if e.phase != PhaseActive {
		e.mu.Unlock()
		return ErrNoActiveSession
	}
	if e.sessionStart.IsZero() || e.anchor.IsZero() {
		e.mu.Unlock()
		return nil
	}

	now := e.now()
	durationSeconds := int(now.Sub(e.anchor).Seconds())
	durationMinutes := int(math.Round(float64(durationSeconds) / 60))

	exercises := make([]models.ExerciseSessionData, 0, len(e.done))
	for _, ex := range e.exercises {
		if data, ok := e.done[ex.ID]; ok {
			exercises = append(exercises, data)
		}
	}

	var totalVolume float64
	var totalSets int
	for _, data := range exercises {
		totalVolume += data.Volume
		totalSets += formulas.CompletedSets(data.Sets)
	}

	prs := make([]models.PersonalRecord, len(e.prs))
	copy(prs, e.prs)

	log := models.WorkoutSessionLog{
		ID:                 uuid.New(),
		WorkoutID:          e.workoutID,
		WorkoutName:        e.workoutName,
		StartedAt:          e.sessionStart,
		EndedAt:            now,
		DurationMinutes:    durationMinutes,
		DurationSeconds:    durationSeconds,
		TotalVolume:        totalVolume,
		TotalSetsCompleted: totalSets,
		IsDeload:           e.isDeload,
		Notes:              e.notes,
		Exercises:          exercises,
		NewPRs:             prs,
	}

	finalExercises := make([]models.Exercise, len(e.exercises))
	copy(finalExercises, e.exercises)

	e.phase = PhaseSummary
	e.summary = &log
	e.mu.Unlock()

	e.history.Append(log)
	e.workouts.MarkPerformed(log.WorkoutID, finalExercises, now)

	e.persist.Add(1)
	go func() {
		defer e.persist.Done()
		pctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := e.db.InsertSessionLog(pctx, e.userID, log); err != nil {
			e.log.Error("persisting session log failed", "session", log.ID, "error", err)
		}
	}()

	e.events.publish(Event{Type: EventSessionCompleted, Summary: &log})
	e.log.Info("session completed",
		"workout", log.WorkoutName,
		"volume", log.TotalVolume,
		"sets", log.TotalSetsCompleted,
		"prs", len(log.NewPRs),
	)
	return nil
}

// Summary returns the finalized log while the engine is in the summary
// state, nil otherwise.
func (e *Engine) Summary() *models.WorkoutSessionLog {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.summary
}

// Acknowledge dismisses the summary and returns the engine to Idle.
func (e *Engine) Acknowledge() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseSummary {
		return
	}
	e.reset()
}
