package session

import (
	"time"

	"github.com/claude/ironlog/internal/formulas"
	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
)

// ExerciseStatus is one working-list entry with its completion flag.
type ExerciseStatus struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	MuscleGroup models.MuscleGroup `json:"muscleGroup"`
	Note        string             `json:"note,omitempty"`
	Done        bool               `json:"done"`
}

// Snapshot is the read-only view of the session the UI renders from.
type Snapshot struct {
	Phase          Phase                     `json:"phase"`
	WorkoutID      uuid.UUID                 `json:"workoutId,omitempty"`
	WorkoutName    string                    `json:"workoutName,omitempty"`
	Exercises      []ExerciseStatus          `json:"exercises,omitempty"`
	CurrentIndex   int                       `json:"currentIndex"`
	Sets           []models.ActiveSet        `json:"sets,omitempty"`
	CurrentVolume  float64                   `json:"currentVolume"`
	SetsCompleted  int                       `json:"setsCompleted"`
	ElapsedSeconds int                       `json:"elapsedSeconds"`
	IsDeload       bool                      `json:"isDeload"`
	Notes          string                    `json:"notes,omitempty"`
	PRs            []models.PersonalRecord   `json:"prs,omitempty"`
	Summary        *models.WorkoutSessionLog `json:"summary,omitempty"`
}

// Snapshot returns the current session state with live aggregates for
// the exercise being worked.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Phase:        e.phase,
		CurrentIndex: e.current,
		IsDeload:     e.isDeload,
		Notes:        e.notes,
		Summary:      e.summary,
	}
	if e.phase == PhaseIdle {
		return snap
	}

	snap.WorkoutID = e.workoutID
	snap.WorkoutName = e.workoutName
	snap.Exercises = make([]ExerciseStatus, len(e.exercises))
	for i, ex := range e.exercises {
		_, done := e.done[ex.ID]
		snap.Exercises[i] = ExerciseStatus{
			ID:          ex.ID,
			Name:        ex.Name,
			MuscleGroup: ex.MuscleGroup,
			Note:        ex.Note,
			Done:        done,
		}
	}
	snap.Sets = make([]models.ActiveSet, len(e.activeSets))
	copy(snap.Sets, e.activeSets)
	snap.CurrentVolume = formulas.TotalVolume(e.activeSets)
	snap.SetsCompleted = formulas.CompletedSets(e.activeSets)
	snap.PRs = append([]models.PersonalRecord(nil), e.prs...)
	if e.phase == PhaseActive && !e.anchor.IsZero() {
		snap.ElapsedSeconds = int(e.now().Sub(e.anchor) / time.Second)
	}
	return snap
}
