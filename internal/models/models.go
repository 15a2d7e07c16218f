package models

import (
	"time"

	"github.com/google/uuid"
)

// MuscleGroup is one of the seven fixed muscle-group categories.
type MuscleGroup string

const (
	Chest     MuscleGroup = "chest"
	Back      MuscleGroup = "back"
	Legs      MuscleGroup = "legs"
	Shoulders MuscleGroup = "shoulders"
	Arms      MuscleGroup = "arms"
	Core      MuscleGroup = "core"
	Glutes    MuscleGroup = "glutes"
)

// MuscleGroups lists all categories in display order.
var MuscleGroups = []MuscleGroup{Chest, Back, Legs, Shoulders, Arms, Core, Glutes}

// Exercise is reference data from the catalog, immutable once loaded.
type Exercise struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	MuscleGroup      MuscleGroup `json:"muscleGroup"`
	Equipment        string      `json:"equipment,omitempty"`
	Instructions     []string    `json:"instructions,omitempty"`
	ImageURL         string      `json:"imageUrl,omitempty"`
	PrimaryMuscles   []string    `json:"primaryMuscles,omitempty"`
	SecondaryMuscles []string    `json:"secondaryMuscles,omitempty"`
	Note             string      `json:"note,omitempty"`
}

// Workout is a user-owned template: a named, ordered list of exercises.
type Workout struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description,omitempty"`
	EstimatedDuration int        `json:"estimatedDuration,omitempty"` // minutes
	LastPerformed     *time.Time `json:"lastPerformed,omitempty"`
	Exercises         []Exercise `json:"exercises"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// ActiveSet is one row of the set table for the exercise being worked.
// Weight, Reps and RPE stay nil until the user enters them.
type ActiveSet struct {
	SetNumber int      `json:"setNumber"`
	Weight    *float64 `json:"weight"` // kg
	Reps      *int     `json:"reps"`
	RPE       *float64 `json:"rpe"` // 1-10 in 0.5 steps
	Completed bool     `json:"completed"`
}

// Counts reports whether the set qualifies for volume and record evaluation:
// completed with both weight and reps entered.
func (s ActiveSet) Counts() bool {
	return s.Completed && s.Weight != nil && s.Reps != nil
}

// ExerciseSessionData is the snapshot taken when the user finishes an
// exercise during a session.
type ExerciseSessionData struct {
	ExerciseID  string      `json:"exerciseId"`
	Name        string      `json:"name"`
	MuscleGroup MuscleGroup `json:"muscleGroup"`
	Note        string      `json:"note,omitempty"`
	Sets        []ActiveSet `json:"sets"`
	Volume      float64     `json:"volume"`
}

// BestSet is the single highest-volume set ever logged for an exercise.
type BestSet struct {
	Weight     float64   `json:"weight"`
	Reps       int       `json:"reps"`
	AchievedAt time.Time `json:"date"`
}

// ExerciseRecord is the best-ever performance for one (user, exercise) pair.
// BestVolume and Estimated1RM are monotonically non-decreasing; BestSet
// always describes the highest-volume set, not the highest-1RM set.
type ExerciseRecord struct {
	ExerciseID   string  `json:"exerciseId"`
	ExerciseName string  `json:"exerciseName"`
	BestVolume   float64 `json:"bestVolume"`
	BestSet      BestSet `json:"bestSet"`
	Estimated1RM float64 `json:"estimated1RM"`
}

// PRType identifies which metric a personal record improved.
type PRType string

const (
	PRVolume PRType = "volume"
	PROneRM  PRType = "1RM"
	// PRReps exists in stored logs for compatibility; the evaluator never
	// emits it.
	PRReps PRType = "reps"
)

// PersonalRecord is an ephemeral PR event. The record store, not this
// event, is the source of truth.
type PersonalRecord struct {
	ExerciseID   string    `json:"exerciseId"`
	ExerciseName string    `json:"exerciseName"`
	Type         PRType    `json:"type"`
	OldValue     float64   `json:"oldValue"`
	NewValue     float64   `json:"newValue"`
	AchievedAt   time.Time `json:"achievedAt"`
}

// WorkoutSessionLog is the immutable record of one completed session.
type WorkoutSessionLog struct {
	ID                 uuid.UUID             `json:"id"`
	WorkoutID          uuid.UUID             `json:"workoutId"`
	WorkoutName        string                `json:"workoutName"`
	StartedAt          time.Time             `json:"startedAt"`
	EndedAt            time.Time             `json:"endedAt"`
	DurationMinutes    int                   `json:"durationMinutes"`
	DurationSeconds    int                   `json:"durationSeconds"`
	TotalVolume        float64               `json:"totalVolume"`
	TotalSetsCompleted int                   `json:"totalSetsCompleted"`
	IsDeload           bool                  `json:"isDeload"`
	Notes              string                `json:"notes,omitempty"`
	Exercises          []ExerciseSessionData `json:"exercises"`
	NewPRs             []PersonalRecord      `json:"newPRs,omitempty"`
}
