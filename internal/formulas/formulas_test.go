package formulas

import (
	"testing"

	"github.com/claude/ironlog/internal/models"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestOneRepMax(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		reps   int
		want   float64
	}{
		{"single rep is identity", 120, 1, 120},
		{"brzycki five reps", 100, 5, 113},
		{"brzycki eight reps", 80, 8, 99},
		{"brzycki ten reps", 60, 10, 80},
		{"zero reps", 100, 0, 0},
		{"negative reps", 100, -3, 0},
		{"formula singularity", 100, 37, 0},
		{"beyond singularity", 100, 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OneRepMax(tt.weight, tt.reps); got != tt.want {
				t.Errorf("OneRepMax(%v, %d) = %v, want %v", tt.weight, tt.reps, got, tt.want)
			}
		})
	}
}

func TestTotalVolume(t *testing.T) {
	sets := []models.ActiveSet{
		{SetNumber: 1, Weight: fptr(80), Reps: iptr(8), Completed: true},   // 640
		{SetNumber: 2, Weight: fptr(80), Reps: iptr(6), Completed: false},  // not completed
		{SetNumber: 3, Weight: nil, Reps: iptr(10), Completed: true},       // no weight
		{SetNumber: 4, Weight: fptr(60), Reps: nil, Completed: true},       // no reps
		{SetNumber: 5, Weight: fptr(100), Reps: iptr(3), Completed: true},  // 300
	}
	if got := TotalVolume(sets); got != 940 {
		t.Errorf("TotalVolume = %v, want 940", got)
	}
}

// A set marked completed without weight or reps counts toward the completed
// count but contributes nothing to volume.
func TestCompletedSetsIgnoresMissingData(t *testing.T) {
	sets := []models.ActiveSet{
		{SetNumber: 1, Weight: fptr(80), Reps: iptr(8), Completed: true},
		{SetNumber: 2, Completed: true},
		{SetNumber: 3, Weight: fptr(80), Reps: iptr(8)},
	}
	if got := CompletedSets(sets); got != 2 {
		t.Errorf("CompletedSets = %d, want 2", got)
	}
	if got := TotalVolume(sets); got != 640 {
		t.Errorf("TotalVolume = %v, want 640", got)
	}
}

func TestClassifyMuscleGroup(t *testing.T) {
	tests := []struct {
		name    string
		muscles []string
		want    models.MuscleGroup
	}{
		{"chest", []string{"chest"}, models.Chest},
		{"lats map to back", []string{"lats"}, models.Back},
		{"quadriceps map to legs", []string{"quadriceps"}, models.Legs},
		{"hamstrings map to legs", []string{"hamstrings"}, models.Legs},
		{"calves map to legs", []string{"calf muscles"}, models.Legs},
		{"deltoids map to shoulders", []string{"anterior deltoid"}, models.Shoulders},
		{"triceps map to arms", []string{"triceps"}, models.Arms},
		{"forearms map to arms", []string{"forearms"}, models.Arms},
		{"abdominals map to core", []string{"abdominals"}, models.Core},
		{"glutes", []string{"gluteus maximus"}, models.Glutes},
		{"only first label considered", []string{"chest", "triceps"}, models.Chest},
		{"unknown defaults to core", []string{"trapezius"}, models.Core},
		{"empty defaults to core", nil, models.Core},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyMuscleGroup(tt.muscles); got != tt.want {
				t.Errorf("ClassifyMuscleGroup(%v) = %v, want %v", tt.muscles, got, tt.want)
			}
		})
	}
}
