// Package formulas holds the pure numeric helpers used by the session
// engine and record store.
package formulas

import (
	"math"
	"strings"

	"github.com/claude/ironlog/internal/models"
)

// OneRepMax estimates the one-rep max for a set using the Brzycki formula:
// 1RM = w * 36 / (37 - r). A single rep at a given weight is the one-rep
// max itself. The formula diverges at 37 reps, so anything at or above
// that returns 0 rather than a negative or infinite estimate.
func OneRepMax(weight float64, reps int) float64 {
	if reps <= 0 {
		return 0
	}
	if reps == 1 {
		return weight
	}
	if reps >= 37 {
		return 0
	}
	return math.Round(weight * 36 / float64(37-reps))
}

// SetVolume returns weight*reps for a qualifying completed set, 0 otherwise.
func SetVolume(s models.ActiveSet) float64 {
	if !s.Counts() {
		return 0
	}
	return *s.Weight * float64(*s.Reps)
}

// TotalVolume sums SetVolume over a set list.
func TotalVolume(sets []models.ActiveSet) float64 {
	var total float64
	for _, s := range sets {
		total += SetVolume(s)
	}
	return total
}

// CompletedSets counts sets marked completed. A set with no weight or reps
// still counts here even though it contributes nothing to volume.
func CompletedSets(sets []models.ActiveSet) int {
	var n int
	for _, s := range sets {
		if s.Completed {
			n++
		}
	}
	return n
}

// ClassifyMuscleGroup maps free-text primary-muscle labels onto one of the
// seven fixed categories. Only the first label is inspected; rules apply
// in a fixed priority order and the default is core.
func ClassifyMuscleGroup(primaryMuscles []string) models.MuscleGroup {
	if len(primaryMuscles) == 0 {
		return models.Core
	}
	m := strings.ToLower(primaryMuscles[0])
	switch {
	case strings.Contains(m, "chest"):
		return models.Chest
	case strings.Contains(m, "back") || strings.Contains(m, "lats"):
		return models.Back
	case strings.Contains(m, "leg") || strings.Contains(m, "quad") ||
		strings.Contains(m, "hamstring") || strings.Contains(m, "calf"):
		return models.Legs
	case strings.Contains(m, "shoulder") || strings.Contains(m, "deltoid"):
		return models.Shoulders
	case strings.Contains(m, "bicep") || strings.Contains(m, "tricep") ||
		strings.Contains(m, "forearm") || strings.Contains(m, "arm"):
		return models.Arms
	case strings.Contains(m, "abdominals") || strings.Contains(m, "obliques") ||
		strings.Contains(m, "core"):
		return models.Core
	case strings.Contains(m, "glute"):
		return models.Glutes
	}
	return models.Core
}
