package catalog

import (
	"testing"

	"github.com/claude/ironlog/internal/models"
)

const sampleData = `[
	{"id": "bench-press", "name": "Bench Press", "equipment": "barbell",
	 "primaryMuscles": ["chest"], "secondaryMuscles": ["triceps"],
	 "images": ["Bench_Press/0.jpg"]},
	{"id": "barbell-row", "name": "Barbell Row",
	 "primaryMuscles": ["lats"]},
	{"id": "squat", "name": "Squat", "equipment": "barbell",
	 "primaryMuscles": ["quadriceps"]},
	{"id": "plank", "name": "Plank", "primaryMuscles": ["abdominals"]},
	{"id": "", "name": "invalid entry"}
]`

func load(t *testing.T) *Catalog {
	t.Helper()
	c, err := Parse([]byte(sampleData))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return c
}

func TestParseClassifiesAndSkipsInvalid(t *testing.T) {
	c := load(t)
	if c.Len() != 4 {
		t.Fatalf("Len = %d, want 4 (invalid entry skipped)", c.Len())
	}

	ex, ok := c.Get("bench-press")
	if !ok {
		t.Fatal("bench-press not found")
	}
	if ex.MuscleGroup != models.Chest {
		t.Errorf("muscle group = %v, want chest", ex.MuscleGroup)
	}
	if ex.ImageURL != imageBaseURL+"Bench_Press/0.jpg" {
		t.Errorf("image URL = %q", ex.ImageURL)
	}

	if ex, _ := c.Get("barbell-row"); ex.MuscleGroup != models.Back {
		t.Errorf("lats classified as %v, want back", ex.MuscleGroup)
	}
}

func TestFilter(t *testing.T) {
	c := load(t)

	if got := c.Filter("chest", ""); len(got) != 1 || got[0].ID != "bench-press" {
		t.Errorf("Filter(chest) = %v", got)
	}
	if got := c.Filter("all", "row"); len(got) != 1 || got[0].ID != "barbell-row" {
		t.Errorf("Filter(all, row) = %v", got)
	}
	if got := c.Filter("", "SQUAT"); len(got) != 1 {
		t.Errorf("case-insensitive query returned %d results", len(got))
	}
	if got := c.Filter("legs", "plank"); len(got) != 0 {
		t.Errorf("group and query both filter, got %v", got)
	}
}

func TestResolvePreservesOrderAndSkipsUnknown(t *testing.T) {
	c := load(t)
	exercises := c.Resolve([]string{"squat", "nope", "bench-press"})
	if len(exercises) != 2 {
		t.Fatalf("Resolve returned %d exercises, want 2", len(exercises))
	}
	if exercises[0].ID != "squat" || exercises[1].ID != "bench-press" {
		t.Errorf("order not preserved: %v", exercises)
	}
}
