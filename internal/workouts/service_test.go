package workouts

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/storage"
	"github.com/google/uuid"
)

func newService(t *testing.T) (*Service, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(mem, 1, log), mem
}

func exercise(id string) models.Exercise {
	return models.Exercise{ID: id, Name: id, MuscleGroup: models.Chest}
}

func TestCreateAndList(t *testing.T) {
	svc, mem := newService(t)

	a := svc.Create("Push Day", "chest and shoulders", 60)
	b := svc.Create("Pull Day", "", 45)

	list := svc.List()
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != b.ID || list[1].ID != a.ID {
		t.Error("list not newest-created first")
	}
	if list[1].Name != "Push Day" || list[1].EstimatedDuration != 60 {
		t.Errorf("workout = %+v", list[1])
	}
	if list[0].Exercises == nil {
		t.Error("new workout has nil exercise list")
	}

	svc.Wait()
	persisted, err := mem.ListWorkouts(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(persisted) != 2 {
		t.Errorf("persisted = %d, want 2", len(persisted))
	}
}

func TestGet(t *testing.T) {
	svc, _ := newService(t)
	w := svc.Create("Push Day", "", 0)

	if got, ok := svc.Get(w.ID); !ok || got.Name != "Push Day" {
		t.Errorf("Get = %+v, %v", got, ok)
	}
	if _, ok := svc.Get(uuid.New()); ok {
		t.Error("Get returned a workout for an unknown id")
	}
}

func TestUpdateDetails(t *testing.T) {
	svc, mem := newService(t)
	w := svc.Create("Push Day", "", 0)

	if err := svc.UpdateDetails(w.ID, "Push Day A", "heavy variant"); err != nil {
		t.Fatal(err)
	}
	got, _ := svc.Get(w.ID)
	if got.Name != "Push Day A" || got.Description != "heavy variant" {
		t.Errorf("workout = %+v", got)
	}
	if err := svc.UpdateDetails(uuid.New(), "x", ""); err != ErrNotFound {
		t.Errorf("unknown id = %v, want ErrNotFound", err)
	}

	svc.Wait()
	persisted, _ := mem.ListWorkouts(context.Background(), 1)
	if persisted[0].Name != "Push Day A" {
		t.Error("update not persisted")
	}
}

func TestExerciseMutations(t *testing.T) {
	svc, _ := newService(t)
	w := svc.Create("Full Body", "", 0)

	for _, id := range []string{"bench-press", "squat", "deadlift"} {
		if err := svc.AddExercise(w.ID, exercise(id)); err != nil {
			t.Fatal(err)
		}
	}
	// Duplicate add is a silent no-op.
	if err := svc.AddExercise(w.ID, exercise("squat")); err != nil {
		t.Fatal(err)
	}
	got, _ := svc.Get(w.ID)
	if len(got.Exercises) != 3 {
		t.Fatalf("exercises = %d, want 3", len(got.Exercises))
	}

	if err := svc.ReorderExercise(w.ID, 0, 2); err != nil {
		t.Fatal(err)
	}
	got, _ = svc.Get(w.ID)
	if got.Exercises[2].ID != "bench-press" || got.Exercises[0].ID != "squat" {
		t.Errorf("order = %v %v %v", got.Exercises[0].ID, got.Exercises[1].ID, got.Exercises[2].ID)
	}
	// Out-of-bounds reorder is a no-op.
	if err := svc.ReorderExercise(w.ID, 0, 9); err != nil {
		t.Fatal(err)
	}
	got, _ = svc.Get(w.ID)
	if got.Exercises[0].ID != "squat" {
		t.Error("out-of-bounds reorder mutated the list")
	}

	if err := svc.RemoveExercise(w.ID, "deadlift"); err != nil {
		t.Fatal(err)
	}
	// Absent exercise is a silent no-op.
	if err := svc.RemoveExercise(w.ID, "nope"); err != nil {
		t.Fatal(err)
	}
	got, _ = svc.Get(w.ID)
	if len(got.Exercises) != 2 {
		t.Errorf("exercises = %d, want 2", len(got.Exercises))
	}
}

func TestMarkPerformed(t *testing.T) {
	svc, _ := newService(t)
	w := svc.Create("Push Day", "", 0)
	_ = svc.AddExercise(w.ID, exercise("bench-press"))

	at := time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC)
	worked := []models.Exercise{exercise("squat"), exercise("curl")}
	svc.MarkPerformed(w.ID, worked, at)

	got, _ := svc.Get(w.ID)
	if got.LastPerformed == nil || !got.LastPerformed.Equal(at) {
		t.Errorf("LastPerformed = %v, want %v", got.LastPerformed, at)
	}
	if len(got.Exercises) != 2 || got.Exercises[0].ID != "squat" {
		t.Errorf("exercises = %+v, want session's list", got.Exercises)
	}

	// An empty worked list updates the timestamp but keeps the template.
	later := at.Add(48 * time.Hour)
	svc.MarkPerformed(w.ID, nil, later)
	got, _ = svc.Get(w.ID)
	if !got.LastPerformed.Equal(later) {
		t.Errorf("LastPerformed = %v, want %v", got.LastPerformed, later)
	}
	if len(got.Exercises) != 2 {
		t.Error("empty session list overwrote the template exercises")
	}
}

func TestDelete(t *testing.T) {
	svc, mem := newService(t)
	w := svc.Create("Push Day", "", 0)
	svc.Wait()

	if err := svc.Delete(w.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(w.ID); err != ErrNotFound {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
	if len(svc.List()) != 0 {
		t.Error("workout still listed after delete")
	}

	svc.Wait()
	persisted, _ := mem.ListWorkouts(context.Background(), 1)
	if len(persisted) != 0 {
		t.Error("delete not persisted")
	}
}

func TestMove(t *testing.T) {
	svc, _ := newService(t)
	a := svc.Create("A", "", 0)
	b := svc.Create("B", "", 0)
	c := svc.Create("C", "", 0)
	// List is [c b a].

	svc.Move(0, 2)
	list := svc.List()
	if list[0].ID != b.ID || list[1].ID != a.ID || list[2].ID != c.ID {
		t.Errorf("order = %v %v %v", list[0].Name, list[1].Name, list[2].Name)
	}
	// Out of bounds is a no-op.
	svc.Move(0, 9)
	if got := svc.List(); got[0].ID != b.ID {
		t.Error("out-of-bounds move mutated the list")
	}
}

func TestLoad(t *testing.T) {
	svc, mem := newService(t)
	svc.Create("Push Day", "", 0)
	svc.Wait()

	fresh := New(mem, 1, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := fresh.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(fresh.List()) != 1 {
		t.Errorf("loaded = %d, want 1", len(fresh.List()))
	}
}

func TestPersistenceFailureKeepsLocalState(t *testing.T) {
	svc, mem := newService(t)
	mem.FailNext = true
	w := svc.Create("Push Day", "", 0)
	svc.Wait()

	if _, ok := svc.Get(w.ID); !ok {
		t.Error("local state rolled back on storage failure")
	}
	persisted, _ := mem.ListWorkouts(context.Background(), 1)
	if len(persisted) != 0 {
		t.Error("insert unexpectedly persisted despite failure")
	}
}
