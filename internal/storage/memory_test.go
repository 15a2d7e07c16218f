package storage

import (
	"context"
	"testing"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
)

func TestMemoryGetOrCreateUser(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.GetOrCreateUser(ctx, "local", "Local User")
	if err != nil {
		t.Fatal(err)
	}
	again, err := m.GetOrCreateUser(ctx, "local", "Local User")
	if err != nil {
		t.Fatal(err)
	}
	if id != again {
		t.Errorf("ids differ: %d vs %d", id, again)
	}
	other, _ := m.GetOrCreateUser(ctx, "other", "Other")
	if other == id {
		t.Error("distinct logins share an id")
	}
}

func TestMemoryWorkoutOrdering(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		w := models.Workout{ID: uuid.New(), Name: "w", CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := m.InsertWorkout(ctx, 1, w); err != nil {
			t.Fatal(err)
		}
	}

	list, err := m.ListWorkouts(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.After(list[i-1].CreatedAt) {
			t.Fatal("workouts not newest-created first")
		}
	}
}

func TestMemoryUpdatePreservesIdentity(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	id := uuid.New()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := m.InsertWorkout(ctx, 1, models.Workout{ID: id, Name: "old", CreatedAt: created}); err != nil {
		t.Fatal(err)
	}
	if err := m.UpdateWorkout(ctx, id, models.Workout{ID: id, Name: "new"}); err != nil {
		t.Fatal(err)
	}

	list, _ := m.ListWorkouts(ctx, 1)
	if list[0].Name != "new" {
		t.Errorf("name = %q, want new", list[0].Name)
	}
	if !list[0].CreatedAt.Equal(created) {
		t.Error("update clobbered created-at")
	}
}

func TestMemorySessionLogWriteOnce(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	log := models.WorkoutSessionLog{ID: uuid.New(), StartedAt: time.Now()}

	if err := m.InsertSessionLog(ctx, 1, log); err != nil {
		t.Fatal(err)
	}
	if err := m.InsertSessionLog(ctx, 1, log); err == nil {
		t.Error("duplicate session log accepted")
	}
}

func TestMemorySessionLogLimit(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		log := models.WorkoutSessionLog{ID: uuid.New(), StartedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := m.InsertSessionLog(ctx, 1, log); err != nil {
			t.Fatal(err)
		}
	}

	logs, err := m.ListSessionLogs(ctx, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 3 {
		t.Fatalf("len = %d, want 3", len(logs))
	}
	if !logs[0].StartedAt.Equal(base.Add(4 * time.Hour)) {
		t.Error("logs not most-recent-started first")
	}
}

func TestMemoryUpsertRecordIdempotent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	rec := models.ExerciseRecord{ExerciseID: "bench-press", BestVolume: 640}
	if err := m.UpsertExerciseRecord(ctx, 1, rec); err != nil {
		t.Fatal(err)
	}
	rec.BestVolume = 700
	if err := m.UpsertExerciseRecord(ctx, 1, rec); err != nil {
		t.Fatal(err)
	}

	recs, err := m.ListExerciseRecords(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].BestVolume != 700 {
		t.Errorf("records = %+v, want one with BestVolume 700", recs)
	}
}

func TestMemoryFailNext(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.FailNext = true
	if err := m.InsertWorkout(ctx, 1, models.Workout{ID: uuid.New()}); err == nil {
		t.Fatal("armed failure did not fire")
	}
	// The failure is one-shot.
	if err := m.InsertWorkout(ctx, 1, models.Workout{ID: uuid.New()}); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
}
