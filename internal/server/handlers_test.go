package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/ironlog/internal/app"
	"github.com/claude/ironlog/internal/catalog"
	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/session"
	"github.com/claude/ironlog/internal/storage"
)

const testCatalog = `[
	{"id": "bench-press", "name": "Bench Press", "primaryMuscles": ["chest"]},
	{"id": "squat", "name": "Barbell Squat", "primaryMuscles": ["quadriceps"]},
	{"id": "curl", "name": "Curl", "primaryMuscles": ["biceps"]}
]`

func newTestServer(t *testing.T) (*Server, *app.UserSession) {
	t.Helper()
	mem := storage.NewMemory()
	cat, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	userApp, err := app.NewUserSession(context.Background(), mem, cat, 1, 50, log)
	if err != nil {
		t.Fatalf("user session: %v", err)
	}
	return New(userApp, cat, "", log), userApp
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestWorkoutCRUD(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/workouts", map[string]any{
		"name": "Push Day", "description": "chest day", "estimatedDuration": 60,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	created := decode[models.Workout](t, rec)
	if created.Name != "Push Day" {
		t.Errorf("name = %q", created.Name)
	}

	// Name is required.
	if rec := doJSON(t, s, http.MethodPost, "/api/v1/workouts", map[string]any{}); rec.Code != http.StatusBadRequest {
		t.Errorf("empty name status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPatch, "/api/v1/workouts/"+created.ID.String(), map[string]any{
		"name": "Push Day A", "description": "",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d", rec.Code)
	}
	if got := decode[models.Workout](t, rec); got.Name != "Push Day A" {
		t.Errorf("updated name = %q", got.Name)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/workouts/"+created.ID.String()+"/exercises", map[string]any{
		"exerciseId": "bench-press",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add exercise status = %d", rec.Code)
	}
	if got := decode[models.Workout](t, rec); len(got.Exercises) != 1 {
		t.Errorf("exercises = %d, want 1", len(got.Exercises))
	}

	// Unknown catalog id.
	rec = doJSON(t, s, http.MethodPost, "/api/v1/workouts/"+created.ID.String()+"/exercises", map[string]any{
		"exerciseId": "nope",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown exercise status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/workouts", nil)
	if list := decode[[]models.Workout](t, rec); len(list) != 1 {
		t.Errorf("list = %d, want 1", len(list))
	}

	if rec := doJSON(t, s, http.MethodDelete, "/api/v1/workouts/"+created.ID.String(), nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodDelete, "/api/v1/workouts/"+created.ID.String(), nil); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodPatch, "/api/v1/workouts/not-a-uuid", map[string]any{"name": "x"}); rec.Code != http.StatusBadRequest {
		t.Errorf("bad uuid status = %d, want 400", rec.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s, userApp := newTestServer(t)

	created := decode[models.Workout](t, doJSON(t, s, http.MethodPost, "/api/v1/workouts", map[string]any{"name": "Push Day"}))
	doJSON(t, s, http.MethodPost, "/api/v1/workouts/"+created.ID.String()+"/exercises", map[string]any{"exerciseId": "bench-press"})

	rec := doJSON(t, s, http.MethodPost, "/api/v1/session/start", map[string]any{"workoutId": created.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body)
	}
	snap := decode[session.Snapshot](t, rec)
	if snap.Phase != session.PhaseActive || len(snap.Exercises) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}

	// Starting again conflicts.
	if rec := doJSON(t, s, http.MethodPost, "/api/v1/session/start", map[string]any{"workoutId": created.ID}); rec.Code != http.StatusConflict {
		t.Errorf("double start status = %d, want 409", rec.Code)
	}

	for _, body := range []map[string]any{
		{"field": "weight", "value": 80},
		{"field": "reps", "value": 8},
		{"field": "completed", "value": true},
	} {
		if rec := doJSON(t, s, http.MethodPatch, "/api/v1/session/sets/0", body); rec.Code != http.StatusOK {
			t.Fatalf("update set %v status = %d: %s", body, rec.Code, rec.Body)
		}
	}
	if rec := doJSON(t, s, http.MethodPatch, "/api/v1/session/sets/9", map[string]any{"field": "weight", "value": 1}); rec.Code != http.StatusBadRequest {
		t.Errorf("bad set index status = %d, want 400", rec.Code)
	}

	if rec := doJSON(t, s, http.MethodPost, "/api/v1/session/sets", nil); rec.Code != http.StatusOK {
		t.Errorf("add set status = %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodPatch, "/api/v1/session", map[string]any{"isDeload": true, "notes": "light day"}); rec.Code != http.StatusOK {
		t.Errorf("patch session status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/session/advance", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("advance status = %d: %s", rec.Code, rec.Body)
	}
	result := decode[struct {
		Finished bool             `json:"finished"`
		Session  session.Snapshot `json:"session"`
	}](t, rec)
	if !result.Finished {
		t.Error("advance on last exercise did not finish")
	}
	if result.Session.Phase != session.PhaseSummary || result.Session.Summary == nil {
		t.Fatalf("post-advance snapshot = %+v", result.Session)
	}
	if result.Session.Summary.TotalVolume != 640 {
		t.Errorf("TotalVolume = %v, want 640", result.Session.Summary.TotalVolume)
	}
	if !result.Session.Summary.IsDeload || result.Session.Summary.Notes != "light day" {
		t.Errorf("summary flags = %+v", result.Session.Summary)
	}

	if rec := doJSON(t, s, http.MethodPost, "/api/v1/session/acknowledge", nil); rec.Code != http.StatusOK {
		t.Errorf("acknowledge status = %d", rec.Code)
	}
	if snap := decode[session.Snapshot](t, doJSON(t, s, http.MethodGet, "/api/v1/session", nil)); snap.Phase != session.PhaseIdle {
		t.Errorf("phase = %v, want idle", snap.Phase)
	}

	userApp.Engine.Wait()
	if rec := doJSON(t, s, http.MethodGet, "/api/v1/history", nil); len(decode[[]models.WorkoutSessionLog](t, rec)) != 1 {
		t.Error("history not updated after completion")
	}
	if rec := doJSON(t, s, http.MethodGet, "/api/v1/records", nil); len(decode[[]models.ExerciseRecord](t, rec)) != 1 {
		t.Error("records not updated after completion")
	}
	stats := decode[app.Stats](t, doJSON(t, s, http.MethodGet, "/api/v1/stats", nil))
	if stats.TotalSessions != 1 || stats.TotalVolume != 640 || stats.RecordCount != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestSessionOperationsWithoutSession(t *testing.T) {
	s, _ := newTestServer(t)

	if rec := doJSON(t, s, http.MethodPost, "/api/v1/session/advance", nil); rec.Code != http.StatusConflict {
		t.Errorf("advance status = %d, want 409", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodPost, "/api/v1/session/sets", nil); rec.Code != http.StatusConflict {
		t.Errorf("add set status = %d, want 409", rec.Code)
	}
	// Abandon and snapshot are always safe.
	if rec := doJSON(t, s, http.MethodPost, "/api/v1/session/abandon", nil); rec.Code != http.StatusOK {
		t.Errorf("abandon status = %d, want 200", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodGet, "/api/v1/session", nil); rec.Code != http.StatusOK {
		t.Errorf("snapshot status = %d, want 200", rec.Code)
	}
}

func TestExerciseCatalogEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	all := decode[[]models.Exercise](t, doJSON(t, s, http.MethodGet, "/api/v1/exercises", nil))
	if len(all) != 3 {
		t.Errorf("all exercises = %d, want 3", len(all))
	}

	legs := decode[[]models.Exercise](t, doJSON(t, s, http.MethodGet, "/api/v1/exercises?group=legs", nil))
	if len(legs) != 1 || legs[0].ID != "squat" {
		t.Errorf("legs = %+v", legs)
	}

	byText := decode[[]models.Exercise](t, doJSON(t, s, http.MethodGet, "/api/v1/exercises?q=barbell", nil))
	if len(byText) != 1 || byText[0].ID != "squat" {
		t.Errorf("text filter = %+v", byText)
	}

	rec := doJSON(t, s, http.MethodGet, "/api/v1/exercises/bench-press", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get exercise status = %d", rec.Code)
	}
	if ex := decode[models.Exercise](t, rec); ex.MuscleGroup != models.Chest {
		t.Errorf("muscle group = %v, want chest", ex.MuscleGroup)
	}
	if rec := doJSON(t, s, http.MethodGet, "/api/v1/exercises/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown exercise status = %d, want 404", rec.Code)
	}
}
