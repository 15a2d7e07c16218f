package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/ironlog/internal/workouts"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Workouts.List())
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name              string `json:"name"`
		Description       string `json:"description"`
		EstimatedDuration int    `json:"estimatedDuration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}
	created := s.app.Workouts.Create(req.Name, req.Description, req.EstimatedDuration)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := workoutID(w, r)
	if !ok {
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.app.Workouts.UpdateDetails(id, req.Name, req.Description); err != nil {
		writeWorkoutError(w, err)
		return
	}
	workout, _ := s.app.Workouts.Get(id)
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := workoutID(w, r)
	if !ok {
		return
	}
	if err := s.app.Workouts.Delete(id); err != nil {
		writeWorkoutError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := workoutID(w, r)
	if !ok {
		return
	}
	var req struct {
		ExerciseID string `json:"exerciseId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	ex, found := s.catalog.Get(req.ExerciseID)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}
	if err := s.app.Workouts.AddExercise(id, ex); err != nil {
		writeWorkoutError(w, err)
		return
	}
	workout, _ := s.app.Workouts.Get(id)
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleRemoveWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := workoutID(w, r)
	if !ok {
		return
	}
	if err := s.app.Workouts.RemoveExercise(id, chi.URLParam(r, "exerciseID")); err != nil {
		writeWorkoutError(w, err)
		return
	}
	workout, _ := s.app.Workouts.Get(id)
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleReorderWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := workoutID(w, r)
	if !ok {
		return
	}
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.app.Workouts.ReorderExercise(id, req.From, req.To); err != nil {
		writeWorkoutError(w, err)
		return
	}
	workout, _ := s.app.Workouts.Get(id)
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.History.All())
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Records.All())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Stats())
}

func (s *Server) handleSearchExercises(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("group")
	query := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, s.catalog.Filter(group, query))
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	ex, found := s.catalog.Get(chi.URLParam(r, "id"))
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

// workoutID parses the {id} route parameter, writing a 400 on failure.
func workoutID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return uuid.Nil, false
	}
	return id, true
}

func writeWorkoutError(w http.ResponseWriter, err error) {
	if errors.Is(err, workouts.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
