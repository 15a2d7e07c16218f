package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/claude/ironlog/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WorkoutID uuid.UUID `json:"workoutId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.app.Engine.Start(req.WorkoutID); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Engine.Snapshot())
}

func (s *Server) handleSessionSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Engine.Snapshot())
}

// handleSessionPatch updates session-level fields: the deload flag,
// session notes, and the current exercise's note. Absent fields are left
// unchanged.
func (s *Server) handleSessionPatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsDeload     *bool   `json:"isDeload"`
		Notes        *string `json:"notes"`
		ExerciseNote *string `json:"exerciseNote"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.IsDeload != nil {
		s.app.Engine.SetDeload(*req.IsDeload)
	}
	if req.Notes != nil {
		s.app.Engine.SetNotes(*req.Notes)
	}
	if req.ExerciseNote != nil {
		if err := s.app.Engine.SetExerciseNote(*req.ExerciseNote); err != nil {
			writeSessionError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.app.Engine.Snapshot())
}

func (s *Server) handleSessionAddSet(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Engine.AddSet(); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Engine.Snapshot())
}

func (s *Server) handleSessionUpdateSet(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set index"})
		return
	}
	var req struct {
		Field session.SetField `json:"field"`
		Value any              `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.app.Engine.UpdateSet(index, req.Field, req.Value); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Engine.Snapshot())
}

func (s *Server) handleSessionAdvance(w http.ResponseWriter, r *http.Request) {
	finished, err := s.app.Engine.Advance(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"finished": finished,
		"session":  s.app.Engine.Snapshot(),
	})
}

func (s *Server) handleSessionAddExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExerciseID string `json:"exerciseId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.app.Engine.AddExercise(req.ExerciseID); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Engine.Snapshot())
}

func (s *Server) handleSessionRemoveExercise(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Engine.RemoveExercise(chi.URLParam(r, "exerciseID")); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Engine.Snapshot())
}

func (s *Server) handleSessionReorderExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.app.Engine.ReorderExercise(req.From, req.To); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Engine.Snapshot())
}

func (s *Server) handleSessionSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.app.Engine.SelectExercise(req.Index); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Engine.Snapshot())
}

func (s *Server) handleSessionComplete(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Engine.Complete(r.Context()); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Engine.Snapshot())
}

func (s *Server) handleSessionAcknowledge(w http.ResponseWriter, r *http.Request) {
	s.app.Engine.Acknowledge()
	writeJSON(w, http.StatusOK, s.app.Engine.Snapshot())
}

func (s *Server) handleSessionAbandon(w http.ResponseWriter, r *http.Request) {
	s.app.Engine.Abandon()
	writeJSON(w, http.StatusOK, s.app.Engine.Snapshot())
}

// handleSessionEvents streams engine events (set completions, PRs,
// session completion) as server-sent events until the client disconnects.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	events, cancel := s.app.Engine.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.log.Error("encoding session event", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()
		}
	}
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrWorkoutNotFound),
		errors.Is(err, session.ErrExerciseNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, session.ErrNoActiveSession),
		errors.Is(err, session.ErrSessionActive):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, session.ErrInvalidSetIndex),
		errors.Is(err, session.ErrInvalidSetField),
		errors.Is(err, session.ErrInvalidSetValue):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
