package app

import (
	"context"
	"sync"

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/storage"
	"github.com/google/uuid"
)

// History is the in-memory view of a user's recent session logs,
// most-recent-started first. New logs are prepended as sessions finish;
// the persisted copy is the session engine's concern.
type History struct {
	db     storage.Store
	userID int
	limit  int

	mu   sync.Mutex
	logs []models.WorkoutSessionLog
}

// NewHistory creates an empty history capped at limit entries.
func NewHistory(db storage.Store, userID, limit int) *History {
	return &History{db: db, userID: userID, limit: limit}
}

// Load replaces the in-memory logs with the persisted ones.
func (h *History) Load(ctx context.Context) error {
	logs, err := h.db.ListSessionLogs(ctx, h.userID, h.limit)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.logs = logs
	h.mu.Unlock()
	return nil
}

// All returns the logs, most recent first.
func (h *History) All() []models.WorkoutSessionLog {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]models.WorkoutSessionLog, len(h.logs))
	copy(out, h.logs)
	return out
}

// LatestFor returns the most recently started session for a workout.
func (h *History) LatestFor(workoutID uuid.UUID) (models.WorkoutSessionLog, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	best := -1
	for i, l := range h.logs {
		if l.WorkoutID != workoutID {
			continue
		}
		if best < 0 || l.StartedAt.After(h.logs[best].StartedAt) {
			best = i
		}
	}
	if best < 0 {
		return models.WorkoutSessionLog{}, false
	}
	return h.logs[best], true
}

// Append prepends a finished session.
func (h *History) Append(log models.WorkoutSessionLog) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.logs = append([]models.WorkoutSessionLog{log}, h.logs...)
	if h.limit > 0 && len(h.logs) > h.limit {
		h.logs = h.logs[:h.limit]
	}
}

// Count returns the number of loaded logs.
func (h *History) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.logs)
}

// TotalVolume sums the total volume across all loaded logs.
func (h *History) TotalVolume() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	var total float64
	for _, l := range h.logs {
		total += l.TotalVolume
	}
	return total
}
