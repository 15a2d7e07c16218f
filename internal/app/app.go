// Package app wires the per-user application context: one object that
// owns the user's workouts, history, records, and session engine, with
// an explicit create-on-login / close-on-logout lifecycle instead of
// ambient global state.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/ironlog/internal/catalog"
	"github.com/claude/ironlog/internal/records"
	"github.com/claude/ironlog/internal/session"
	"github.com/claude/ironlog/internal/storage"
	"github.com/claude/ironlog/internal/workouts"
)

// UserSession is the explicit per-user context. It loads the user's data
// once on creation; the engine and services mutate it for the lifetime
// of the login.
type UserSession struct {
	UserID   int
	Workouts *workouts.Service
	History  *History
	Records  *records.Store
	Engine   *session.Engine

	log *slog.Logger
}

// Stats is the dashboard overview row.
type Stats struct {
	TotalSessions int     `json:"totalSessions"`
	TotalVolume   float64 `json:"totalVolume"`
	RecordCount   int     `json:"recordCount"`
}

// NewUserSession loads a user's workouts, recent history, and records
// and wires the session engine over them. A load failure is returned to
// the caller; it is a login-time error, not a mid-session one.
func NewUserSession(ctx context.Context, db storage.Store, cat *catalog.Catalog,
	userID, historyLimit int, log *slog.Logger) (*UserSession, error) {
	us := &UserSession{
		UserID:   userID,
		Workouts: workouts.New(db, userID, log),
		History:  NewHistory(db, userID, historyLimit),
		Records:  records.New(db, userID, log),
		log:      log,
	}
	if err := us.Workouts.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading workouts: %w", err)
	}
	if err := us.History.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading session history: %w", err)
	}
	if err := us.Records.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading exercise records: %w", err)
	}
	us.Engine = session.New(db, userID, cat, us.Records, us.Workouts, us.History, log)
	return us, nil
}

// Stats returns the dashboard overview numbers.
func (us *UserSession) Stats() Stats {
	return Stats{
		TotalSessions: us.History.Count(),
		TotalVolume:   us.History.TotalVolume(),
		RecordCount:   us.Records.Len(),
	}
}

// Close abandons any active session and drains background persistence.
func (us *UserSession) Close() {
	us.Engine.Abandon()
	us.Engine.Wait()
	us.Workouts.Wait()
}
