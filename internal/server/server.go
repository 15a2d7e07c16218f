package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/ironlog/internal/app"
	"github.com/claude/ironlog/internal/catalog"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	app     *app.UserSession
	catalog *catalog.Catalog
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey
// disables auth; access control is then the listener's concern.
func New(userApp *app.UserSession, cat *catalog.Catalog, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		app:     userApp,
		catalog: cat,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(APIKeyAuth(s.apiKey))
		}

		// Workout templates
		r.Get("/workouts", s.handleListWorkouts)
		r.Post("/workouts", s.handleCreateWorkout)
		r.Patch("/workouts/{id}", s.handleUpdateWorkout)
		r.Delete("/workouts/{id}", s.handleDeleteWorkout)
		r.Post("/workouts/{id}/exercises", s.handleAddWorkoutExercise)
		r.Delete("/workouts/{id}/exercises/{exerciseID}", s.handleRemoveWorkoutExercise)
		r.Post("/workouts/{id}/exercises/reorder", s.handleReorderWorkoutExercise)

		// Active session
		r.Post("/session/start", s.handleSessionStart)
		r.Get("/session", s.handleSessionSnapshot)
		r.Patch("/session", s.handleSessionPatch)
		r.Post("/session/sets", s.handleSessionAddSet)
		r.Patch("/session/sets/{index}", s.handleSessionUpdateSet)
		r.Post("/session/advance", s.handleSessionAdvance)
		r.Post("/session/exercises", s.handleSessionAddExercise)
		r.Delete("/session/exercises/{exerciseID}", s.handleSessionRemoveExercise)
		r.Post("/session/exercises/reorder", s.handleSessionReorderExercise)
		r.Post("/session/select", s.handleSessionSelect)
		r.Post("/session/complete", s.handleSessionComplete)
		r.Post("/session/acknowledge", s.handleSessionAcknowledge)
		r.Post("/session/abandon", s.handleSessionAbandon)
		r.Get("/session/events", s.handleSessionEvents)

		// History, records, dashboard
		r.Get("/history", s.handleHistory)
		r.Get("/records", s.handleRecords)
		r.Get("/stats", s.handleStats)

		// Exercise catalog
		r.Get("/exercises", s.handleSearchExercises)
		r.Get("/exercises/{id}", s.handleGetExercise)
	})
}
