// Package mcp exposes the training data over the Model Context
// Protocol: read-only tools and resources for assistants to query
// workouts, session history, records, and the exercise catalog.
package mcp

import (
	"log/slog"

	"github.com/claude/ironlog/internal/app"
	"github.com/claude/ironlog/internal/catalog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(userApp *app.UserSession, cat *catalog.Catalog, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("IronLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("IronLog strength training server. Query workout templates, session history, personal records, training stats, and the exercise catalog. All data is scoped to the authenticated user and read-only."),
	)

	h := &handlers{app: userApp, catalog: cat, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolGetWorkoutHistory, Handler: h.getWorkoutHistory},
		server.ServerTool{Tool: toolGetExerciseRecords, Handler: h.getExerciseRecords},
		server.ServerTool{Tool: toolGetTrainingStats, Handler: h.getTrainingStats},
		server.ServerTool{Tool: toolSearchExercises, Handler: h.searchExercises},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resDashboard, Handler: h.dashboard},
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	app     *app.UserSession
	catalog *catalog.Catalog
	log     *slog.Logger
}

// --- Resource definitions ---

var resDashboard = mcp.NewResource(
	"ironlog://dashboard",
	"Training Dashboard",
	mcp.WithResourceDescription("Overview stats: total sessions, all-time volume, and personal record count"),
	mcp.WithMIMEType("application/json"),
)

var resRecentSessions = mcp.NewResource(
	"ironlog://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("The five most recent completed workout sessions with totals and new records"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseCatalog = mcp.NewResource(
	"ironlog://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All known exercises with their muscle-group classification"),
	mcp.WithMIMEType("application/json"),
)
