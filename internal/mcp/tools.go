package mcp

import (
	"context"
	"strconv"
	"strings"

	"github.com/claude/ironlog/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List the user's workout templates with their exercises, estimated duration, and last-performed date."),
)

var toolGetWorkoutHistory = mcp.NewTool("get_workout_history",
	mcp.WithDescription("Retrieve completed workout sessions, most recent first. Each session includes duration, total volume, sets completed, per-exercise set data, and any personal records set."),
	mcp.WithString("workout", mcp.Description("Filter by workout name (partial match, e.g. 'push day')")),
	mcp.WithString("limit", mcp.Description("Maximum number of sessions to return. Defaults to 10.")),
)

var toolGetExerciseRecords = mcp.NewTool("get_exercise_records",
	mcp.WithDescription("Personal records per exercise: best single-set volume, best set (weight x reps), estimated one-rep max, and the dates achieved."),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (partial match, e.g. 'bench press')")),
)

var toolGetTrainingStats = mcp.NewTool("get_training_stats",
	mcp.WithDescription("Overview stats: total completed sessions, all-time training volume, and personal record count."),
)

var toolSearchExercises = mcp.NewTool("search_exercises",
	mcp.WithDescription("Search the exercise catalog by muscle group and free text."),
	mcp.WithString("group", mcp.Description("Muscle group filter"), mcp.Enum("all", "chest", "back", "legs", "shoulders", "arms", "core", "glutes")),
	mcp.WithString("query", mcp.Description("Free-text filter matched against exercise names")),
)

// --- Tool handlers ---

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(h.app.Workouts.List())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := 10
	if v := req.GetString("limit", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return mcp.NewToolResultError("limit must be a positive integer"), nil
		}
		limit = n
	}
	nameFilter := strings.ToLower(req.GetString("workout", ""))

	var out []models.WorkoutSessionLog
	for _, log := range h.app.History.All() {
		if nameFilter != "" && !strings.Contains(strings.ToLower(log.WorkoutName), nameFilter) {
			continue
		}
		out = append(out, log)
		if len(out) == limit {
			break
		}
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := strings.ToLower(req.GetString("exercise", ""))

	var out []models.ExerciseRecord
	for _, rec := range h.app.Records.All() {
		if filter != "" && !strings.Contains(strings.ToLower(rec.ExerciseName), filter) {
			continue
		}
		out = append(out, rec)
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(h.app.Stats())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) searchExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group := req.GetString("group", "")
	query := req.GetString("query", "")

	result, err := mcp.NewToolResultJSON(h.catalog.Filter(group, query))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
