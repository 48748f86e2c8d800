package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gymdesk/gymdesk/internal/models"
	"github.com/gymdesk/gymdesk/internal/routine"
)

// monthArgs reads the optional 1-based year/month arguments, defaulting to
// the current month, and returns a 0-based month.
func (h *handlers) monthArgs(req mcp.CallToolRequest) (year, month int, err error) {
	now := h.today()
	year = req.GetInt("year", now.Year())
	m := req.GetInt("month", int(now.Month()))
	if m < 1 || m > 12 {
		return 0, 0, fmt.Errorf("month must be between 1 and 12, got %d", m)
	}
	return year, m - 1, nil
}

// --- Tool definitions ---

var toolParseRoutineText = mcp.NewTool("parse_routine_text",
	mcp.WithDescription("Extract exercises (name, set scheme like 4x10, rest like 90s) from a free-text routine. Header lines such as 'Objetivo:' or '-- Día 1 --' are ignored."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Routine text, one exercise per line (e.g. '1) Press banca 4x10 | Descanso: 90s')")),
)

var toolGetRoutines = mcp.NewTool("get_routines",
	mcp.WithDescription("List routines merged from the gym backend and the local fallback copy."),
	mcp.WithString("status", mcp.Description("Only routines with this status (e.g. 'activa')")),
	mcp.WithString("name", mcp.Description("Only routines whose name contains this text (case-insensitive)")),
)

var toolGetClassCalendar = mcp.NewTool("get_class_calendar",
	mcp.WithDescription("Project the weekly classes onto every date of a month. Returns the classes per date and a 7-column grid starting on Sunday."),
	mcp.WithNumber("year", mcp.Description("Year. Defaults to the current year.")),
	mcp.WithNumber("month", mcp.Description("Month 1-12. Defaults to the current month."), mcp.Min(1), mcp.Max(12)),
)

var toolGetAttendanceSummary = mcp.NewTool("get_attendance_summary",
	mcp.WithDescription("Days with completed exercises in a month, and the current streak of consecutive training days ending at the latest training day."),
	mcp.WithNumber("year", mcp.Description("Year. Defaults to the current year.")),
	mcp.WithNumber("month", mcp.Description("Month 1-12. Defaults to the current month."), mcp.Min(1), mcp.Max(12)),
)

// --- Tool handlers ---

func (h *handlers) parseRoutineText(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text parameter is required"), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"exercises": routine.ParseExercises(text),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRoutines(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	routines, err := h.ds.Routines(ctx)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	status := strings.TrimSpace(req.GetString("status", ""))
	name := strings.ToLower(strings.TrimSpace(req.GetString("name", "")))
	filtered := make([]models.Routine, 0, len(routines))
	for _, r := range routines {
		if status != "" && !strings.EqualFold(r.Status, status) {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(r.Name), name) {
			continue
		}
		filtered = append(filtered, r)
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"routines": filtered,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getClassCalendar(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	year, month, err := h.monthArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	view, err := h.ds.Calendar(ctx, year, month)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(view)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getAttendanceSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	year, month, err := h.monthArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary, err := h.ds.Attendance(ctx, year, month)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"year":               year,
		"month":              month + 1,
		"daysTrainedInMonth": summary.DaysTrainedInMonth,
		"currentStreakDays":  summary.CurrentStreakDays,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
