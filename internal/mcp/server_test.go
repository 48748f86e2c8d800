package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gymdesk/gymdesk/internal/dashboard"
	"github.com/gymdesk/gymdesk/internal/models"
)

// fakeSource records the month it was asked for.
type fakeSource struct {
	routines []models.Routine
	summary  models.AttendanceSummary
	err      error
	gotYear  int
	gotMonth int
}

func (f *fakeSource) Routines(context.Context) ([]models.Routine, error) {
	return f.routines, f.err
}

func (f *fakeSource) Calendar(_ context.Context, year, month int) (dashboard.CalendarView, error) {
	f.gotYear, f.gotMonth = year, month
	return dashboard.NewCalendarView(nil, year, month, time.UTC), f.err
}

func (f *fakeSource) Attendance(_ context.Context, year, month int) (models.AttendanceSummary, error) {
	f.gotYear, f.gotMonth = year, month
	return f.summary, f.err
}

func newTestHandlers(ds DataSource) *handlers {
	return &handlers{
		ds:  ds,
		log: slog.Default(),
		loc: time.UTC,
		now: func() time.Time { return time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC) },
	}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

// resultText returns the first text content of a tool result.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range res.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			return tc.Text
		}
	}
	t.Fatal("result has no text content")
	return ""
}

func TestParseRoutineTextTool(t *testing.T) {
	h := newTestHandlers(&fakeSource{})
	res, err := h.parseRoutineText(context.Background(), callRequest(map[string]any{
		"text": "Rutina generada:\n1) Press banca 4x10 | Descanso: 90s\n2) Remo 3x12",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}

	var out struct {
		Exercises []models.Exercise `json:"exercises"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Exercises) != 2 || out.Exercises[0].Name != "Press banca" {
		t.Errorf("exercises = %+v", out.Exercises)
	}
}

func TestParseRoutineTextRequiresText(t *testing.T) {
	h := newTestHandlers(&fakeSource{})
	res, err := h.parseRoutineText(context.Background(), callRequest(map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected tool error for missing text")
	}
}

func TestGetRoutinesFilters(t *testing.T) {
	src := &fakeSource{routines: []models.Routine{
		{Name: "Fuerza Tren Inferior", Status: "activa"},
		{Name: "Cardio", Status: "pausada"},
		{Name: "Fuerza Tren Superior", Status: "pausada"},
	}}
	h := newTestHandlers(src)

	res, err := h.getRoutines(context.Background(), callRequest(map[string]any{"status": "Pausada", "name": "fuerza"}))
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Routines []models.Routine `json:"routines"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Routines) != 1 || out.Routines[0].Name != "Fuerza Tren Superior" {
		t.Errorf("routines = %+v", out.Routines)
	}
}

func TestGetRoutinesSourceError(t *testing.T) {
	h := newTestHandlers(&fakeSource{err: errors.New("down")})
	res, err := h.getRoutines(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected tool error")
	}
}

// TestCalendarMonthArgs verifies the 1-based month argument reaches the
// data source as a 0-based month, and defaults to the current month.
func TestCalendarMonthArgs(t *testing.T) {
	src := &fakeSource{}
	h := newTestHandlers(src)

	if _, err := h.getClassCalendar(context.Background(), callRequest(map[string]any{"year": 2024.0, "month": 3.0})); err != nil {
		t.Fatal(err)
	}
	if src.gotYear != 2024 || src.gotMonth != 2 {
		t.Errorf("asked for %d/%d, want 2024/2", src.gotYear, src.gotMonth)
	}

	if _, err := h.getClassCalendar(context.Background(), callRequest(nil)); err != nil {
		t.Fatal(err)
	}
	if src.gotYear != 2025 || src.gotMonth != 1 {
		t.Errorf("default month = %d/%d, want 2025/1", src.gotYear, src.gotMonth)
	}

	res, err := h.getClassCalendar(context.Background(), callRequest(map[string]any{"month": 13.0}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected tool error for month 13")
	}
}

// TestDefaultMonthFollowsServiceTimezone verifies the default month is taken
// in the service timezone, not the host clock's.
func TestDefaultMonthFollowsServiceTimezone(t *testing.T) {
	src := &fakeSource{}
	h := newTestHandlers(src)
	h.loc = time.FixedZone("EET", 2*60*60)
	h.now = func() time.Time { return time.Date(2025, 2, 28, 23, 30, 0, 0, time.UTC) }

	if _, err := h.getClassCalendar(context.Background(), callRequest(nil)); err != nil {
		t.Fatal(err)
	}
	if src.gotYear != 2025 || src.gotMonth != 2 {
		t.Errorf("default month = %d/%d, want 2025/2", src.gotYear, src.gotMonth)
	}

	var req mcp.ReadResourceRequest
	req.Params.URI = "gymdesk://attendance/current"
	contents, err := h.currentAttendance(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(contents[0].(mcp.TextResourceContents).Text), &out); err != nil {
		t.Fatal(err)
	}
	if out["month"] != "2025-03" {
		t.Errorf("resource month = %v, want 2025-03", out["month"])
	}
}

func TestAttendanceTool(t *testing.T) {
	src := &fakeSource{summary: models.AttendanceSummary{DaysTrainedInMonth: 5, CurrentStreakDays: 3}}
	h := newTestHandlers(src)

	res, err := h.getAttendanceSummary(context.Background(), callRequest(map[string]any{"month": 1.0}))
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatal(err)
	}
	if out["daysTrainedInMonth"] != 5.0 || out["currentStreakDays"] != 3.0 || out["month"] != 1.0 {
		t.Errorf("summary = %v", out)
	}
	if src.gotMonth != 0 {
		t.Errorf("month = %d, want 0", src.gotMonth)
	}
}

func TestCurrentAttendanceResource(t *testing.T) {
	src := &fakeSource{summary: models.AttendanceSummary{DaysTrainedInMonth: 2, CurrentStreakDays: 1}}
	h := newTestHandlers(src)

	var req mcp.ReadResourceRequest
	req.Params.URI = "gymdesk://attendance/current"
	contents, err := h.currentAttendance(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents[0] = %T", contents[0])
	}
	if text.URI != req.Params.URI {
		t.Errorf("uri = %q", text.URI)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(text.Text), &out); err != nil {
		t.Fatal(err)
	}
	if out["month"] != "2025-02" || out["daysTrainedInMonth"] != 2.0 {
		t.Errorf("resource = %v", out)
	}
}

func TestNewRegistersEverything(t *testing.T) {
	s := New(&fakeSource{}, "test", nil, slog.Default())
	if s == nil {
		t.Fatal("New returned nil")
	}
}
