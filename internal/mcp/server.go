package mcp

import (
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered. loc
// decides what "the current month" is when a tool call names none; nil
// means the local timezone.
func New(ds DataSource, version string, loc *time.Location, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("GymDesk", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("GymDesk gym data server. Parse routine texts, list routines, project recurring classes onto a month and summarise training attendance. Months are 1-based (1 = January)."),
	)

	if loc == nil {
		loc = time.Local
	}
	h := &handlers{ds: ds, log: log, loc: loc, now: time.Now}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolParseRoutineText, Handler: h.parseRoutineText},
		server.ServerTool{Tool: toolGetRoutines, Handler: h.getRoutines},
		server.ServerTool{Tool: toolGetClassCalendar, Handler: h.getClassCalendar},
		server.ServerTool{Tool: toolGetAttendanceSummary, Handler: h.getAttendanceSummary},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRoutines, Handler: h.routinesResource},
		server.ServerResource{Resource: resCurrentAttendance, Handler: h.currentAttendance},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
	loc *time.Location
	now func() time.Time
}

// today is the current time in the service timezone.
func (h *handlers) today() time.Time {
	return h.now().In(h.loc)
}

// --- Resource definitions ---

var resRoutines = mcp.NewResource(
	"gymdesk://routines",
	"Routines",
	mcp.WithResourceDescription("All routines, remote and locally created, with their exercises"),
	mcp.WithMIMEType("application/json"),
)

var resCurrentAttendance = mcp.NewResource(
	"gymdesk://attendance/current",
	"Current Attendance",
	mcp.WithResourceDescription("Days trained this month and the current streak"),
	mcp.WithMIMEType("application/json"),
)
