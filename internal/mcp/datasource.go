package mcp

import (
	"context"

	"github.com/gymdesk/gymdesk/internal/dashboard"
	"github.com/gymdesk/gymdesk/internal/models"
)

// DataSource abstracts where MCP tools read derived data from. Months are
// 0-based. ServiceSource (in-process) and HTTPClient (remote GymDesk REST
// API) satisfy this interface.
type DataSource interface {
	Routines(ctx context.Context) ([]models.Routine, error)
	Calendar(ctx context.Context, year, month int) (dashboard.CalendarView, error)
	Attendance(ctx context.Context, year, month int) (models.AttendanceSummary, error)
}

// ServiceSource adapts a dashboard.Service to DataSource.
type ServiceSource struct {
	Service *dashboard.Service
}

// Compile-time check: ServiceSource satisfies DataSource.
var _ DataSource = ServiceSource{}

func (s ServiceSource) Routines(_ context.Context) ([]models.Routine, error) {
	return s.Service.Routines(), nil
}

func (s ServiceSource) Calendar(_ context.Context, year, month int) (dashboard.CalendarView, error) {
	return s.Service.Calendar(year, month), nil
}

func (s ServiceSource) Attendance(_ context.Context, year, month int) (models.AttendanceSummary, error) {
	return s.Service.Attendance(year, month), nil
}
