package dashboard

import (
	"time"

	"github.com/gymdesk/gymdesk/internal/models"
	"github.com/gymdesk/gymdesk/internal/routine"
	"github.com/gymdesk/gymdesk/internal/schedule"
)

// RoutinesFromRecords converts backend routine records.
func RoutinesFromRecords(records []models.RawRoutine) []models.Routine {
	out := make([]models.Routine, 0, len(records))
	for _, rec := range records {
		out = append(out, routine.RoutineFromRecord(rec))
	}
	return out
}

// ClassesFromRecords converts backend class records.
func ClassesFromRecords(records []models.RawClass) []models.ClassSession {
	out := make([]models.ClassSession, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.ToClassSession())
	}
	return out
}

// CalendarView is a projected month with its grid layout. Month is 1-based
// here because it is served to clients as is.
type CalendarView struct {
	Year         int                       `json:"year"`
	Month        int                       `json:"month"`
	DaysInMonth  int                       `json:"daysInMonth"`
	FirstWeekday int                       `json:"firstWeekday"`
	Days         models.CalendarProjection `json:"days"`
	Grid         [][]schedule.Cell         `json:"grid"`
}

// NewCalendarView projects classes onto a 0-based month.
func NewCalendarView(classes []models.ClassSession, year, month int, loc *time.Location) CalendarView {
	year, month = schedule.MonthOf(year, month)
	proj := schedule.ProjectOccurrences(classes, year, month, loc)
	return CalendarView{
		Year:         year,
		Month:        month + 1,
		DaysInMonth:  schedule.DaysInMonth(year, month),
		FirstWeekday: schedule.FirstWeekday(year, month),
		Days:         proj,
		Grid:         schedule.MonthGrid(year, month, proj),
	}
}
