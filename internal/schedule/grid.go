package schedule

import (
	"time"

	"github.com/gymdesk/gymdesk/internal/models"
)

// Cell is one square of a month grid. Padding cells have Day == 0.
type Cell struct {
	Day      int                   `json:"day"`
	Date     string                `json:"date,omitempty"`
	Sessions []models.ClassSession `json:"sessions,omitempty"`
}

// MonthGrid lays a projection out as 7-column rows starting on Sunday. The
// first row is padded before day 1 and the last row is padded to a full week.
func MonthGrid(year, month int, proj models.CalendarProjection) [][]Cell {
	first := monthStart(year, month)
	days := DaysInMonth(year, month)

	var rows [][]Cell
	row := make([]Cell, 0, 7)
	for i := 0; i < FirstWeekday(year, month); i++ {
		row = append(row, Cell{})
	}

	for d := 1; d <= days; d++ {
		date := first.AddDate(0, 0, d-1).Format(DateLayout)
		row = append(row, Cell{Day: d, Date: date, Sessions: proj[date]})
		if len(row) == 7 {
			rows = append(rows, row)
			row = make([]Cell, 0, 7)
		}
	}

	if len(row) > 0 {
		for len(row) < 7 {
			row = append(row, Cell{})
		}
		rows = append(rows, row)
	}
	return rows
}

// MonthOf returns the normalised year and 0-based month, so callers can
// label a grid built from an out-of-range month.
func MonthOf(year, month int) (int, int) {
	t := monthStart(year, month)
	return t.Year(), int(t.Month() - time.January)
}
