// Package schedule expands recurring weekly class templates into the
// concrete dates of a calendar month.
package schedule

import (
	"time"

	"github.com/gymdesk/gymdesk/internal/models"
)

// DateLayout is the key format of a CalendarProjection.
const DateLayout = "2006-01-02"

// ProjectOccurrences returns, for the given year and 0-based month, every
// date on which a session recurs. A session recurs on the weekday of its
// ScheduleISO instant as seen in loc (nil means time.Local). Sessions with a
// missing or unparsable ScheduleISO are skipped. Within a date the input
// order of sessions is kept. Months outside 0..11 roll over into the
// neighbouring years.
func ProjectOccurrences(sessions []models.ClassSession, year, month int, loc *time.Location) models.CalendarProjection {
	proj := models.CalendarProjection{}

	first := monthStart(year, month)
	days := DaysInMonth(year, month)

	for _, s := range sessions {
		weekday, ok := sessionWeekday(s, loc)
		if !ok {
			continue
		}
		// First matching day, then every seven days.
		offset := (int(weekday) - int(first.Weekday()) + 7) % 7
		for d := 1 + offset; d <= days; d += 7 {
			key := first.AddDate(0, 0, d-1).Format(DateLayout)
			proj[key] = append(proj[key], s)
		}
	}
	return proj
}

// DaysInMonth returns the number of days of a 0-based month.
func DaysInMonth(year, month int) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday (0 = Sunday) of the first day of a
// 0-based month.
func FirstWeekday(year, month int) int {
	return int(monthStart(year, month).Weekday())
}

// SessionTime returns the start time of a class: the clock time of its
// ScheduleISO in loc, else its "HH:MM" hour field.
func SessionTime(s models.ClassSession, loc *time.Location) (hour, minute int, ok bool) {
	if s.ScheduleISO != nil {
		if t, ok := models.ParseTimestamp(*s.ScheduleISO, loc); ok {
			return t.Hour(), t.Minute(), true
		}
	}
	if s.Hour != nil {
		return parseClock(*s.Hour)
	}
	return 0, 0, false
}

func sessionWeekday(s models.ClassSession, loc *time.Location) (time.Weekday, bool) {
	if s.ScheduleISO == nil {
		return 0, false
	}
	t, ok := models.ParseTimestamp(*s.ScheduleISO, loc)
	if !ok {
		return 0, false
	}
	return t.Weekday(), true
}

// monthStart is computed in UTC: only the calendar date matters here.
func monthStart(year, month int) time.Time {
	return time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
}
