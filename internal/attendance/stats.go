// Package attendance derives training statistics from exercise completions.
// Every computation works on calendar days in a reference location, never
// on UTC instants.
package attendance

import (
	"strings"
	"time"

	"github.com/gymdesk/gymdesk/internal/models"
)

const dayLayout = "2006-01-02"

// DayKey returns the "YYYY-MM-DD" calendar day of t in loc (nil means
// time.Local).
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(dayLayout)
}

// DaysTrainedInMonth counts the distinct days of the given year and 0-based
// month that have at least one completion.
func DaysTrainedInMonth(completions []time.Time, year, month int, loc *time.Location) int {
	start := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	prefix := start.Format("2006-01-")

	n := 0
	for key := range dayKeys(completions, loc) {
		if strings.HasPrefix(key, prefix) {
			n++
		}
	}
	return n
}

// CurrentStreak returns the number of consecutive days with completions
// that end at the most recent completion day. The streak is anchored at
// that day, not at today.
func CurrentStreak(completions []time.Time, loc *time.Location) int {
	days := dayKeys(completions, loc)
	if len(days) == 0 {
		return 0
	}

	var anchor string
	for key := range days {
		if key > anchor {
			anchor = key
		}
	}

	// Walk by calendar date so DST transitions never skip or repeat a day.
	day, err := time.Parse(dayLayout, anchor)
	if err != nil {
		return 1
	}
	streak := 0
	for days[day.Format(dayLayout)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// Summarize computes both statistics for a month.
func Summarize(completions []time.Time, year, month int, loc *time.Location) models.AttendanceSummary {
	return models.AttendanceSummary{
		DaysTrainedInMonth: DaysTrainedInMonth(completions, year, month, loc),
		CurrentStreakDays:  CurrentStreak(completions, loc),
	}
}

func dayKeys(completions []time.Time, loc *time.Location) map[string]bool {
	days := make(map[string]bool, len(completions))
	for _, t := range completions {
		if t.IsZero() {
			continue
		}
		days[DayKey(t, loc)] = true
	}
	return days
}
