package schedule

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/gymdesk/gymdesk/internal/models"
)

// DefaultClassDuration is used for exported events when none is given.
const DefaultClassDuration = time.Hour

var uidUnsafeRe = regexp.MustCompile(`[^a-z0-9]+`)

// ICS renders every occurrence of a projection as an iCalendar feed. Classes
// without a known start time become all-day events.
func ICS(proj models.CalendarProjection, loc *time.Location, duration time.Duration) string {
	return buildICS(proj, loc, duration, time.Now())
}

func buildICS(proj models.CalendarProjection, loc *time.Location, duration time.Duration, now time.Time) string {
	if loc == nil {
		loc = time.Local
	}
	if duration <= 0 {
		duration = DefaultClassDuration
	}

	cal := ics.NewCalendar()
	cal.SetProductId("-//GymDesk//Class Calendar//ES")
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName("Clases")

	dates := make([]string, 0, len(proj))
	for date := range proj {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		day, err := time.ParseInLocation(DateLayout, date, loc)
		if err != nil {
			continue
		}
		for i, s := range proj[date] {
			event := cal.AddEvent(eventUID(date, i, s))
			event.SetDtStampTime(now)

			if hour, minute, ok := SessionTime(s, loc); ok {
				start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
				event.SetStartAt(start)
				event.SetEndAt(start.Add(duration))
			} else {
				event.SetAllDayStartAt(day)
				event.SetAllDayEndAt(day.AddDate(0, 0, 1))
			}

			event.SetSummary(s.Name)
			if s.Trainer != nil {
				event.SetDescription("Entrenador: " + *s.Trainer)
			}
			if s.Room != nil {
				event.SetLocation(*s.Room)
			}
		}
	}

	return cal.Serialize()
}

// eventUID is unique per occurrence: the position within the day is always
// part of it, since two classes may share both a date and a name.
func eventUID(date string, index int, s models.ClassSession) string {
	ref := models.Deref(s.ID)
	if ref == "" {
		ref = strings.Trim(uidUnsafeRe.ReplaceAllString(strings.ToLower(s.Name), "-"), "-")
	}
	if ref == "" {
		ref = "class"
	}
	return fmt.Sprintf("%s-%s-%d@gymdesk", strings.ReplaceAll(date, "-", ""), ref, index)
}
