package schedule

import (
	"testing"
	"time"

	"github.com/gymdesk/gymdesk/internal/models"
)

func session(name, iso string) models.ClassSession {
	return models.ClassSession{Name: name, ScheduleISO: models.StringPtr(iso)}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year, month int
		want        int
	}{
		{2025, 0, 31},
		{2025, 1, 28},
		{2024, 1, 29},
		{1900, 1, 28},
		{2000, 1, 29},
		{2025, 3, 30},
		{2025, 11, 31},
		{2025, 12, 31}, // January 2026
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestFirstWeekday(t *testing.T) {
	if got := FirstWeekday(2025, 1); got != int(time.Saturday) {
		t.Errorf("FirstWeekday(2025, Feb) = %d, want %d", got, time.Saturday)
	}
	if got := FirstWeekday(2024, 1); got != int(time.Thursday) {
		t.Errorf("FirstWeekday(2024, Feb) = %d, want %d", got, time.Thursday)
	}
}

// TestProjectWednesdaysFebruary2025 covers a non-leap February starting on
// a Saturday: a Wednesday class occurs on exactly four dates.
func TestProjectWednesdaysFebruary2025(t *testing.T) {
	yoga := session("Yoga", "2025-01-15T18:00:00")
	proj := ProjectOccurrences([]models.ClassSession{yoga}, 2025, 1, time.UTC)

	want := []string{"2025-02-05", "2025-02-12", "2025-02-19", "2025-02-26"}
	if len(proj) != len(want) {
		t.Fatalf("dates = %d, want %d: %v", len(proj), len(want), proj)
	}
	for _, date := range want {
		bucket := proj[date]
		if len(bucket) != 1 || bucket[0].Name != "Yoga" {
			t.Errorf("proj[%s] = %+v, want [Yoga]", date, bucket)
		}
	}
}

// TestProjectLeapDay verifies day 29 is considered in a leap February and
// nothing falls outside the month.
func TestProjectLeapDay(t *testing.T) {
	spin := session("Spinning", "2024-02-01T09:00:00")
	proj := ProjectOccurrences([]models.ClassSession{spin}, 2024, 1, time.UTC)

	if len(proj["2024-02-29"]) != 1 {
		t.Errorf("2024-02-29 missing: %v", proj)
	}
	if len(proj) != 5 {
		t.Errorf("dates = %d, want 5", len(proj))
	}
	for date := range proj {
		d, err := time.Parse(DateLayout, date)
		if err != nil {
			t.Fatalf("bad key %q", date)
		}
		if d.Year() != 2024 || d.Month() != time.February {
			t.Errorf("date %s outside February 2024", date)
		}
	}

	proj = ProjectOccurrences([]models.ClassSession{spin}, 2025, 1, time.UTC)
	for date := range proj {
		if date > "2025-02-28" {
			t.Errorf("date %s outside February 2025", date)
		}
	}
}

func TestProjectKeepsInputOrder(t *testing.T) {
	sessions := []models.ClassSession{
		session("Pilates", "2025-02-03T08:00:00"),
		session("Box", "2025-02-10T19:00:00"),
		session("Yoga", "2025-02-04T08:00:00"),
	}
	proj := ProjectOccurrences(sessions, 2025, 1, time.UTC)

	monday := proj["2025-02-17"]
	if len(monday) != 2 || monday[0].Name != "Pilates" || monday[1].Name != "Box" {
		t.Errorf("proj[2025-02-17] = %+v, want [Pilates Box]", monday)
	}
	if len(proj["2025-02-18"]) != 1 {
		t.Errorf("proj[2025-02-18] = %+v, want [Yoga]", proj["2025-02-18"])
	}
}

func TestProjectSkipsMissingAndInvalid(t *testing.T) {
	sessions := []models.ClassSession{
		{Name: "Sin horario"},
		session("Roto", "mañana a las 9"),
		session("Yoga", "2025-01-15"),
	}
	proj := ProjectOccurrences(sessions, 2025, 1, time.UTC)
	for date, bucket := range proj {
		for _, s := range bucket {
			if s.Name != "Yoga" {
				t.Errorf("proj[%s] contains %q", date, s.Name)
			}
		}
	}
	if len(proj) != 4 {
		t.Errorf("dates = %d, want 4", len(proj))
	}

	if got := ProjectOccurrences(nil, 2025, 1, time.UTC); len(got) != 0 {
		t.Errorf("nil sessions = %v, want empty", got)
	}
}

// TestProjectUsesReferenceZone verifies the weekday is taken in the
// configured zone: 23:30 UTC on a Wednesday is already Thursday at +02:00.
func TestProjectUsesReferenceZone(t *testing.T) {
	late := session("Nocturna", "2025-01-15T23:30:00Z")

	utc := ProjectOccurrences([]models.ClassSession{late}, 2025, 1, time.UTC)
	if len(utc["2025-02-05"]) != 1 {
		t.Errorf("UTC projection missing Wednesday: %v", utc)
	}

	east := ProjectOccurrences([]models.ClassSession{late}, 2025, 1, time.FixedZone("EET", 2*3600))
	if len(east["2025-02-06"]) != 1 || len(east["2025-02-05"]) != 0 {
		t.Errorf("+02:00 projection = %v, want Thursdays", east)
	}
}

func TestSessionTime(t *testing.T) {
	tests := []struct {
		name   string
		s      models.ClassSession
		hour   int
		minute int
		ok     bool
	}{
		{"iso", session("A", "2025-01-15T18:30:00"), 18, 30, true},
		{"hour field", models.ClassSession{Hour: models.StringPtr("07:15")}, 7, 15, true},
		{"dotted hour", models.ClassSession{Hour: models.StringPtr("9.45")}, 9, 45, true},
		{"bad hour", models.ClassSession{Hour: models.StringPtr("25:00")}, 0, 0, false},
		{"nothing", models.ClassSession{}, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m, ok := SessionTime(tt.s, time.UTC)
			if ok != tt.ok || h != tt.hour || m != tt.minute {
				t.Errorf("SessionTime = %d:%d %v, want %d:%d %v", h, m, ok, tt.hour, tt.minute, tt.ok)
			}
		})
	}
}
