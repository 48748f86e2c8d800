package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/gymdesk/gymdesk/internal/models"
)

func TestBuildICS(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	proj := models.CalendarProjection{
		"2025-02-05": {{
			ID:          models.StringPtr("c1"),
			Name:        "Yoga, suave",
			ScheduleISO: models.StringPtr("2025-01-15T18:00:00"),
			Room:        models.StringPtr("Sala 2"),
			Trainer:     models.StringPtr("Ana"),
		}},
		"2025-02-03": {{Name: "Open Box"}},
	}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	out := buildICS(proj, loc, 90*time.Minute, now)

	for _, want := range []string{
		"BEGIN:VCALENDAR\r\n",
		"UID:20250205-c1-0@gymdesk\r\n",
		"DTSTAMP:20250101T000000Z\r\n",
		"DTSTART:20250205T170000Z\r\n",
		"DTEND:20250205T183000Z\r\n",
		"SUMMARY:Yoga\\, suave\r\n",
		"LOCATION:Sala 2\r\n",
		"DESCRIPTION:Entrenador: Ana\r\n",
		"UID:20250203-open-box-0@gymdesk\r\n",
		"DTSTART;VALUE=DATE:20250203\r\n",
		"DTEND;VALUE=DATE:20250204\r\n",
		"END:VCALENDAR\r\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ICS missing %q", want)
		}
	}

	if strings.Index(out, "20250203") > strings.Index(out, "20250205-c1") {
		t.Error("events not sorted by date")
	}
	if n := strings.Count(out, "BEGIN:VEVENT"); n != 2 {
		t.Errorf("events = %d, want 2", n)
	}
}

func TestBuildICSUniqueUIDs(t *testing.T) {
	proj := models.CalendarProjection{
		"2025-02-05": {{Name: "Spinning"}, {Name: "Spinning"}},
	}
	out := buildICS(proj, time.UTC, time.Hour, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	for _, want := range []string{"UID:20250205-spinning-0@gymdesk\r\n", "UID:20250205-spinning-1@gymdesk\r\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("ICS missing %q", want)
		}
	}
}

func TestBuildICSFoldsLongLines(t *testing.T) {
	name := "Entrenamiento funcional de alta intensidad para principiantes y nivel intermedio en sala grande"
	proj := models.CalendarProjection{"2025-02-05": {{Name: name}}}
	out := buildICS(proj, time.UTC, time.Hour, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	for _, line := range strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n") {
		if len(line) > 75 {
			t.Errorf("line is %d octets, want <= 75: %q", len(line), line)
		}
	}
	unfolded := strings.ReplaceAll(out, "\r\n ", "")
	if !strings.Contains(unfolded, "SUMMARY:"+name+"\r\n") {
		t.Errorf("unfolded ICS missing summary %q", name)
	}
}

func TestICSEmptyProjection(t *testing.T) {
	out := ICS(nil, time.UTC, 0)
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Error("empty projection produced events")
	}
	if !strings.HasSuffix(out, "END:VCALENDAR\r\n") {
		t.Error("calendar not closed")
	}
}
