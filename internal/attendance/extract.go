package attendance

import (
	"time"

	"github.com/gymdesk/gymdesk/internal/models"
)

// CompletionsFromAssignments collects the completion instants of every
// exercise marked completed. Entries that are not completed or whose
// completedAt does not parse are dropped.
func CompletionsFromAssignments(assignments []models.Assignment, loc *time.Location) []time.Time {
	var out []time.Time
	for _, a := range assignments {
		for _, st := range a.ExercisesStatus {
			if !st.Completed {
				continue
			}
			t, ok := models.ParseTimestamp(st.CompletedAt, loc)
			if !ok {
				continue
			}
			out = append(out, t)
		}
	}
	return out
}

// Events wraps completion instants as CompletionEvents.
func Events(completions []time.Time) []models.CompletionEvent {
	events := make([]models.CompletionEvent, 0, len(completions))
	for _, t := range completions {
		events = append(events, models.CompletionEvent{Timestamp: t})
	}
	return events
}
