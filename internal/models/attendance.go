package models

import "time"

// CompletionEvent records that an exercise was marked done.
type CompletionEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// AttendanceSummary is recomputed on demand from completion events.
type AttendanceSummary struct {
	DaysTrainedInMonth int `json:"daysTrainedInMonth"`
	CurrentStreakDays  int `json:"currentStreakDays"`
}

// Assignment is the backend record that carries exercise completion state.
type Assignment struct {
	ID              string           `json:"_id,omitempty"`
	RoutineID       string           `json:"rutina,omitempty"`
	ExercisesStatus []ExerciseStatus `json:"exercisesStatus"`
}

// ExerciseStatus is the per-exercise completion flag of an Assignment.
// CompletedAt stays a string; unparsable values are dropped during extraction.
type ExerciseStatus struct {
	Exercise    string `json:"exercise,omitempty"`
	Completed   bool   `json:"completed"`
	CompletedAt string `json:"completedAt,omitempty"`
}
