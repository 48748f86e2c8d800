package models

// ClassSession is a recurring weekly class template. ScheduleISO is one
// reference instant whose weekday and time of day define every occurrence.
// Reservations <= Capacity is expected but the backend is authoritative.
type ClassSession struct {
	ID           *string `json:"id"`
	Name         string  `json:"name"`
	ScheduleISO  *string `json:"scheduleISO"`
	Hour         *string `json:"hour,omitempty"`
	Room         *string `json:"room,omitempty"`
	Trainer      *string `json:"trainer,omitempty"`
	Capacity     int     `json:"capacity"`
	Reservations int     `json:"reservations"`
}

// CalendarProjection maps a "YYYY-MM-DD" date to the class templates that
// recur on it, in input order.
type CalendarProjection map[string][]ClassSession
