package models

// Exercise is one movement inside a Routine.
// Sets holds a free-form "NxM" token (e.g. "4x10") and Rest a duration
// token (e.g. "90s"); both are nil when the source did not carry them.
type Exercise struct {
	Name string  `json:"name"`
	Sets *string `json:"sets"`
	Rest *string `json:"rest"`
	Done bool    `json:"done"`
}

// Routine is a named training plan, either fetched from the backend or
// created client-side and not yet confirmed by it.
type Routine struct {
	ID            *string        `json:"id"`
	Name          string         `json:"name"`
	Frequency     *string        `json:"frequency,omitempty"`
	Focus         *string        `json:"focus,omitempty"`
	Status        string         `json:"status"`
	Exercises     []Exercise     `json:"exercises"`
	GeneratedText *string        `json:"generatedText,omitempty"`
	Objective     *string        `json:"objective,omitempty"`
	Level         *string        `json:"level,omitempty"`
	Summary       map[string]any `json:"summary,omitempty"`
}

// HasID reports whether the routine carries a non-empty id.
func (r Routine) HasID() bool {
	return r.ID != nil && *r.ID != ""
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
