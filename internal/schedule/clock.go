package schedule

import (
	"fmt"
	"strings"
)

// parseClock parses "HH:MM" (also "H:MM" and "HH.MM").
func parseClock(s string) (hour, minute int, ok bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", ":")
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
