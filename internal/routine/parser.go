package routine

import (
	"regexp"
	"strings"

	"github.com/gymdesk/gymdesk/internal/models"
)

var (
	// headerRe matches routine metadata lines: "Rutina generada:", "Objetivo: Fuerza",
	// "Nivel: Intermedio", "Días/semana: 3", "Enfoque: Tren inferior".
	headerRe = regexp.MustCompile(`(?i)^(rutina|objetivo\s*:|nivel\s*:|d[ií]as\s*(/|por)\s*semana\s*:|enfoque\s*:)`)

	// dayPrefixRe matches a leading day marker: "-- Día 1 --", "Día 2:", "Dia 3 -".
	dayPrefixRe = regexp.MustCompile(`(?i)^[-–—=]*\s*d[ií]a\s*\d+\s*[-–—=:]*\s*`)

	// markerRe matches a leading enumeration ("1) ", "2. ") or bullet ("- ", "• ", "* ").
	markerRe = regexp.MustCompile(`^(\d+[).]\s+|[-•*]\s+)`)

	// setSchemeRe matches "4x10", "3 x 12", "4×8", rep ranges like "3x8-12"
	// and a unit glued to the reps ("3x30s", "3x10kg").
	setSchemeRe = regexp.MustCompile(`(?i)\b(\d+)\s*[x×]\s*(\d+(?:\s*-\s*\d+)?)(?:\s*(?:segundos|seg|reps|rep|kg|min|s)\b)?`)

	// restMarkerRe matches "Descanso: 90s" / "Descanso 60 segundos" up to the next separator.
	restMarkerRe = regexp.MustCompile(`(?i)descanso\s*:?\s*([^|,;]+)`)

	// restTailRe matches the rest marker and everything after it, for name cleanup.
	restTailRe = regexp.MustCompile(`(?i)descanso\b.*$`)

	// bareRestRe matches "90s", "90 s", "60 seg", "45 segundos".
	bareRestRe = regexp.MustCompile(`(?i)\b(\d+)\s*(?:segundos|seg|s)\b`)

	// annotationRe matches parenthesized annotations like "(por lado)".
	annotationRe = regexp.MustCompile(`\([^)]*\)`)

	spacesRe = regexp.MustCompile(`\s+`)
)

// ParseExercises extracts exercises from a free-text routine description.
// Header lines are discarded; every remaining line with an identifiable
// name becomes one Exercise in original order. Never fails: empty or
// unrecognisable input yields an empty slice.
func ParseExercises(text string) []models.Exercise {
	exercises := []models.Exercise{}
	for _, line := range splitLines(text) {
		if headerRe.MatchString(line) {
			continue
		}
		// A day marker is a separator unless the same line carries an exercise.
		if loc := dayPrefixRe.FindStringIndex(line); loc != nil {
			rest := strings.TrimSpace(line[loc[1]:])
			if !setSchemeRe.MatchString(rest) {
				continue
			}
			line = rest
		}
		if ex, ok := parseLine(line); ok {
			exercises = append(exercises, ex)
		}
	}
	return exercises
}

// Names returns only the exercise names ParseExercises would extract.
func Names(text string) []string {
	exercises := ParseExercises(text)
	names := make([]string, 0, len(exercises))
	for _, ex := range exercises {
		names = append(names, ex.Name)
	}
	return names
}

// splitLines splits on any newline convention, trims, and drops empty lines.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// parseLine extracts one exercise from a non-header line. ok is false when
// no name survives cleanup.
func parseLine(line string) (models.Exercise, bool) {
	text := markerRe.ReplaceAllString(line, "")

	var sets *string
	if m := setSchemeRe.FindStringSubmatch(text); m != nil {
		s := m[1] + "x" + strings.ReplaceAll(m[2], " ", "")
		sets = &s
	}

	rest := extractRest(setSchemeRe.ReplaceAllString(text, " "))

	name := cleanName(text)
	if name == "" {
		return models.Exercise{}, false
	}
	return models.Exercise{Name: name, Sets: sets, Rest: rest}, true
}

// extractRest prefers an explicit "Descanso" marker and falls back to a bare
// seconds token anywhere in the line.
func extractRest(text string) *string {
	if m := restMarkerRe.FindStringSubmatch(text); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			return &v
		}
	}
	if m := bareRestRe.FindStringSubmatch(text); m != nil {
		v := m[1] + "s"
		return &v
	}
	return nil
}

func cleanName(text string) string {
	if i := strings.Index(text, "|"); i >= 0 {
		text = text[:i]
	}
	text = restTailRe.ReplaceAllString(text, "")
	text = setSchemeRe.ReplaceAllString(text, "")
	text = bareRestRe.ReplaceAllString(text, "")
	text = annotationRe.ReplaceAllString(text, "")
	text = spacesRe.ReplaceAllString(text, " ")
	return strings.Trim(text, " \t-–—:,;.")
}
