package routine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gymdesk/gymdesk/internal/models"
)

// DefaultStatus is assigned to routines whose record carries no status.
const DefaultStatus = "activa"

// placeholderRe matches generic names produced when the generator could not
// name an exercise: "Ejercicio 1", "ejercicio 12".
var placeholderRe = regexp.MustCompile(`(?i)^ejercicio\s+\d+$`)

var bareSecondsRe = regexp.MustCompile(`^\d+$`)

// RoutineFromRecord converts a backend routine record into a Routine.
func RoutineFromRecord(rec models.RawRoutine) models.Routine {
	name := coalesce(rec.Name, rec.Nombre)
	if name == "" {
		name = "Rutina sin nombre"
	}

	var summary map[string]any
	if len(rec.Resumen) > 0 {
		summary = make(map[string]any, len(rec.Resumen))
		for k, v := range rec.Resumen {
			summary[k] = v
		}
	}

	return models.Routine{
		ID:            models.StringPtr(strings.TrimSpace(rec.ID)),
		Name:          name,
		Frequency:     models.StringPtr(coalesce(string(rec.Frequency), string(rec.Frecuencia), summaryValue(rec.Resumen, "frecuencia", "frequency", "diasPorSemana"))),
		Focus:         models.StringPtr(coalesce(rec.Focus, rec.Enfoque, summaryValue(rec.Resumen, "enfoque", "focus"))),
		Status:        coalesce(rec.Status, rec.Estado, DefaultStatus),
		Exercises:     ExercisesFromRecord(rec),
		GeneratedText: models.StringPtr(rec.GeneratedText),
		Objective:     models.StringPtr(coalesce(rec.Objetivo, summaryValue(rec.Resumen, "objetivo", "objective"))),
		Level:         models.StringPtr(coalesce(rec.Nivel, summaryValue(rec.Resumen, "nivel", "level"))),
		Summary:       summary,
	}
}

// ExercisesFromRecord picks the best exercise source of a routine record:
// the stored exercise list, then the first day's list, then the free text.
// Placeholder names in a structured list are repaired from the free text
// when enough names can be extracted from it.
func ExercisesFromRecord(rec models.RawRoutine) []models.Exercise {
	exercises := fromEntries(rec.Exercises)
	if len(exercises) == 0 && len(rec.Dias) > 0 {
		exercises = fromEntries(rec.Dias[0].Exercises)
	}
	if len(exercises) > 0 {
		return RepairPlaceholders(exercises, rec.GeneratedText)
	}

	text := rec.GeneratedText
	if strings.TrimSpace(text) == "" && len(rec.Dias) > 0 {
		text = rec.Dias[0].Text
	}
	return ParseExercises(text)
}

// RepairPlaceholders replaces "Ejercicio N" names with names extracted from
// text. When text yields a name for every exercise the names are aligned by
// list position; otherwise text is taken to list only the missing exercises
// and the k-th placeholder gets the k-th name. Nothing changes unless text
// yields at least as many names as there are placeholders.
func RepairPlaceholders(exercises []models.Exercise, text string) []models.Exercise {
	placeholders := 0
	for _, ex := range exercises {
		if isPlaceholder(ex.Name) {
			placeholders++
		}
	}
	if placeholders == 0 || strings.TrimSpace(text) == "" {
		return exercises
	}

	names := Names(text)
	if len(names) < placeholders {
		return exercises
	}
	aligned := len(names) >= len(exercises)

	repaired := make([]models.Exercise, len(exercises))
	copy(repaired, exercises)
	k := 0
	for i := range repaired {
		if !isPlaceholder(repaired[i].Name) {
			continue
		}
		if aligned {
			repaired[i].Name = names[i]
		} else {
			repaired[i].Name = names[k]
		}
		k++
	}
	return repaired
}

func isPlaceholder(name string) bool {
	return placeholderRe.MatchString(strings.TrimSpace(name))
}

// fromEntries parses raw text entries and passes structured ones through.
func fromEntries(entries []models.ExerciseEntry) []models.Exercise {
	exercises := []models.Exercise{}
	for _, e := range entries {
		if e.IsRaw {
			exercises = append(exercises, ParseExercises(e.Text)...)
			continue
		}
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		exercises = append(exercises, models.Exercise{
			Name: name,
			Sets: models.StringPtr(setScheme(e.Sets, e.Reps)),
			Rest: models.StringPtr(restToken(e.Rest)),
			Done: e.Done,
		})
	}
	return exercises
}

// setScheme joins separate sets/reps fields into the "NxM" form.
func setScheme(sets, reps string) string {
	sets = strings.TrimSpace(sets)
	reps = strings.TrimSpace(reps)
	switch {
	case sets == "":
		return ""
	case strings.ContainsAny(sets, "xX×"), reps == "":
		return sets
	default:
		return sets + "x" + reps
	}
}

// restToken turns a bare number of seconds into "<n>s".
func restToken(rest string) string {
	rest = strings.TrimSpace(rest)
	if bareSecondsRe.MatchString(rest) {
		return rest + "s"
	}
	return rest
}

func summaryValue(summary map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := summary[k]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			if s := strings.TrimSpace(val); s != "" {
				return s
			}
		case float64:
			return fmt.Sprintf("%g", val)
		}
	}
	return ""
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
