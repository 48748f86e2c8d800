// Package reconcile merges the backend's routine list with the locally
// cached copies into one de-duplicated list.
package reconcile

import (
	"strings"

	"github.com/gymdesk/gymdesk/internal/models"
)

// Key returns the identity of a routine: its id when set, else its name.
// Routines without an id that share a name are treated as the same routine.
func Key(r models.Routine) string {
	if r.ID != nil && strings.TrimSpace(*r.ID) != "" {
		return *r.ID
	}
	return r.Name
}

// Reconcile merges local into remote. The result lists remote routines in
// their original order, merged with the local copy of the same identity,
// followed by local-only routines in their original order.
//
// A merged routine keeps the remote fields, except that its exercises come
// from the local copy when that copy has any, and local summary keys
// override remote ones. Objective, level and focus follow an overriding
// summary key ("objetivo"/"objective", "nivel"/"level", "enfoque"/"focus").
// Neither input is modified.
func Reconcile(remote, local []models.Routine) []models.Routine {
	out := make([]models.Routine, 0, len(remote)+len(local))
	index := make(map[string]int, len(remote)+len(local))

	for _, r := range remote {
		key := Key(r)
		if i, ok := index[key]; ok {
			out[i] = merge(out[i], r)
			continue
		}
		index[key] = len(out)
		out = append(out, clone(r))
	}

	for _, l := range local {
		key := Key(l)
		if i, ok := index[key]; ok {
			out[i] = merge(out[i], l)
			continue
		}
		index[key] = len(out)
		out = append(out, clone(l))
	}
	return out
}

// Remove returns routines without the ones whose identity is key.
func Remove(routines []models.Routine, key string) []models.Routine {
	out := make([]models.Routine, 0, len(routines))
	for _, r := range routines {
		if Key(r) == key {
			continue
		}
		out = append(out, r)
	}
	return out
}

// merge enriches base with the exercises and summary keys of other.
func merge(base, other models.Routine) models.Routine {
	if len(other.Exercises) > 0 {
		base.Exercises = cloneExercises(other.Exercises)
	}
	if len(other.Summary) > 0 {
		summary := make(map[string]any, len(base.Summary)+len(other.Summary))
		for k, v := range base.Summary {
			summary[k] = v
		}
		for k, v := range other.Summary {
			summary[k] = v
		}
		base.Summary = summary

		if v := summaryString(other.Summary, "objetivo", "objective"); v != "" {
			base.Objective = &v
		}
		if v := summaryString(other.Summary, "nivel", "level"); v != "" {
			base.Level = &v
		}
		if v := summaryString(other.Summary, "enfoque", "focus"); v != "" {
			base.Focus = &v
		}
	}
	return base
}

// summaryString returns the first non-blank string value among keys.
func summaryString(summary map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := summary[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func clone(r models.Routine) models.Routine {
	r.Exercises = cloneExercises(r.Exercises)
	if r.Summary != nil {
		summary := make(map[string]any, len(r.Summary))
		for k, v := range r.Summary {
			summary[k] = v
		}
		r.Summary = summary
	}
	return r
}

func cloneExercises(exercises []models.Exercise) []models.Exercise {
	if exercises == nil {
		return nil
	}
	out := make([]models.Exercise, len(exercises))
	copy(out, exercises)
	return out
}
