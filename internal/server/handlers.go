package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gymdesk/gymdesk/internal/dashboard"
	"github.com/gymdesk/gymdesk/internal/models"
	"github.com/gymdesk/gymdesk/internal/routine"
	"github.com/gymdesk/gymdesk/internal/schedule"
)

func (s *Server) handleListRoutines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Routines())
}

// handleAddRoutine accepts a routine in the backend record shape, so a
// freshly generated routine can be posted exactly as the backend would
// have stored it.
func (s *Server) handleAddRoutine(w http.ResponseWriter, r *http.Request) {
	var rec models.RawRoutine
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	added, err := s.svc.AddRoutine(r.Context(), routine.RoutineFromRecord(rec))
	if err != nil {
		s.log.Error("add routine error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleDeleteRoutine(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(chi.URLParam(r, "key"))
	if key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "routine key required"})
		return
	}

	err := s.svc.DeleteRoutine(r.Context(), key)
	switch {
	case errors.Is(err, dashboard.ErrRoutineNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "routine not found"})
	case err != nil:
		s.log.Error("delete routine error", "key", key, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleParseRoutine(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"exercises": routine.ParseExercises(body.Text),
	})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	year, month, err := s.parseMonth(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Calendar(year, month))
}

func (s *Server) handleCalendarICS(w http.ResponseWriter, r *http.Request) {
	year, month, err := s.parseMonth(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	duration := schedule.DefaultClassDuration
	if d := r.URL.Query().Get("duration"); d != "" {
		duration, err = time.ParseDuration(d)
		if err != nil || duration <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid duration"})
			return
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="clases-%04d-%02d.ics"`, year, month+1))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(s.svc.CalendarICS(year, month, duration)))
}

func (s *Server) handleAttendance(w http.ResponseWriter, r *http.Request) {
	year, month, err := s.parseMonth(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Attendance(year, month))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Refresh(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	snap, _ := s.svc.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"fetchedAt": snap.FetchedAt,
		"routines":  len(snap.Routines),
		"classes":   len(snap.Classes),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	fetchedAt, source, lastErr := s.svc.Status()
	resp := map[string]any{
		"status": "ok",
		"source": source,
	}
	if !fetchedAt.IsZero() {
		resp["fetchedAt"] = fetchedAt
	}
	if lastErr != nil {
		resp["status"] = "degraded"
		resp["lastError"] = lastErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseMonth reads the 1-based year/month query parameters and returns a
// 0-based month. Missing values default to the current month in the
// service's location.
func (s *Server) parseMonth(r *http.Request) (year, month int, err error) {
	now := s.now().In(s.svc.Location())
	year, month = now.Year(), int(now.Month())

	if v := r.URL.Query().Get("year"); v != "" {
		year, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year %q", v)
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		month, err = strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			return 0, 0, fmt.Errorf("month must be between 1 and 12, got %q", v)
		}
	}
	return year, month - 1, nil
}
