// Package dashboard keeps the latest derived view of the backend data and
// answers the routine, calendar and attendance queries from it.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gymdesk/gymdesk/internal/attendance"
	"github.com/gymdesk/gymdesk/internal/localstore"
	"github.com/gymdesk/gymdesk/internal/models"
	"github.com/gymdesk/gymdesk/internal/reconcile"
	"github.com/gymdesk/gymdesk/internal/schedule"
)

// ErrRoutineNotFound is returned when no routine has the requested key.
var ErrRoutineNotFound = errors.New("routine not found")

// Backend is the subset of the backend client the service uses.
type Backend interface {
	FetchRoutines(ctx context.Context) ([]models.RawRoutine, error)
	FetchClasses(ctx context.Context) ([]models.RawClass, error)
	FetchAssignments(ctx context.Context) ([]models.Assignment, error)
	DeleteRoutine(ctx context.Context, id string) error
}

// Snapshot is the result of one refresh. Snapshots are never modified once
// published; a newer refresh replaces the whole value.
type Snapshot struct {
	Routines    []models.Routine      `json:"routines"`
	Classes     []models.ClassSession `json:"classes"`
	Completions []time.Time           `json:"completions"`
	FetchedAt   time.Time             `json:"fetchedAt"`
	// Source is "backend" after a successful refresh and "local" when only
	// the fallback store could be read.
	Source string `json:"source"`
}

const (
	SourceBackend = "backend"
	SourceLocal   = "local"
)

// Service orchestrates refreshes and serves derived views.
type Service struct {
	backend Backend
	store   localstore.Store
	loc     *time.Location
	log     *slog.Logger
	now     func() time.Time

	// refreshMu serialises every load-merge-save of the local store.
	refreshMu sync.Mutex

	mu       sync.RWMutex
	snap     *Snapshot
	lastErr  error
	deleting map[string]bool

	bg sync.WaitGroup
}

// NewService creates a Service. loc is the reference location for calendar
// days; nil means time.Local.
func NewService(backend Backend, store localstore.Store, loc *time.Location, log *slog.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		backend:  backend,
		store:    store,
		loc:      loc,
		log:      log,
		now:      time.Now,
		deleting: make(map[string]bool),
	}
}

// Location returns the reference location of the service.
func (s *Service) Location() *time.Location { return s.loc }

// Refresh fetches the backend records and publishes a new snapshot. On
// failure the previous snapshot stays in place; when there is none yet the
// local fallback routines are published instead.
func (s *Service) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	snap, err := s.fetch(ctx)
	if err != nil {
		s.setErr(err)
		s.log.Warn("refresh failed", "error", err)
		s.fallback(ctx)
		return err
	}

	// An unreadable local store is never overwritten: the previous
	// published list stands in for it and nothing is saved.
	local, lerr := s.store.Load(ctx)
	if lerr != nil {
		s.log.Warn("loading local routines", "error", lerr)
		if prev, ok := s.Snapshot(); ok {
			local = prev.Routines
		}
	}
	merged := s.withoutDeleting(reconcile.Reconcile(snap.Routines, local))
	if lerr == nil {
		if err := s.store.Save(ctx, merged); err != nil {
			s.log.Warn("saving local routines", "error", err)
		}
	}
	snap.Routines = merged

	s.mu.Lock()
	s.snap = snap
	s.lastErr = nil
	s.mu.Unlock()

	s.log.Info("refreshed",
		"routines", len(snap.Routines),
		"classes", len(snap.Classes),
		"completions", len(snap.Completions),
	)
	return nil
}

func (s *Service) fetch(ctx context.Context) (*Snapshot, error) {
	rawRoutines, err := s.backend.FetchRoutines(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching routines: %w", err)
	}
	rawClasses, err := s.backend.FetchClasses(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching classes: %w", err)
	}
	assignments, err := s.backend.FetchAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching assignments: %w", err)
	}

	return &Snapshot{
		Routines:    RoutinesFromRecords(rawRoutines),
		Classes:     ClassesFromRecords(rawClasses),
		Completions: attendance.CompletionsFromAssignments(assignments, s.loc),
		FetchedAt:   s.now(),
		Source:      SourceBackend,
	}, nil
}

// fallback publishes the local routines when nothing was published yet.
func (s *Service) fallback(ctx context.Context) {
	s.mu.RLock()
	have := s.snap != nil
	s.mu.RUnlock()
	if have {
		return
	}

	local, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn("loading local routines", "error", err)
		return
	}
	snap := &Snapshot{
		Routines:  s.withoutDeleting(local),
		FetchedAt: s.now(),
		Source:    SourceLocal,
	}

	s.mu.Lock()
	if s.snap == nil {
		s.snap = snap
	}
	s.mu.Unlock()
	s.log.Info("serving local routines", "routines", len(local))
}

func (s *Service) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// Snapshot returns the current snapshot. ok is false before the first
// refresh has published anything.
func (s *Service) Snapshot() (snap Snapshot, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return Snapshot{}, false
	}
	return *s.snap, true
}

// Status reports the last refresh time and error for health checks.
func (s *Service) Status() (fetchedAt time.Time, source string, lastErr error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap != nil {
		fetchedAt = s.snap.FetchedAt
		source = s.snap.Source
	}
	return fetchedAt, source, s.lastErr
}

// Routines returns the reconciled routine list.
func (s *Service) Routines() []models.Routine {
	snap, _ := s.Snapshot()
	out := make([]models.Routine, len(snap.Routines))
	copy(out, snap.Routines)
	return out
}

// Calendar projects the current classes onto a 0-based month.
func (s *Service) Calendar(year, month int) CalendarView {
	snap, _ := s.Snapshot()
	return NewCalendarView(snap.Classes, year, month, s.loc)
}

// CalendarICS renders the projection of a 0-based month as iCalendar.
func (s *Service) CalendarICS(year, month int, duration time.Duration) string {
	snap, _ := s.Snapshot()
	proj := schedule.ProjectOccurrences(snap.Classes, year, month, s.loc)
	return schedule.ICS(proj, s.loc, duration)
}

// Attendance summarises the current completions for a 0-based month.
func (s *Service) Attendance(year, month int) models.AttendanceSummary {
	snap, _ := s.Snapshot()
	return attendance.Summarize(snap.Completions, year, month, s.loc)
}

// AddRoutine stores a client-created routine. A routine without an id gets
// a temporary one. A routine with the key of an existing one replaces the
// local copy and is merged into the published list.
func (s *Service) AddRoutine(ctx context.Context, r models.Routine) (models.Routine, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	r = localstore.AssignTempID(r)
	key := reconcile.Key(r)

	local, err := s.store.Load(ctx)
	if err != nil {
		return models.Routine{}, fmt.Errorf("loading local routines: %w", err)
	}
	local = append(reconcile.Remove(local, key), r)
	if err := s.store.Save(ctx, local); err != nil {
		return models.Routine{}, fmt.Errorf("saving local routines: %w", err)
	}

	s.mu.Lock()
	next := Snapshot{FetchedAt: s.now(), Source: SourceLocal}
	if s.snap != nil {
		next = *s.snap
	}
	next.Routines = reconcile.Reconcile(next.Routines, []models.Routine{r})
	s.snap = &next
	s.mu.Unlock()

	s.log.Info("routine added", "key", key, "name", r.Name)
	return r, nil
}

// DeleteRoutine removes a routine from the published list and the local
// store at once. The backend copy, if any, is deleted in the background;
// a failure there is only logged.
func (s *Service) DeleteRoutine(ctx context.Context, key string) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	local, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading local routines: %w", err)
	}

	s.mu.Lock()
	var published []models.Routine
	if s.snap != nil {
		published = s.snap.Routines
	}
	target, found := find(published, key)
	if !found {
		target, found = find(local, key)
	}
	if !found {
		s.mu.Unlock()
		return ErrRoutineNotFound
	}
	if s.snap != nil {
		next := *s.snap
		next.Routines = reconcile.Remove(next.Routines, key)
		s.snap = &next
	}
	remoteID := ""
	if target.HasID() && !localstore.IsTempID(*target.ID) {
		remoteID = *target.ID
		s.deleting[key] = true
	}
	s.mu.Unlock()

	if err := s.store.Save(ctx, reconcile.Remove(local, key)); err != nil {
		return fmt.Errorf("saving local routines: %w", err)
	}
	s.log.Info("routine deleted", "key", key, "name", target.Name)

	if remoteID != "" {
		s.bg.Add(1)
		go s.deleteRemote(key, remoteID)
	}
	return nil
}

func (s *Service) deleteRemote(key, id string) {
	defer s.bg.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.backend.DeleteRoutine(ctx, id); err != nil {
		s.log.Warn("remote routine delete failed", "id", id, "error", err)
	} else {
		s.log.Info("remote routine deleted", "id", id)
	}

	s.mu.Lock()
	delete(s.deleting, key)
	s.mu.Unlock()
}

// Wait blocks until background deletions have finished.
func (s *Service) Wait() {
	s.bg.Wait()
}

// withoutDeleting drops routines whose backend delete is still in flight,
// so a refresh racing the delete does not bring them back.
func (s *Service) withoutDeleting(routines []models.Routine) []models.Routine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.deleting) == 0 {
		return routines
	}
	out := make([]models.Routine, 0, len(routines))
	for _, r := range routines {
		if s.deleting[reconcile.Key(r)] {
			continue
		}
		out = append(out, r)
	}
	return out
}

func find(routines []models.Routine, key string) (models.Routine, bool) {
	for _, r := range routines {
		if reconcile.Key(r) == key {
			return r, true
		}
	}
	return models.Routine{}, false
}
