package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gymdesk/gymdesk/internal/dashboard"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc    *dashboard.Service
	log    *slog.Logger
	apiKey string
	whois  WhoIser
	now    func() time.Time
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(svc *dashboard.Service, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		svc:    svc,
		log:    log,
		apiKey: apiKey,
		now:    time.Now,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale enables per-request identity lookups through the tailnet.
// Without it every request runs as the local dev user.
func (s *Server) SetTailscale(lc WhoIser) {
	s.whois = lc
}

// MountMCP serves the MCP streamable HTTP handler under /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
	s.router.Handle("/mcp/*", h)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/routines", s.handleAddRoutine)
		r.Delete("/api/v1/routines/{key}", s.handleDeleteRoutine)
		r.Post("/api/v1/refresh", s.handleRefresh)
	})

	// Read endpoints (no auth; tsnet handles access)
	s.router.Get("/api/v1/routines", s.handleListRoutines)
	s.router.Post("/api/v1/routines/parse", s.handleParseRoutine)
	s.router.Get("/api/v1/calendar", s.handleCalendar)
	s.router.Get("/api/v1/calendar.ics", s.handleCalendarICS)
	s.router.Get("/api/v1/attendance", s.handleAttendance)
	s.router.Get("/api/v1/health", s.handleHealth)
	s.router.Get("/api/v1/me", s.handleMe)
}
