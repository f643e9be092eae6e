package web

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/adapters/http/perf"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/domain/period"
)

// ErrCSRFKeyRequired is returned by New in production without a CSRF key.
var ErrCSRFKeyRequired = errors.New("CLUB_CSRF_KEY is required in production")

// Deps holds what the handlers need. Notifier and Collector may be nil.
type Deps struct {
	Store      orchestrators.BackupStore
	Notifier   orchestrators.AdminNotifier
	Collector  *perf.Collector
	Location   *time.Location
	Now        func() time.Time
	GenerateID func() string
}

// Options configures the router and its middleware.
type Options struct {
	StaticDir      string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	CSRFKey        []byte // empty generates a random key outside production
	Production     bool
	SlowRequestMs  int
}

// Server is the HTTP front of the club API.
type Server struct {
	deps    Deps
	router  chi.Router
	limiter *middleware.RateLimiter
}

// New wires the router, middleware and handlers.
// PRE: deps.Store is non-nil
// POST: caller must Close the server to stop the rate limiter sweep
func New(deps Deps, opts Options) (*Server, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.GenerateID == nil {
		deps.GenerateID = generateID
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}

	key, err := csrfKey(opts.CSRFKey, opts.Production)
	if err != nil {
		return nil, err
	}

	s := &Server{
		deps:    deps,
		limiter: middleware.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Timing(deps.Collector, opts.SlowRequestMs))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)

	c := corslib.New(corslib.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-CSRF-Token"},
	})
	r.Use(c.Handler)
	r.Use(middleware.RateLimit(s.limiter))
	r.Use(middleware.CSRF(key, opts.Production, nil))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/players", func(r chi.Router) {
			r.Get("/", s.handleListPlayers)
			r.Post("/", s.handleCreatePlayer)
			r.Get("/{id}", s.handleGetPlayer)
			r.Patch("/{id}", s.handleUpdatePlayer)
			r.Delete("/{id}", s.handleDeletePlayer)
			r.Patch("/{id}/payments", s.handleRecordPayment)
			r.Patch("/{id}/stats", s.handleUpdateStats)
		})

		r.Get("/attendance/summary", s.handleAttendanceSummary)
		r.Patch("/attendance/{date}", s.handleRecordAttendance)

		r.Get("/settings", s.handleGetSettings)
		r.Patch("/settings", s.handleUpdateSettings)

		r.Get("/overview", s.handleOverview)
		r.Get("/obligations", s.handleObligations)
		r.Get("/activity", s.handleActivity)

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", s.handleListNotes)
			r.Post("/", s.handleCreateNote)
			r.Patch("/{id}", s.handleUpdateNote)
			r.Delete("/{id}", s.handleDeleteNote)
		})

		r.Route("/visitors", func(r chi.Router) {
			r.Get("/", s.handleListVisitors)
			r.Post("/", s.handleCreateVisitor)
			r.Get("/obligations", s.handleVisitorObligations)
			r.Patch("/attendance/{date}", s.handleRecordVisitorAttendance)
			r.Patch("/{id}", s.handleUpdateVisitor)
			r.Delete("/{id}", s.handleDeleteVisitor)
			r.Patch("/{id}/payments", s.handleRecordVisitorPayment)
			r.Patch("/{id}/stats", s.handleUpdateVisitorStats)
			r.Post("/{id}/promote", s.handlePromoteVisitor)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/rollover", s.handleRollover)
			r.Post("/reset-season", s.handleResetSeason)
			r.Post("/backup", s.handleBackup)
			r.Post("/migrate", s.handleMigrate)
			r.Get("/perf", s.handlePerf)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, okResponse{OK: false})
		})
	})

	if opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}

	s.router = r
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.limiter.Close()
}

// today returns the current date key in the club's zone.
func (s *Server) today() string {
	return period.DateKeyOf(s.deps.Now().In(s.deps.Location))
}

func csrfKey(key []byte, production bool) ([]byte, error) {
	if len(key) > 0 {
		return key, nil
	}
	if production {
		return nil, ErrCSRFKeyRequired
	}
	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate CSRF key: %w", err)
	}
	slog.Warn("csrf_event", "event", "random_key", "hint", "set CLUB_CSRF_KEY to keep tokens across restarts")
	return key, nil
}
