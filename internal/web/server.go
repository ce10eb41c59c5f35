// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package web exposes registration, login and the gated member and admin
// routes over HTTP.
package web

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/samber/oops"

	"github.com/TomaszStojek/gatehouse/internal/auth"
	"github.com/TomaszStojek/gatehouse/internal/validate"
)

// maxFormBytes bounds request bodies.
const maxFormBytes = 64 << 10

// AuthService is the subset of *auth.Service the routes drive.
type AuthService interface {
	Register(ctx context.Context, current *auth.Session, form validate.RegistrationForm) (*auth.Session, string, error)
	Login(ctx context.Context, current *auth.Session, form validate.LoginForm) (*auth.Session, string, error)
	Logout(ctx context.Context, current *auth.Session) error
	Touch(ctx context.Context, current *auth.Session) error
	ListUsers(ctx context.Context) ([]auth.UserSummary, error)
	Promote(ctx context.Context, username string) error
	Demote(ctx context.Context, username string) error
}

// Recorder receives counters for auth outcomes, gate refusals and requests.
// *observability.Metrics satisfies it.
type Recorder interface {
	RecordAuthAttempt(operation, outcome string)
	RecordGuardDenial(gate string)
	RecordRequest(route, status string)
}

type noopRecorder struct{}

func (noopRecorder) RecordAuthAttempt(string, string) {}
func (noopRecorder) RecordGuardDenial(string)         {}
func (noopRecorder) RecordRequest(string, string)     {}

// Options configures a Server. Auth and Sessions are required.
type Options struct {
	Auth     AuthService
	Sessions auth.SessionStore
	Logger   *slog.Logger
	Metrics  Recorder
	Cookie   CookieOptions
}

// Server holds the route handlers and their collaborators.
type Server struct {
	auth     AuthService
	sessions auth.SessionStore
	logger   *slog.Logger
	metrics  Recorder
	cookie   CookieOptions
	now      func() time.Time
	pick     func(n int) int
	router   chi.Router
}

// NewServer builds the router.
func NewServer(opts Options) (*Server, error) {
	if opts.Auth == nil {
		return nil, oops.Code("WEB_INVALID_SERVER").Errorf("auth service is required")
	}
	if opts.Sessions == nil {
		return nil, oops.Code("WEB_INVALID_SERVER").Errorf("session store is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = noopRecorder{}
	}

	s := &Server{
		auth:     opts.Auth,
		sessions: opts.Sessions,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		cookie:   opts.Cookie,
		now:      time.Now,
		pick:     rand.IntN,
	}
	s.router = s.routes()
	return s, nil
}

// SetClock replaces the time source used by the gates. Intended for tests.
func (s *Server) SetClock(now func() time.Time) {
	s.now = now
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.loadSession)

	r.Get("/", s.handleHome)
	r.Post("/submitUser", s.handleRegister)
	r.Post("/loggingin", s.handleLogin)
	r.Get("/logout", s.handleLogout)
	r.Post("/logout", s.handleLogout)

	r.With(s.requireSession).Get("/members", s.handleMembers)

	r.Route("/admin/users", func(r chi.Router) {
		r.Use(s.requireSession, s.requireRole(auth.RoleAdmin))
		r.Get("/", s.handleListUsers)
		r.Post("/{username}/promote", s.handlePromote)
		r.Post("/{username}/demote", s.handleDemote)
	})

	r.NotFound(s.handleNotFound)
	return r
}
