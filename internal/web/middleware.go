// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/TomaszStojek/gatehouse/internal/access"
	"github.com/TomaszStojek/gatehouse/internal/auth"
	"github.com/TomaszStojek/gatehouse/pkg/errutil"
)

// logRequests logs one line per request and counts it by route pattern.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.metrics.RecordRequest(route, strconv.Itoa(status))

		s.logger.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}

// loadSession resolves the cookie to a session and puts it on the context.
// Missing, unknown and expired tokens all yield an anonymous session; expired
// records are deleted here.
func (s *Server) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.resolveSession(w, r)
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

func (s *Server) resolveSession(w http.ResponseWriter, r *http.Request) *auth.Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return auth.Anonymous()
	}
	ctx := r.Context()

	sess, err := s.sessions.Get(ctx, cookie.Value)
	if err != nil {
		if !errors.Is(err, auth.ErrNotFound) {
			errutil.LogErrorContext(ctx, s.logger, "failed to load session", err)
		}
		ClearCookie(w, s.cookie)
		return auth.Anonymous()
	}

	if sess.IsExpiredAt(s.now()) {
		if err := s.sessions.Delete(ctx, sess.ID); err != nil && !errors.Is(err, auth.ErrNotFound) {
			errutil.LogErrorContext(ctx, s.logger, "failed to delete expired session", err)
		}
		s.logger.DebugContext(ctx, "session expired", "username", sess.Username)
		ClearCookie(w, s.cookie)
		return auth.Anonymous()
	}

	before := sess.ExpiresAt
	if err := s.auth.Touch(ctx, sess); err != nil {
		errutil.LogErrorContext(ctx, s.logger, "failed to extend session", err)
	} else if sess.ExpiresAt.After(before) {
		SetCookie(w, cookie.Value, sess.ExpiresAt, s.cookie)
	}
	return sess
}

// requireSession sends anonymous and expired sessions back to "/".
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := access.SessionGate(SessionFrom(r.Context()), s.now()); err != nil {
			s.deny(w, r, access.GateSession, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireRole refuses sessions without role with 403.
func (s *Server) requireRole(role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := access.RoleGate(SessionFrom(r.Context()), role, s.now())
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, auth.ErrUnauthenticated):
				s.deny(w, r, access.GateSession, err)
			default:
				s.deny(w, r, access.GateRole, err)
			}
		})
	}
}

func (s *Server) deny(w http.ResponseWriter, r *http.Request, gate string, err error) {
	s.metrics.RecordGuardDenial(gate)
	s.logger.DebugContext(r.Context(), "access denied",
		append([]any{"gate", gate, "path", r.URL.Path}, errutil.Attrs(err)...)...)

	if errors.Is(err, auth.ErrUnauthenticated) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.writeError(w, r, err)
}
