// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TomaszStojek/gatehouse/internal/auth"
	"github.com/TomaszStojek/gatehouse/internal/observability"
	"github.com/TomaszStojek/gatehouse/internal/validate"
)

// Operation labels for auth attempt metrics.
const (
	opRegister = "register"
	opLogin    = "login"
	opLogout   = "logout"
)

// Image is one of the member-area pictures.
type Image struct {
	Kind string `json:"kind"`
	Src  string `json:"src"`
}

var memberImages = []Image{
	{Kind: "beach", Src: "/beach.gif"},
	{Kind: "indoor", Src: "/indoor.gif"},
	{Kind: "grass", Src: "/grass.jpg"},
}

type homeResponse struct {
	Authenticated bool                  `json:"authenticated"`
	Greeting      string                `json:"greeting,omitempty"`
	Links         map[string]string     `json:"links,omitempty"`
	Forms         map[string]formAction `json:"forms,omitempty"`
}

// formAction describes a form a client submits as
// application/x-www-form-urlencoded.
type formAction struct {
	Method string   `json:"method"`
	Action string   `json:"action"`
	Fields []string `json:"fields"`
}

var anonymousForms = map[string]formAction{
	"signup": {Method: http.MethodPost, Action: "/submitUser", Fields: []string{"username", "name", "password"}},
	"login":  {Method: http.MethodPost, Action: "/loggingin", Fields: []string{"username", "password"}},
}

type membersResponse struct {
	Greeting string `json:"greeting"`
	Image    Image  `json:"image"`
	Logout   string `json:"logout"`
}

type roleResponse struct {
	Username string    `json:"username"`
	Role     auth.Role `json:"role"`
}

func greeting(sess *auth.Session) string {
	return "Hello, " + sess.DisplayName + "!"
}

func outcome(err error) string {
	switch auth.KindOf(err) {
	case auth.KindNone:
		return observability.OutcomeSuccess
	case auth.KindStore:
		return observability.OutcomeError
	default:
		return observability.OutcomeRejected
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	if !sess.Authenticated {
		writeJSON(w, http.StatusOK, homeResponse{Forms: anonymousForms})
		return
	}
	writeJSON(w, http.StatusOK, homeResponse{
		Authenticated: true,
		Greeting:      greeting(sess),
		Links: map[string]string{
			"logout":  "/logout",
			"members": "/members",
		},
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	form := validate.RegistrationForm{
		Username:    r.PostForm.Get("username"),
		DisplayName: r.PostForm.Get("name"),
		Password:    r.PostForm.Get("password"),
	}

	sess, token, err := s.auth.Register(r.Context(), SessionFrom(r.Context()), form)
	s.metrics.RecordAuthAttempt(opRegister, outcome(err))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	SetCookie(w, token, sess.ExpiresAt, s.cookie)
	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	form := validate.LoginForm{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}

	sess, token, err := s.auth.Login(r.Context(), SessionFrom(r.Context()), form)
	s.metrics.RecordAuthAttempt(opLogin, outcome(err))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	SetCookie(w, token, sess.ExpiresAt, s.cookie)
	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	err := s.auth.Logout(r.Context(), SessionFrom(r.Context()))
	s.metrics.RecordAuthAttempt(opLogout, outcome(err))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ClearCookie(w, s.cookie)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	writeJSON(w, http.StatusOK, membersResponse{
		Greeting: greeting(sess),
		Image:    memberImages[s.pick(len(memberImages))],
		Logout:   "/logout",
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.auth.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handlePromote(w http.ResponseWriter, r *http.Request) {
	s.changeRole(w, r, auth.RoleAdmin, s.auth.Promote)
}

func (s *Server) handleDemote(w http.ResponseWriter, r *http.Request) {
	s.changeRole(w, r, auth.RoleUser, s.auth.Demote)
}

func (s *Server) changeRole(w http.ResponseWriter, r *http.Request, role auth.Role, apply func(context.Context, string) error) {
	username := chi.URLParam(r, "username")
	if err := apply(r.Context(), username); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.InfoContext(r.Context(), "role changed by admin",
		"admin", SessionFrom(r.Context()).Username, "username", username, "role", string(role))
	writeJSON(w, http.StatusOK, roleResponse{Username: username, Role: role})
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	//nolint:errcheck // client may disconnect
	w.Write([]byte(msgPageNotFound))
}

// parseForm reads a bounded form body. On failure it has already responded.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "malformed form body",
			Code:  "WEB_FORM_INVALID",
		})
		s.logger.DebugContext(r.Context(), "form parse failed", "error", err)
		return false
	}
	return true
}
