// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package memory provides process-local auth stores for development and tests.
// Contents are lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/TomaszStojek/gatehouse/internal/auth"
)

// UserDirectory implements auth.UserDirectory in memory.
type UserDirectory struct {
	mu    sync.RWMutex
	users map[string]auth.User
}

// NewUserDirectory creates an empty directory.
func NewUserDirectory() *UserDirectory {
	return &UserDirectory{users: make(map[string]auth.User)}
}

// Insert stores a new user. The check and write share one lock, so concurrent
// inserts of the same username yield exactly one success.
func (d *UserDirectory) Insert(_ context.Context, user *auth.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.users[user.Username]; exists {
		return oops.Code("USER_USERNAME_TAKEN").With("username", user.Username).Wrap(auth.ErrUsernameTaken)
	}
	d.users[user.Username] = *user
	return nil
}

// FindByUsername retrieves a copy of the user.
func (d *UserDirectory) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[username]
	if !ok {
		return nil, oops.Code("USER_NOT_FOUND").With("username", username).Wrap(auth.ErrNotFound)
	}
	return &u, nil
}

// ListAll returns every user ordered by username.
func (d *UserDirectory) ListAll(context.Context) ([]auth.UserSummary, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]auth.UserSummary, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, auth.UserSummary{Username: u.Username, Role: u.Role})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// SetRole changes a user's role.
func (d *UserDirectory) SetRole(_ context.Context, username string, role auth.Role) error {
	return d.modify(username, func(u *auth.User) { u.Role = role })
}

// UpdatePasswordHash replaces a user's stored hash.
func (d *UserDirectory) UpdatePasswordHash(_ context.Context, username, hash string) error {
	return d.modify(username, func(u *auth.User) { u.PasswordHash = hash })
}

func (d *UserDirectory) modify(username string, fn func(*auth.User)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.users[username]
	if !ok {
		return oops.Code("USER_NOT_FOUND").With("username", username).Wrap(auth.ErrNotFound)
	}
	fn(&u)
	d.users[username] = u
	return nil
}

// SessionStore implements auth.SessionStore in memory.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]auth.Session
	now      func() time.Time
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]auth.Session), now: time.Now}
}

// SetClock replaces the time source used by DeleteExpired.
func (s *SessionStore) SetClock(now func() time.Time) {
	s.now = now
}

// Create mints a token and stores the session under its hash.
func (s *SessionStore) Create(_ context.Context, session *auth.Session) (string, error) {
	token, hash, err := auth.GenerateSessionToken()
	if err != nil {
		return "", oops.Code("SESSION_CREATE_FAILED").With("operation", "generate token").Wrap(err)
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = s.now()
	}
	session.ID = hash

	s.mu.Lock()
	s.sessions[hash] = *session
	s.mu.Unlock()
	return token, nil
}

// Get retrieves a copy of the session for token.
func (s *SessionStore) Get(_ context.Context, token string) (*auth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[auth.HashSessionToken(token)]
	if !ok {
		return nil, oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	return &sess, nil
}

// Update rewrites an existing session.
func (s *SessionStore) Update(_ context.Context, session *auth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; !ok {
		return oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	s.sessions[session.ID] = *session
	return nil
}

// Delete removes a session by ID.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	delete(s.sessions, id)
	return nil
}

// DeleteExpired removes all expired sessions and returns the count.
func (s *SessionStore) DeleteExpired(context.Context) (int64, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, sess := range s.sessions {
		if sess.IsExpiredAt(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len reports how many sessions are stored.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Compile-time interface checks.
var (
	_ auth.UserDirectory = (*UserDirectory)(nil)
	_ auth.SessionStore  = (*SessionStore)(nil)
)
