// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/TomaszStojek/gatehouse/internal/validate"
	"github.com/TomaszStojek/gatehouse/pkg/errutil"
)

// ServiceConfig tunes session lifetime.
type ServiceConfig struct {
	// SessionTTL is added to the current time at register and login.
	SessionTTL time.Duration

	// Sliding pushes expiry forward on every Touch. Off by default: a session
	// then expires SessionTTL after login regardless of activity.
	Sliding bool
}

// Service provides registration, login and role management.
type Service struct {
	users    UserDirectory
	sessions SessionStore
	hasher   PasswordHasher
	logger   *slog.Logger
	cfg      ServiceConfig
	now      func() time.Time

	// dummyHash is verified when a user doesn't exist so that unknown
	// usernames cost the same as wrong passwords. It hashes a random string
	// with the hasher's own cost, so no password is known to produce it.
	dummyHash string
}

// NewAuthService creates a new Service using the default logger.
func NewAuthService(users UserDirectory, sessions SessionStore, hasher PasswordHasher, cfg ServiceConfig) (*Service, error) {
	return NewAuthServiceWithLogger(users, sessions, hasher, cfg, slog.Default())
}

// NewAuthServiceWithLogger creates a new Service with an explicit logger.
func NewAuthServiceWithLogger(users UserDirectory, sessions SessionStore, hasher PasswordHasher, cfg ServiceConfig, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE").Errorf("user directory is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE").Errorf("session store is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE").Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE").Errorf("logger is required")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	dummyHash, err := hasher.Hash(rand.Text())
	if err != nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE").
			With("operation", "hash dummy password").
			Wrap(err)
	}
	return &Service{
		users:     users,
		sessions:  sessions,
		hasher:    hasher,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
		dummyHash: dummyHash,
	}, nil
}

// SetClock replaces the time source. Intended for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Register creates a user with the default role and establishes an
// authenticated session for it. Returns the new session and its plaintext token.
// Validation failures happen before any store write.
func (s *Service) Register(ctx context.Context, current *Session, form validate.RegistrationForm) (*Session, string, error) {
	if err := validate.Registration(form); err != nil {
		s.logger.DebugContext(ctx, "registration rejected", "error", err)
		return nil, "", oops.Code("AUTH_VALIDATION_FAILED").Wrap(err)
	}

	hash, err := s.hasher.Hash(form.Password)
	if err != nil {
		return nil, "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(form.Username, form.DisplayName, hash)
	if err != nil {
		return nil, "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "build user").
			Wrap(err)
	}

	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, "", oops.Code("AUTH_USERNAME_TAKEN").
				With("username", user.Username).
				Wrap(err)
		}
		return nil, "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "insert user").
			With("username", user.Username).
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "user registered", "username", user.Username)

	return s.establish(ctx, current, user)
}

// Login verifies credentials and establishes an authenticated session carrying
// the stored role. On failure current is left untouched.
func (s *Service) Login(ctx context.Context, current *Session, form validate.LoginForm) (*Session, string, error) {
	if err := validate.Login(form); err != nil {
		s.logger.DebugContext(ctx, "login rejected", "error", err)
		return nil, "", oops.Code("AUTH_VALIDATION_FAILED").Wrap(err)
	}

	user, lookupErr := s.users.FindByUsername(ctx, form.Username)

	var targetHash string
	var userExists bool

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "find user by username").
				Wrap(lookupErr)
		}
		targetHash = s.dummyHash
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	// Always verify so that unknown users take as long as wrong passwords.
	valid, verifyErr := s.hasher.Verify(form.Password, targetHash)
	if verifyErr != nil {
		if !userExists {
			s.logger.DebugContext(ctx, "login failed", "reason", "user not found")
			return nil, "", invalidCredentials()
		}
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			With("username", form.Username).
			Wrap(verifyErr)
	}

	if !userExists {
		s.logger.DebugContext(ctx, "login failed", "reason", "user not found")
		return nil, "", invalidCredentials()
	}
	if !valid {
		s.logger.DebugContext(ctx, "login failed", "reason", "incorrect password", "username", user.Username)
		return nil, "", invalidCredentials()
	}

	if s.hasher.NeedsUpgrade(user.PasswordHash) {
		s.upgradeHash(ctx, user, form.Password)
	}

	s.logger.InfoContext(ctx, "user logged in", "username", user.Username)

	return s.establish(ctx, current, user)
}

// Logout destroys the current session. Calling it for an anonymous or
// already-destroyed session is not an error.
func (s *Service) Logout(ctx context.Context, current *Session) error {
	if !current.Persisted() {
		return nil
	}
	if err := s.sessions.Delete(ctx, current.ID); err != nil && !errors.Is(err, ErrNotFound) {
		return oops.Code("AUTH_LOGOUT_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}
	s.logger.InfoContext(ctx, "user logged out", "username", current.Username)
	return nil
}

// Touch extends an authenticated session by another TTL when sliding expiry is
// enabled. With a fixed window it does nothing.
func (s *Service) Touch(ctx context.Context, current *Session) error {
	if !s.cfg.Sliding || !current.Persisted() || !current.Authenticated {
		return nil
	}
	current.ExpiresAt = s.now().Add(s.cfg.SessionTTL)
	if err := s.sessions.Update(ctx, current); err != nil {
		return oops.Code("AUTH_SESSION_TOUCH_FAILED").
			With("operation", "update session").
			Wrap(err)
	}
	return nil
}

// ListUsers returns every user's name and role for the admin view.
func (s *Service) ListUsers(ctx context.Context) ([]UserSummary, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, oops.Code("AUTH_LIST_USERS_FAILED").
			With("operation", "list users").
			Wrap(err)
	}
	return users, nil
}

// Promote grants the admin role.
func (s *Service) Promote(ctx context.Context, username string) error {
	return s.SetRole(ctx, username, RoleAdmin)
}

// Demote reverts a user to the default role.
func (s *Service) Demote(ctx context.Context, username string) error {
	return s.SetRole(ctx, username, RoleUser)
}

// SetRole changes a user's role. Sessions already issued keep the role they
// were created with until the user logs in again.
func (s *Service) SetRole(ctx context.Context, username string, role Role) error {
	if !role.Valid() {
		return oops.Code("AUTH_INVALID_ROLE").With("role", string(role)).Wrap(ErrInvalidRole)
	}
	if err := s.users.SetRole(ctx, username, role); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("USER_NOT_FOUND").With("username", username).Wrap(err)
		}
		return oops.Code("AUTH_SET_ROLE_FAILED").
			With("operation", "set role").
			With("username", username).
			With("role", string(role)).
			Wrap(err)
	}
	s.logger.InfoContext(ctx, "user role changed", "username", username, "role", string(role))
	return nil
}

// establish replaces current with a fresh authenticated session for user.
func (s *Service) establish(ctx context.Context, current *Session, user *User) (*Session, string, error) {
	session, err := NewAuthenticatedSession(user, s.now().Add(s.cfg.SessionTTL))
	if err != nil {
		return nil, "", oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "build session").
			Wrap(err)
	}

	token, err := s.sessions.Create(ctx, session)
	if err != nil {
		return nil, "", oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "persist session").
			Wrap(err)
	}

	// Rotate: the previous token must not stay valid alongside the new one.
	if current.Persisted() {
		if err := s.sessions.Delete(ctx, current.ID); err != nil && !errors.Is(err, ErrNotFound) {
			errutil.LogError(s.logger, "failed to delete replaced session", err)
		}
	}

	return session, token, nil
}

// upgradeHash re-hashes with the configured cost. Login succeeds regardless.
func (s *Service) upgradeHash(ctx context.Context, user *User, password string) {
	newHash, err := s.hasher.Hash(password)
	if err != nil {
		errutil.LogError(s.logger, "failed to re-hash password", err)
		return
	}
	if err := s.users.UpdatePasswordHash(ctx, user.Username, newHash); err != nil {
		errutil.LogError(s.logger, "failed to store upgraded password hash", err)
		return
	}
	user.PasswordHash = newHash
}

func invalidCredentials() error {
	return oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
}
