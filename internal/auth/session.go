// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/samber/oops"
)

// Session token configuration.
const (
	SessionTokenBytes = 32        // 32 bytes = 64 hex chars
	DefaultSessionTTL = time.Hour // fixed window from login
)

// Session is the server-side state correlated to a client by an opaque token.
// The zero value is an anonymous, unpersisted session.
type Session struct {
	// ID is the SHA-256 hash of the token. Empty until a store persists the session.
	ID            string    `json:"-"`
	Authenticated bool      `json:"authenticated"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"display_name"`
	Role          Role      `json:"role"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// Anonymous returns a fresh unauthenticated session.
func Anonymous() *Session {
	return &Session{}
}

// NewAuthenticatedSession creates the session established by a successful register or login.
func NewAuthenticatedSession(user *User, expiresAt time.Time) (*Session, error) {
	if user == nil || user.Username == "" {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("session requires a user")
	}
	if !user.Role.Valid() {
		return nil, oops.Code("SESSION_INVALID_ROLE").With("role", string(user.Role)).Wrap(ErrInvalidRole)
	}
	if expiresAt.IsZero() {
		return nil, oops.Code("SESSION_INVALID_EXPIRY").Errorf("expiry time cannot be zero")
	}
	return &Session{
		Authenticated: true,
		Username:      user.Username,
		DisplayName:   user.DisplayName,
		Role:          user.Role,
		ExpiresAt:     expiresAt,
		CreatedAt:     time.Now(),
	}, nil
}

// Persisted reports whether a store holds this session.
func (s *Session) Persisted() bool {
	return s != nil && s.ID != ""
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return s.IsExpiredAt(time.Now())
}

// IsExpiredAt returns true if the session would be expired at the given time.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return t.After(s.ExpiresAt)
}

// GenerateSessionToken creates a secure random token and its hash.
// Returns (plaintext_token, sha256_hash, error).
// The plaintext token is sent to the client; the hash keys the stored record.
func GenerateSessionToken() (token, hash string, err error) {
	tokenBytes := make([]byte, SessionTokenBytes)
	if _, err = rand.Read(tokenBytes); err != nil {
		return "", "", oops.Code("SESSION_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", SessionTokenBytes).
			Wrap(err)
	}

	token = hex.EncodeToString(tokenBytes)
	return token, HashSessionToken(token), nil
}

// HashSessionToken computes the SHA256 hash of a session token.
func HashSessionToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// SessionStore persists sessions keyed by token hash.
// Implementations must honor ExpiresAt as a TTL; expired records may still be
// returned by Get and are rejected by the access gates.
type SessionStore interface {
	// Create mints a token, stores the session under its hash, sets session.ID
	// and returns the plaintext token.
	Create(ctx context.Context, session *Session) (string, error)

	// Get retrieves a session by plaintext token. Returns ErrNotFound if absent.
	Get(ctx context.Context, token string) (*Session, error)

	// Update rewrites a persisted session, including its TTL.
	Update(ctx context.Context, session *Session) error

	// Delete removes a session by ID. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes all expired sessions and returns the count
	// of deleted records.
	DeleteExpired(ctx context.Context) (int64, error)
}
