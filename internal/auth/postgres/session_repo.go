// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/TomaszStojek/gatehouse/internal/auth"
)

// SessionRepository implements auth.SessionStore using PostgreSQL.
type SessionRepository struct {
	db  DB
	now func() time.Time
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

// Create mints a token and stores the session under its hash.
func (r *SessionRepository) Create(ctx context.Context, session *auth.Session) (string, error) {
	token, hash, err := auth.GenerateSessionToken()
	if err != nil {
		return "", oops.Code("SESSION_CREATE_FAILED").With("operation", "generate token").Wrap(err)
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = r.now()
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO sessions (id, authenticated, username, display_name, role, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		hash,
		session.Authenticated,
		session.Username,
		session.DisplayName,
		string(session.Role),
		session.ExpiresAt,
		session.CreatedAt,
	)
	if err != nil {
		return "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "insert session").
			With("username", session.Username).
			Wrap(err)
	}

	session.ID = hash
	return token, nil
}

// Get retrieves a session by plaintext token.
func (r *SessionRepository) Get(ctx context.Context, token string) (*auth.Session, error) {
	var (
		s    auth.Session
		role string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, authenticated, username, display_name, role, expires_at, created_at
		FROM sessions
		WHERE id = $1
	`, auth.HashSessionToken(token)).Scan(
		&s.ID, &s.Authenticated, &s.Username, &s.DisplayName, &role, &s.ExpiresAt, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SESSION_GET_FAILED").With("operation", "get session by token hash").Wrap(err)
	}
	s.Role = auth.Role(role)
	return &s, nil
}

// Update rewrites the mutable fields of a persisted session.
func (r *SessionRepository) Update(ctx context.Context, session *auth.Session) error {
	result, err := r.db.Exec(ctx, `
		UPDATE sessions SET authenticated = $2, display_name = $3, role = $4, expires_at = $5
		WHERE id = $1
	`, session.ID, session.Authenticated, session.DisplayName, string(session.Role), session.ExpiresAt)
	if err != nil {
		return oops.Code("SESSION_UPDATE_FAILED").With("operation", "update session").Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	return nil
}

// Delete removes a session by ID.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return oops.Code("SESSION_DELETE_FAILED").With("operation", "delete session").Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	return nil
}

// DeleteExpired removes all expired sessions and returns the count.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, r.now())
	if err != nil {
		return 0, oops.Code("SESSION_DELETE_EXPIRED_FAILED").
			With("operation", "delete expired sessions").
			Wrap(err)
	}
	return result.RowsAffected(), nil
}

// Compile-time interface check.
var _ auth.SessionStore = (*SessionRepository)(nil)
