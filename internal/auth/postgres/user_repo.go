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

// UserRepository implements auth.UserDirectory using PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Insert stores a new user. The primary key on username makes concurrent
// registrations of the same name race-free.
func (r *UserRepository) Insert(ctx context.Context, user *auth.User) error {
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (username, display_name, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`, user.Username, user.DisplayName, user.PasswordHash, string(user.Role), createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("USER_USERNAME_TAKEN").
				With("username", user.Username).
				Wrap(auth.ErrUsernameTaken)
		}
		return oops.Code("USER_INSERT_FAILED").
			With("operation", "insert user").
			With("username", user.Username).
			Wrap(err)
	}
	return nil
}

// FindByUsername retrieves a user by exact username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	var (
		user auth.User
		role string
	)
	err := r.db.QueryRow(ctx, `
		SELECT username, display_name, password_hash, role, created_at
		FROM users
		WHERE username = $1
	`, username).Scan(&user.Username, &user.DisplayName, &user.PasswordHash, &role, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").With("username", username).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_FIND_FAILED").
			With("operation", "find user by username").
			With("username", username).
			Wrap(err)
	}

	parsed, err := auth.ParseRole(role)
	if err != nil {
		return nil, oops.Code("USER_INVALID_ROW").With("username", username).Wrap(err)
	}
	user.Role = parsed
	return &user, nil
}

// ListAll returns every user's name and role ordered by username.
func (r *UserRepository) ListAll(ctx context.Context) ([]auth.UserSummary, error) {
	rows, err := r.db.Query(ctx, `SELECT username, role FROM users ORDER BY username`)
	if err != nil {
		return nil, oops.Code("USER_LIST_FAILED").With("operation", "list users").Wrap(err)
	}
	defer rows.Close()

	users := []auth.UserSummary{}
	for rows.Next() {
		var s auth.UserSummary
		var role string
		if err := rows.Scan(&s.Username, &role); err != nil {
			return nil, oops.Code("USER_SCAN_FAILED").With("operation", "scan user row").Wrap(err)
		}
		s.Role = auth.Role(role)
		users = append(users, s)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("USER_ROWS_ERROR").With("operation", "iterate user rows").Wrap(err)
	}
	return users, nil
}

// SetRole changes a user's role.
func (r *UserRepository) SetRole(ctx context.Context, username string, role auth.Role) error {
	result, err := r.db.Exec(ctx, `
		UPDATE users SET role = $2, updated_at = NOW()
		WHERE username = $1
	`, username, string(role))
	if err != nil {
		return oops.Code("USER_SET_ROLE_FAILED").
			With("operation", "update role").
			With("username", username).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").With("username", username).Wrap(auth.ErrNotFound)
	}
	return nil
}

// UpdatePasswordHash replaces a user's stored hash.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = NOW()
		WHERE username = $1
	`, username, hash)
	if err != nil {
		return oops.Code("USER_UPDATE_HASH_FAILED").
			With("operation", "update password hash").
			With("username", username).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").With("username", username).Wrap(auth.ErrNotFound)
	}
	return nil
}

// Compile-time interface check.
var _ auth.UserDirectory = (*UserRepository)(nil)
