// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"time"

	"github.com/samber/oops"
)

// Role is the authorization level recorded on a user and copied onto sessions at login.
type Role string

// Roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole converts s to a Role, rejecting anything outside the enum.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", oops.Code("AUTH_INVALID_ROLE").
			With("role", s).
			Wrap(ErrInvalidRole)
	}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the projection of a user record needed by authentication.
type User struct {
	Username     string
	DisplayName  string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// NewUser creates a User with the default role.
// The password hash must already be computed; the raw password never reaches this type.
func NewUser(username, displayName, passwordHash string) (*User, error) {
	if username == "" {
		return nil, oops.Code("USER_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	if passwordHash == "" {
		return nil, oops.Code("USER_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	return &User{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		CreatedAt:    time.Now(),
	}, nil
}

// UserSummary is what the admin listing exposes. The hash is deliberately absent.
type UserSummary struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// UserDirectory manages user persistence, keyed by username.
type UserDirectory interface {
	// Insert stores a new user. Returns ErrUsernameTaken if the username exists.
	Insert(ctx context.Context, user *User) error

	// FindByUsername retrieves a user by exact username.
	// Returns ErrNotFound if no user matches.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// ListAll returns every user ordered by username.
	ListAll(ctx context.Context) ([]UserSummary, error)

	// SetRole changes a user's role. Returns ErrNotFound if no user matches.
	SetRole(ctx context.Context, username string, role Role) error

	// UpdatePasswordHash replaces a user's stored hash.
	UpdatePasswordHash(ctx context.Context, username, hash string) error
}
