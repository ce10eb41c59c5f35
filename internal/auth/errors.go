// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"errors"

	"github.com/TomaszStojek/gatehouse/internal/validate"
)

// Sentinel errors. Repositories and services wrap these with oops context;
// callers classify with errors.Is or KindOf.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken is returned when inserting a user whose username already exists.
	ErrUsernameTaken = errors.New("username already registered")

	// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnauthenticated is returned when a gate requires an authenticated, unexpired session.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned when an authenticated session lacks the required role.
	ErrForbidden = errors.New("insufficient role")

	// ErrInvalidRole is returned for role values outside the Role enum.
	ErrInvalidRole = errors.New("invalid role")
)

// Kind classifies an error for transport-layer mapping.
type Kind int

// Error kinds, ordered roughly by how early in a request they occur.
const (
	KindNone Kind = iota
	KindValidation
	KindAuthFailure
	KindUnauthenticated
	KindAuthorization
	KindNotFound
	KindConflict
	KindStore
)

// String returns a stable, lowercase name usable as a metric label.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindValidation:
		return "validation"
	case KindAuthFailure:
		return "auth_failure"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindAuthorization:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "store"
	}
}

// KindOf classifies err. Anything not recognised is treated as a store failure.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	var verr *validate.Error
	switch {
	case errors.As(err, &verr), errors.Is(err, ErrInvalidRole):
		return KindValidation
	case errors.Is(err, ErrInvalidCredentials):
		return KindAuthFailure
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrForbidden):
		return KindAuthorization
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUsernameTaken):
		return KindConflict
	default:
		return KindStore
	}
}
