// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package access gates protected operations on the session a request carries.
//
// A token moves through Anonymous -> Authenticated -> Expired|Destroyed.
// Expiry is evaluated lazily here at gate time; there is no background sweep.
package access

import (
	"time"

	"github.com/samber/oops"

	"github.com/TomaszStojek/gatehouse/internal/auth"
)

// Gate names, used for metrics and logs.
const (
	GateSession = "session"
	GateRole    = "role"
)

// State is the lifecycle position of a session.
type State int

// Session states.
const (
	StateAnonymous State = iota
	StateAuthenticated
	StateExpired
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateExpired:
		return "expired"
	default:
		return "anonymous"
	}
}

// StateOf reports where sess sits in its lifecycle at now. A destroyed session
// is never loaded, so callers see it as anonymous.
func StateOf(sess *auth.Session, now time.Time) State {
	switch {
	case sess == nil || !sess.Authenticated:
		return StateAnonymous
	case sess.IsExpiredAt(now):
		return StateExpired
	default:
		return StateAuthenticated
	}
}

// SessionGate passes iff sess is authenticated and unexpired at now.
func SessionGate(sess *auth.Session, now time.Time) error {
	state := StateOf(sess, now)
	if state == StateAuthenticated {
		return nil
	}
	return oops.Code("AUTH_UNAUTHENTICATED").
		With("state", state.String()).
		Wrap(auth.ErrUnauthenticated)
}

// RoleGate passes iff SessionGate passes and sess carries role.
// A session that fails SessionGate yields the SessionGate error, never ErrForbidden.
func RoleGate(sess *auth.Session, role auth.Role, now time.Time) error {
	if err := SessionGate(sess, now); err != nil {
		return err
	}
	if sess.Role != role {
		return oops.Code("AUTH_FORBIDDEN").
			With("required_role", string(role)).
			With("role", string(sess.Role)).
			Wrap(auth.ErrForbidden)
	}
	return nil
}
