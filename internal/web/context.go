// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package web

import (
	"context"

	"github.com/TomaszStojek/gatehouse/internal/auth"
)

type sessionKey struct{}

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess *auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFrom returns the session on ctx, or a fresh anonymous one.
func SessionFrom(ctx context.Context) *auth.Session {
	if sess, ok := ctx.Value(sessionKey{}).(*auth.Session); ok && sess != nil {
		return sess
	}
	return auth.Anonymous()
}
