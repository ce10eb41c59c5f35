// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package redis implements auth.SessionStore on Redis. Records are JSON values
// keyed by token hash and expire through native key TTLs.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/TomaszStojek/gatehouse/internal/auth"
)

// KeyPrefix namespaces session keys.
const KeyPrefix = "session:"

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect opens a client and pings it once.
func Connect(ctx context.Context, opts Options) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, oops.Code("REDIS_CONNECT_FAILED").With("addr", opts.Addr).Wrap(err)
	}
	return client, nil
}

// SessionStore implements auth.SessionStore using Redis.
type SessionStore struct {
	client goredis.Cmdable
	now    func() time.Time
}

// NewSessionStore creates a store over client.
func NewSessionStore(client goredis.Cmdable) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

func key(id string) string {
	return KeyPrefix + id
}

// ttl is the remaining lifetime of s, or an error if it is already over.
func (r *SessionStore) ttl(s *auth.Session) (time.Duration, error) {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return 0, oops.Code("SESSION_ALREADY_EXPIRED").
			With("expires_at", s.ExpiresAt).
			Errorf("session expiry must be in the future")
	}
	return ttl, nil
}

// Create mints a token and stores the session under its hash with a TTL
// matching ExpiresAt.
func (r *SessionStore) Create(ctx context.Context, session *auth.Session) (string, error) {
	ttl, err := r.ttl(session)
	if err != nil {
		return "", err
	}

	token, hash, err := auth.GenerateSessionToken()
	if err != nil {
		return "", oops.Code("SESSION_CREATE_FAILED").With("operation", "generate token").Wrap(err)
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = r.now()
	}

	data, err := json.Marshal(session)
	if err != nil {
		return "", oops.Code("SESSION_CREATE_FAILED").With("operation", "marshal session").Wrap(err)
	}

	ok, err := r.client.SetNX(ctx, key(hash), data, ttl).Result()
	if err != nil {
		return "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "set session").
			With("username", session.Username).
			Wrap(err)
	}
	if !ok {
		return "", oops.Code("SESSION_CREATE_FAILED").Errorf("session id collision")
	}

	session.ID = hash
	return token, nil
}

// Get retrieves a session by plaintext token.
func (r *SessionStore) Get(ctx context.Context, token string) (*auth.Session, error) {
	id := auth.HashSessionToken(token)

	data, err := r.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SESSION_GET_FAILED").With("operation", "get session").Wrap(err)
	}

	var s auth.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, oops.Code("SESSION_DECODE_FAILED").With("operation", "unmarshal session").Wrap(err)
	}
	s.ID = id
	return &s, nil
}

// Update rewrites an existing session and resets its TTL. A session whose
// expiry has already passed is deleted instead.
func (r *SessionStore) Update(ctx context.Context, session *auth.Session) error {
	ttl, err := r.ttl(session)
	if err != nil {
		return r.Delete(ctx, session.ID)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return oops.Code("SESSION_UPDATE_FAILED").With("operation", "marshal session").Wrap(err)
	}

	ok, err := r.client.SetXX(ctx, key(session.ID), data, ttl).Result()
	if err != nil {
		return oops.Code("SESSION_UPDATE_FAILED").With("operation", "set session").Wrap(err)
	}
	if !ok {
		return oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	return nil
}

// Delete removes a session by ID.
func (r *SessionStore) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, key(id)).Result()
	if err != nil {
		return oops.Code("SESSION_DELETE_FAILED").With("operation", "delete session").Wrap(err)
	}
	if n == 0 {
		return oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	return nil
}

// DeleteExpired is a no-op: Redis evicts expired keys itself.
func (r *SessionStore) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}

// Compile-time interface check.
var _ auth.SessionStore = (*SessionStore)(nil)
