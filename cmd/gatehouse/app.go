// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/TomaszStojek/gatehouse/internal/auth"
	"github.com/TomaszStojek/gatehouse/internal/auth/memory"
	authpg "github.com/TomaszStojek/gatehouse/internal/auth/postgres"
	authredis "github.com/TomaszStojek/gatehouse/internal/auth/redis"
	"github.com/TomaszStojek/gatehouse/internal/config"
	"github.com/TomaszStojek/gatehouse/internal/store"
)

// app holds the stores and service selected by configuration.
type app struct {
	users    auth.UserDirectory
	sessions auth.SessionStore
	service  *auth.Service

	pool  *pgxpool.Pool
	redis *goredis.Client
}

// openApp connects the configured backends and builds the auth service.
// The caller must Close the result.
func openApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{}

	if cfg.NeedsDatabase() {
		pool, err := store.Connect(ctx, cfg.Database.URL, store.DefaultConnectOptions(), logger)
		if err != nil {
			return nil, oops.With("operation", "open stores").Wrap(err)
		}
		a.pool = pool
	}

	switch cfg.Directory.Store {
	case config.StorePostgres:
		a.users = authpg.NewUserRepository(a.pool)
	default:
		a.users = memory.NewUserDirectory()
	}

	switch cfg.Session.Store {
	case config.StorePostgres:
		a.sessions = authpg.NewSessionRepository(a.pool)
	case config.StoreRedis:
		client, err := authredis.Connect(ctx, authredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, oops.With("operation", "open stores").Wrap(err)
		}
		a.redis = client
		a.sessions = authredis.NewSessionStore(client)
	default:
		a.sessions = memory.NewSessionStore()
	}

	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		a.Close()
		return nil, oops.With("operation", "create hasher").Wrap(err)
	}

	a.service, err = auth.NewAuthServiceWithLogger(a.users, a.sessions, hasher, auth.ServiceConfig{
		SessionTTL: cfg.Session.TTL,
		Sliding:    cfg.Session.Sliding,
	}, logger)
	if err != nil {
		a.Close()
		return nil, oops.With("operation", "create auth service").Wrap(err)
	}

	logger.Info("stores ready",
		"directory_store", cfg.Directory.Store,
		"session_store", cfg.Session.Store,
	)
	return a, nil
}

// Ping checks every remote backend.
func (a *app) Ping(ctx context.Context) error {
	if a.pool != nil {
		if err := a.pool.Ping(ctx); err != nil {
			return oops.Code("DB_PING_FAILED").Wrap(err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return oops.Code("REDIS_PING_FAILED").Wrap(err)
		}
	}
	return nil
}

// Close releases backend connections.
func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Debug("error closing redis client", "error", err)
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
