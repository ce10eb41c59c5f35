// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package config loads Gatehouse settings. Sources are layered, later ones
// winning: built-in defaults, an optional YAML file, GATEHOUSE_* environment
// variables (after .env files are applied), then explicitly set flags.
package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

// EnvPrefix is stripped from environment variable names.
const EnvPrefix = "GATEHOUSE_"

// Store backends.
const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Config is the fully resolved configuration.
type Config struct {
	HTTP      HTTPConfig      `koanf:"http"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Log       LogConfig       `koanf:"log"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Session   SessionConfig   `koanf:"session"`
	Directory DirectoryConfig `koanf:"directory"`
	Auth      AuthConfig      `koanf:"auth"`
}

// HTTPConfig configures the application listener.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

// MetricsConfig configures the observability listener. Empty Addr disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// LogConfig selects log format and level.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// DatabaseConfig holds the PostgreSQL connection string.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// SessionConfig selects the session backend and lifetime policy.
type SessionConfig struct {
	Store        string        `koanf:"store"`
	TTL          time.Duration `koanf:"ttl"`
	Sliding      bool          `koanf:"sliding"`
	CookieSecure bool          `koanf:"cookie_secure"`
}

// DirectoryConfig selects the user directory backend.
type DirectoryConfig struct {
	Store string `koanf:"store"`
}

// AuthConfig tunes credential hashing.
type AuthConfig struct {
	BcryptCost int `koanf:"bcrypt_cost"`
}

// Defaults returns the built-in values for every key.
func Defaults() map[string]any {
	return map[string]any{
		"http.addr":             ":3000",
		"metrics.addr":          "127.0.0.1:9100",
		"log.format":            "json",
		"log.level":             "info",
		"database.url":          "",
		"redis.addr":            "localhost:6379",
		"redis.password":        "",
		"redis.db":              0,
		"session.store":         StorePostgres,
		"session.ttl":           time.Hour,
		"session.sliding":       false,
		"session.cookie_secure": false,
		"directory.store":       StorePostgres,
		"auth.bcrypt_cost":      12,
	}
}

// LoadOptions names the optional sources.
type LoadOptions struct {
	// File is a YAML config path. Empty skips the file layer.
	File string
	// EnvFiles are dotenv files applied to the process environment before the
	// environment layer is read. Missing files are ignored. Variables already
	// set in the environment are not overwritten.
	EnvFiles []string
	// Flags, when set, contributes every flag the user changed.
	Flags *pflag.FlagSet
}

// Load resolves and validates the configuration.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "defaults").Wrap(err)
	}

	if opts.File != "" {
		if err := k.Load(file.Provider(opts.File), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("source", "file").
				With("path", opts.File).
				Wrap(err)
		}
	}

	for _, path := range opts.EnvFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("source", "dotenv").
				With("path", path).
				Wrap(err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}

	if opts.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(opts.Flags, ".", k, flagKey(opts.Flags)), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "unmarshal").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps GATEHOUSE_SESSION_COOKIE_SECURE to session.cookie_secure.
// Only the first underscore separates section from key.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

// flagKey maps --session-cookie-secure to session.cookie_secure. Flags that
// don't name a config key (such as --config) are skipped.
func flagKey(fs *pflag.FlagSet) func(*pflag.Flag) (string, any) {
	known := Defaults()
	return func(f *pflag.Flag) (string, any) {
		key := strings.ReplaceAll(strings.Replace(f.Name, "-", ".", 1), "-", "_")
		if _, ok := known[key]; !ok {
			return "", nil
		}
		return key, posflag.FlagVal(fs, f)
	}
}

// Validate checks individual values and the combinations between them.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return invalid("http.addr", "is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return invalid("log.format", "must be 'json' or 'text', got %q", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log.level", "must be debug, info, warn or error, got %q", c.Log.Level)
	}

	switch c.Session.Store {
	case StorePostgres, StoreRedis, StoreMemory:
	default:
		return invalid("session.store", "must be postgres, redis or memory, got %q", c.Session.Store)
	}
	switch c.Directory.Store {
	case StorePostgres, StoreMemory:
	default:
		return invalid("directory.store", "must be postgres or memory, got %q", c.Directory.Store)
	}

	if c.NeedsDatabase() && c.Database.URL == "" {
		return invalid("database.url", "is required when a postgres store is selected")
	}
	// Session rows reference users by foreign key.
	if c.Session.Store == StorePostgres && c.Directory.Store != StorePostgres {
		return invalid("session.store", "postgres sessions require directory.store postgres")
	}
	if c.Session.Store == StoreRedis && c.Redis.Addr == "" {
		return invalid("redis.addr", "is required when session.store is redis")
	}
	if c.Redis.DB < 0 {
		return invalid("redis.db", "must not be negative, got %d", c.Redis.DB)
	}

	if c.Session.TTL <= 0 {
		return invalid("session.ttl", "must be positive, got %s", c.Session.TTL)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return invalid("auth.bcrypt_cost", "must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
	}
	return nil
}

// NeedsDatabase reports whether any selected store is PostgreSQL.
func (c *Config) NeedsDatabase() bool {
	return c.Session.Store == StorePostgres || c.Directory.Store == StorePostgres
}

func invalid(key, format string, args ...any) error {
	return oops.Code("CONFIG_INVALID").With("key", key).Errorf(key+" "+format, args...)
}
