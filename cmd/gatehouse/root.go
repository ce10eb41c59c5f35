// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/TomaszStojek/gatehouse/internal/config"
	"github.com/TomaszStojek/gatehouse/internal/logging"
)

const serviceName = "gatehouse"

// Global flags available to all subcommands.
var (
	configFile string
	envFile    string
)

// NewRootCmd creates the root command for the Gatehouse CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gatehouse",
		Short: "Gatehouse - registration, login and role-gated sessions",
		Long: `Gatehouse registers users, authenticates them into server-side sessions,
and gates member and admin routes on those sessions.`,
		SilenceUsage: true,
	}

	defaults := config.Defaults()
	pf := cmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (YAML)")
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file applied before reading GATEHOUSE_* variables")
	pf.String("http-addr", defaults["http.addr"].(string), "application HTTP listen address")
	pf.String("metrics-addr", defaults["metrics.addr"].(string), "metrics/health HTTP address (empty = disabled)")
	pf.String("log-format", defaults["log.format"].(string), "log format (json or text)")
	pf.String("log-level", defaults["log.level"].(string), "log level (debug, info, warn, error)")
	pf.String("database-url", "", "PostgreSQL connection URL")
	pf.String("session-store", defaults["session.store"].(string), "session backend (postgres, redis or memory)")
	pf.String("directory-store", defaults["directory.store"].(string), "user directory backend (postgres or memory)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewUserCmd())
	cmd.AddCommand(NewSessionsCmd())

	return cmd
}

// loadConfig resolves configuration for cmd from every source.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	opts := config.LoadOptions{
		File:  configFile,
		Flags: cmd.Flags(),
	}
	if envFile != "" {
		opts.EnvFiles = []string{envFile}
	}
	//nolint:wrapcheck // config errors already carry codes and context
	return config.Load(opts)
}

// newLogger builds the process logger and installs it as the slog default.
func newLogger(cfg *config.Config) *slog.Logger {
	return logging.SetDefault(logging.Options{
		Service: serviceName,
		Version: version,
		Format:  cfg.Log.Format,
		Level:   cfg.Log.Level,
	})
}
