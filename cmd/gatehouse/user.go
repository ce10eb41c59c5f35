// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/TomaszStojek/gatehouse/internal/auth"
)

// NewUserCmd creates the user subcommand.
func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	setRole := &cobra.Command{
		Use:   "set-role <username> <role>",
		Short: "Change a user's role",
		Long: `Change a user's role to "user" or "admin". Use this to create the first
admin; afterwards admins can promote and demote over HTTP.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := auth.ParseRole(args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, func(a *app) error {
				if err := a.service.SetRole(cmd.Context(), args[0], role); err != nil {
					return err
				}
				cmd.Printf("%s is now %s\n", args[0], role)
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List users and their roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				users, err := a.service.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				for _, u := range users {
					cmd.Printf("%s\t%s\n", u.Username, u.Role)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(setRole, list)
	return cmd
}

// withApp opens the configured stores for a one-shot command.
func withApp(cmd *cobra.Command, fn func(*app) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context(), cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
