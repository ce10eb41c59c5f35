// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// NewSessionsCmd creates the sessions subcommand.
func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Maintain stored sessions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete expired sessions",
		Long: `Delete expired session records. Expired sessions are already refused at
request time; this only reclaims storage. Redis expires keys on its own.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				n, err := a.sessions.DeleteExpired(cmd.Context())
				if err != nil {
					return oops.With("operation", "purge sessions").Wrap(err)
				}
				cmd.Printf("Deleted %d expired session(s)\n", n)
				return nil
			})
		},
	})
	return cmd
}
