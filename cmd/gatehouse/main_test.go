// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// memoryStores points every backend at memory so commands need no services.
func memoryStores(t *testing.T) {
	t.Helper()
	t.Setenv("GATEHOUSE_SESSION_STORE", "memory")
	t.Setenv("GATEHOUSE_DIRECTORY_STORE", "memory")
	t.Setenv("GATEHOUSE_LOG_LEVEL", "error")
}

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	output, err := execute(t, "--help")
	require.NoError(t, err)

	for _, sub := range []string{"serve", "migrate", "user", "sessions"} {
		assert.Contains(t, output, sub, "Help missing %q command", sub)
	}
}

func TestRootCommand_ConfigFlag(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantFlag string
	}{
		{
			name:     "separate value",
			args:     []string{"--config", "/path/to/config.yaml", "--help"},
			wantFlag: "/path/to/config.yaml",
		},
		{
			name:     "equals form",
			args:     []string{"--config=/etc/gatehouse.yaml", "--help"},
			wantFlag: "/etc/gatehouse.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile = ""
			_, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFlag, configFile)
		})
	}
}

func TestRootCommand_ConfigFlagsPresent(t *testing.T) {
	output, err := execute(t, "serve", "--help")
	require.NoError(t, err)

	for _, flag := range []string{
		"--config", "--env-file", "--http-addr", "--metrics-addr", "--log-format",
		"--log-level", "--database-url", "--session-store", "--directory-store",
	} {
		assert.Contains(t, output, flag)
	}
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	memoryStores(t)
	_, err := execute(t, "sessions", "purge", "--session-store", "mongo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session.store")
}

func TestSessionsPurge_Memory(t *testing.T) {
	memoryStores(t)
	output, err := execute(t, "sessions", "purge")
	require.NoError(t, err)
	assert.Contains(t, output, "Deleted 0 expired session(s)")
}

func TestUserSetRole(t *testing.T) {
	memoryStores(t)

	t.Run("rejects unknown role before opening stores", func(t *testing.T) {
		_, err := execute(t, "user", "set-role", "a@x.com", "root")
		require.Error(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := execute(t, "user", "set-role", "a@x.com", "admin")
		require.Error(t, err)
	})

	t.Run("requires two arguments", func(t *testing.T) {
		_, err := execute(t, "user", "set-role", "a@x.com")
		require.Error(t, err)
	})
}

func TestUserList_Memory(t *testing.T) {
	memoryStores(t)
	output, err := execute(t, "user", "list")
	require.NoError(t, err)
	assert.Empty(t, output)
}
