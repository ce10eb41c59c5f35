// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package errutil_test

import (
	"context"
	"testing"

	"github.com/samber/oops"

	"github.com/TomaszStojek/gatehouse/pkg/errutil"
)

func TestAssertErrorCode_MatchingCode(t *testing.T) {
	err := oops.Code("USER_NOT_FOUND").Errorf("no such user")
	errutil.AssertErrorCode(t, err, "USER_NOT_FOUND")
}

func TestAssertErrorContext_MatchingKeyValue(t *testing.T) {
	err := oops.With("username", "a@x.com").Errorf("lookup failed")
	errutil.AssertErrorContext(t, err, "username", "a@x.com")
}

func TestAssertNoSecret_CleanError(t *testing.T) {
	err := oops.Code("AUTH_INVALID_CREDENTIALS").With("username", "a@x.com").Errorf("invalid credentials")
	errutil.AssertNoSecret(t, err, "hunter2")
}

func TestAssertNoSecret_NilError(t *testing.T) {
	errutil.AssertNoSecret(t, nil, "hunter2")
}

func TestAssertNoSecret_PlainError(t *testing.T) {
	errutil.AssertNoSecret(t, context.Canceled, "hunter2")
}
