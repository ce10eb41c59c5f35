// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package auth provides authentication primitives for Gatehouse.
//
// # Domain Types
//
// User and Session should be created using their constructors:
//   - NewUser - creates a User with the default role from a precomputed hash
//   - NewAuthenticatedSession - creates the session issued by register and login
//
// Direct struct initialization bypasses validation and may create invalid state.
//
// # Storage
//
// UserDirectory and SessionStore are implemented by the postgres, redis and
// memory subpackages. Session records are keyed by the SHA-256 of the token;
// the plaintext token only ever lives in the client cookie.
//
// # Services
//
// Service coordinates register, login, logout and role changes. It is created
// with NewAuthService, which validates its dependencies.
package auth
