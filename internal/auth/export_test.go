// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

// DummyHash exposes the hash verified for unknown usernames.
func (s *Service) DummyHash() string {
	return s.dummyHash
}
