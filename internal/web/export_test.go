// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package web

// SetPicker fixes which member image is shown.
func (s *Server) SetPicker(pick func(n int) int) {
	s.pick = pick
}
