// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/TomaszStojek/gatehouse/internal/auth"
	"github.com/TomaszStojek/gatehouse/internal/validate"
	"github.com/TomaszStojek/gatehouse/pkg/errutil"
)

// Client-facing messages. Credential failures never say which half was wrong.
const (
	msgInvalidCredentials = "wrong password or username"
	msgLoginRetry         = "invalid login, please try again"
	msgUsernameTaken      = "username already registered"
	msgForbidden          = "insufficient role"
	msgUnauthenticated    = "authentication required"
	msgNotFound           = "not found"
	msgInternal           = "internal server error"
	msgPageNotFound       = "Page not found - 404"
)

type errorResponse struct {
	Error  string                `json:"error"`
	Code   string                `json:"code,omitempty"`
	Fields []validate.FieldError `json:"fields,omitempty"`
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind auth.Kind) int {
	switch kind {
	case auth.KindNone:
		return http.StatusOK
	case auth.KindValidation:
		return http.StatusBadRequest
	case auth.KindAuthFailure, auth.KindUnauthenticated:
		return http.StatusUnauthorized
	case auth.KindAuthorization:
		return http.StatusForbidden
	case auth.KindNotFound:
		return http.StatusNotFound
	case auth.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := auth.KindOf(err)
	status := statusFor(kind)

	body := errorResponse{Code: errutil.Code(err)}
	switch kind {
	case auth.KindValidation:
		body.Error = err.Error()
		var verr *validate.Error
		switch {
		case errors.As(err, &verr) && verr.Form == validate.FormLogin:
			body.Error = msgLoginRetry
		case verr != nil:
			body.Error = "invalid " + verr.Form + " input"
			body.Fields = verr.Fields
		}
	case auth.KindAuthFailure:
		body.Error = msgInvalidCredentials
	case auth.KindUnauthenticated:
		body.Error = msgUnauthenticated
	case auth.KindAuthorization:
		body.Error = msgForbidden
	case auth.KindNotFound:
		body.Error = msgNotFound
	case auth.KindConflict:
		body.Error = msgUsernameTaken
	default:
		errutil.LogErrorContext(r.Context(), s.logger, "request failed", err,
			"method", r.Method, "path", r.URL.Path)
		body = errorResponse{Error: msgInternal}
	}

	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // client may disconnect
	json.NewEncoder(w).Encode(v)
}
