package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"ledger/internal/access"
	"ledger/internal/auth"
	"ledger/internal/log"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type failure struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", log.FieldError, err.Error())
	}
}

func (s *Server) writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, status int, code string) {
	writeJSON(w, status, failure{Success: false, Code: code, Message: s.messages.Lookup(r, code)})
}

// writeError maps a service error onto the HTTP boundary. Permission denials
// are 403 with their reason code; timeouts 504; anything else is logged and
// rendered as a generic 500 for op.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op access.Operation, err error) {
	var denied *access.Denied
	switch {
	case errors.As(err, &denied):
		atomic.AddInt64(&s.denied, 1)
		s.writeFailure(w, r, http.StatusForbidden, denied.Reason)
	case errors.Is(err, context.DeadlineExceeded):
		atomic.AddInt64(&s.failures, 1)
		log.FromContext(r.Context()).WarnContext(r.Context(), "Request timed out",
			log.FieldOperation, string(op), log.FieldError, err.Error())
		s.writeFailure(w, r, http.StatusGatewayTimeout, codeTimeout)
	default:
		atomic.AddInt64(&s.failures, 1)
		log.NewStructuredLogger(log.FromContext(r.Context())).
			LogError(r.Context(), "Ledger operation failed", err, string(op), nil)
		s.writeFailure(w, r, http.StatusInternalServerError, errorCode(op))
	}
}

// rejectUnauthenticated renders auth failures as 401.
func (s *Server) rejectUnauthenticated(w http.ResponseWriter, r *http.Request, err error) {
	code := codeInvalidToken
	if errors.Is(err, auth.ErrMissingToken) {
		code = codeUnauthorized
	}
	log.FromContext(r.Context()).WarnContext(r.Context(), "Unauthenticated request",
		log.FieldPath, r.URL.Path, log.FieldError, err.Error())
	w.Header().Set("WWW-Authenticate", `Bearer realm="ledger"`)
	s.writeFailure(w, r, http.StatusUnauthorized, code)
}
