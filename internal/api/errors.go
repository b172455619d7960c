package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/gray-logic-lamps/internal/lamp"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeInternal         = "internal_error"
	ErrCodeValidation       = "validation_error"
	ErrCodeMalformedState   = "malformed_state"
	ErrCodeStoreUnavailable = "store_unavailable"
	ErrCodeMethodNotAllow   = "method_not_allowed"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeValidationError writes a 422 error response.
func writeValidationError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeLampError maps a lamp service error to its response.
// Store and parse details go to the log only.
func (s *Server) writeLampError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, lamp.ErrUnknownLamp):
		writeValidationError(w, "name must be one of lamp1, lamp2, lamp3, lamp4")
	case errors.Is(err, lamp.ErrInvalidStatus):
		writeValidationError(w, `status must be "on" or "off"`)
	case errors.Is(err, lamp.ErrMalformedState):
		s.logger.Error("malformed lamp state", "error", err, "path", r.URL.Path, "request_id", requestID(r))
		writeError(w, http.StatusInternalServerError, ErrCodeMalformedState, "stored lamp state is malformed")
	case errors.Is(err, lamp.ErrStoreUnavailable):
		s.logger.Error("lamp store unavailable", "error", err, "path", r.URL.Path, "request_id", requestID(r))
		writeError(w, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "lamp store is unavailable")
	default:
		s.logger.Error("lamp request failed", "error", err, "path", r.URL.Path, "request_id", requestID(r))
		writeInternalError(w, "internal server error")
	}
}
