package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-lamps/internal/lamp"
)

// handleListLamps returns every lamp in registry order.
func (s *Server) handleListLamps(w http.ResponseWriter, r *http.Request) {
	lamps, err := s.lamps.List(r.Context())
	if err != nil {
		s.writeLampError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lamps)
}

// handleListHardware returns every lamp in the compact {d, s} format.
func (s *Server) handleListHardware(w http.ResponseWriter, r *http.Request) {
	lamps, err := s.lamps.ListHardware(r.Context())
	if err != nil {
		s.writeLampError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lamps)
}

// handleUpdateLamp sets one lamp's status and echoes the stored record.
// Decoding into lamp.Lamp rejects unknown names and statuses before the
// store is touched.
func (s *Server) handleUpdateLamp(w http.ResponseWriter, r *http.Request) {
	var req lamp.Lamp
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeDecodeError(w, r, err)
		return
	}

	updated, err := s.lamps.Update(r.Context(), req, lamp.SourceAPI)
	if err != nil {
		s.writeLampError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleGetLamp returns one lamp. Unknown names are 404.
func (s *Server) handleGetLamp(w http.ResponseWriter, r *http.Request) {
	name, ok := s.lampParam(w, r)
	if !ok {
		return
	}

	l, err := s.lamps.Get(r.Context(), name)
	if err != nil {
		s.writeLampError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// lampParam parses the {name} path parameter, writing a 404 if it is not a
// registry lamp.
func (s *Server) lampParam(w http.ResponseWriter, r *http.Request) (lamp.Name, bool) {
	name, err := lamp.ParseName(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusNotFound, ErrCodeValidation, "lamp not found")
		return "", false
	}
	return name, true
}

// writeDecodeError reports a request body that could not be decoded.
func (s *Server) writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		writeError(w, http.StatusRequestEntityTooLarge, ErrCodeValidation, "request body too large")
	case errors.Is(err, lamp.ErrUnknownLamp), errors.Is(err, lamp.ErrInvalidStatus):
		s.writeLampError(w, r, err)
	default:
		writeValidationError(w, "request body must be a JSON object with name and status")
	}
}
