package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hearthway/hearth-core/internal/service"
)

// handleListServices returns the registered service names.
func (s *Server) handleListServices(w http.ResponseWriter, _ *http.Request) {
	names := s.services.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"services": names,
		"total":    len(names),
	})
}

// handleCallService invokes a registered service with JSON parameters.
// The audit source identifies the calling user.
func (s *Server) handleCallService(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	name := chi.URLParam(r, "name")

	params := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	source := "api"
	if claims := claimsFromContext(r.Context()); claims != nil {
		source = "api:" + claims.Subject
	}

	result, err := s.services.Call(r.Context(), domain, name, source, params)
	if err != nil {
		s.writeServiceError(w, domain, name, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"result": result,
	})
}

// writeServiceError maps service call failures onto HTTP responses.
// Validation failures and unknown services are client errors; passthrough
// domain errors surface with their message; wrapped failures are 500s.
func (s *Server) writeServiceError(w http.ResponseWriter, domain, name string, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownService):
		writeNotFound(w, "service not found: "+domain+"."+name)
	case errors.Is(err, service.ErrInvalidField),
		errors.Is(err, service.ErrMissingField),
		errors.Is(err, service.ErrOutOfRange):
		writeValidationError(w, err.Error())
	case errors.Is(err, service.ErrServiceFailed):
		s.logger.Error("service call failed", "domain", domain, "name", name, "error", err)
		writeInternalError(w, "service call failed")
	default:
		// Passthrough domain error (auth expired, no active device, ...).
		writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
	}
}
