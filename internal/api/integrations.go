package api

import (
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/hearthway/hearth-core/internal/setup"
)

// integrationResponse is the wire shape of one supervised integration.
type integrationResponse struct {
	InstanceID string       `json:"instance_id"`
	Status     setup.Status `json:"status"`
}

// handleListIntegrations returns the status of every supervised
// integration instance, sorted by instance ID.
func (s *Server) handleListIntegrations(w http.ResponseWriter, _ *http.Request) {
	if s.supervisor == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"integrations": []integrationResponse{},
			"total":        0,
		})
		return
	}

	statuses := s.supervisor.Statuses()
	out := make([]integrationResponse, 0, len(statuses))
	for id, status := range statuses {
		out = append(out, integrationResponse{InstanceID: id, Status: status})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InstanceID < out[j].InstanceID })

	writeJSON(w, http.StatusOK, map[string]any{
		"integrations": out,
		"total":        len(out),
	})
}

// handleRetryIntegration forces an immediate setup retry for one instance.
func (s *Server) handleRetryIntegration(w http.ResponseWriter, r *http.Request) {
	if s.supervisor == nil {
		writeNotFound(w, "integrations are not enabled")
		return
	}

	id := chi.URLParam(r, "instanceID")
	if err := s.supervisor.Retry(r.Context(), id); err != nil {
		if errors.Is(err, setup.ErrInstanceNotFound) {
			writeNotFound(w, "integration not found: "+id)
			return
		}
		s.logger.Error("integration retry failed", "instance", id, "error", err)
		writeInternalError(w, "retry failed")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"instance_id": id,
		"retrying":    true,
	})
}
