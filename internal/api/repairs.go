package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hearthway/hearth-core/internal/repair"
	"github.com/hearthway/hearth-core/internal/service"
)

// flowResponse is the wire shape of a repair flow's current step.
type flowResponse struct {
	FlowID      string          `json:"flow_id"`
	Domain      string          `json:"domain"`
	IssueID     string          `json:"issue_id"`
	Kind        repair.StepKind `json:"kind"`
	StepID      string          `json:"step_id,omitempty"`
	Description string          `json:"description,omitempty"`
	Reason      string          `json:"reason,omitempty"`
	Fields      []fieldResponse `json:"fields,omitempty"`
}

// fieldResponse describes one form field of a repair step.
type fieldResponse struct {
	Name     string       `json:"name"`
	Kind     service.Kind `json:"kind"`
	Required bool         `json:"required"`
}

func toFlowResponse(state *repair.FlowState) flowResponse {
	resp := flowResponse{
		FlowID:      state.ID,
		Domain:      state.Domain,
		IssueID:     state.IssueID,
		Kind:        state.Current.Kind,
		StepID:      state.Current.StepID,
		Description: state.Current.Description,
		Reason:      state.Current.Reason,
	}
	for _, f := range state.Current.Schema.Fields {
		resp.Fields = append(resp.Fields, fieldResponse{
			Name:     f.Name,
			Kind:     f.Kind,
			Required: f.Required,
		})
	}
	return resp
}

// startFlowRequest is the request body for POST /repairs/flows.
type startFlowRequest struct {
	Domain  string `json:"domain"`
	IssueID string `json:"issue_id"`
}

// handleStartFlow begins a repair flow for a fixable issue.
func (s *Server) handleStartFlow(w http.ResponseWriter, r *http.Request) {
	if s.repairs == nil {
		writeNotFound(w, "repairs are not enabled")
		return
	}

	var req startFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Domain == "" || req.IssueID == "" {
		writeValidationError(w, "domain and issue_id are required")
		return
	}

	state, err := s.repairs.StartFlow(r.Context(), req.Domain, req.IssueID)
	if err != nil {
		s.writeRepairError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFlowResponse(state))
}

// handleGetFlow returns the current step of an active flow.
func (s *Server) handleGetFlow(w http.ResponseWriter, r *http.Request) {
	if s.repairs == nil {
		writeNotFound(w, "repairs are not enabled")
		return
	}

	state, err := s.repairs.Get(chi.URLParam(r, "flowID"))
	if err != nil {
		s.writeRepairError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFlowResponse(state))
}

// handleSubmitFlow advances a flow with user input for the current step.
func (s *Server) handleSubmitFlow(w http.ResponseWriter, r *http.Request) {
	if s.repairs == nil {
		writeNotFound(w, "repairs are not enabled")
		return
	}

	input := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	state, err := s.repairs.Submit(r.Context(), chi.URLParam(r, "flowID"), input)
	if err != nil {
		s.writeRepairError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFlowResponse(state))
}

// handleAbortFlow cancels an active flow, leaving the issue in place.
func (s *Server) handleAbortFlow(w http.ResponseWriter, r *http.Request) {
	if s.repairs == nil {
		writeNotFound(w, "repairs are not enabled")
		return
	}

	if err := s.repairs.Abort(chi.URLParam(r, "flowID")); err != nil {
		s.writeRepairError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeRepairError maps repair manager failures onto HTTP responses.
func (s *Server) writeRepairError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repair.ErrIssueNotFound), errors.Is(err, repair.ErrFlowNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, repair.ErrNotFixable),
		errors.Is(err, repair.ErrNoHandler),
		errors.Is(err, repair.ErrUnexpectedStep):
		writeConflict(w, err.Error())
	case errors.Is(err, service.ErrInvalidField),
		errors.Is(err, service.ErrMissingField),
		errors.Is(err, service.ErrOutOfRange):
		writeValidationError(w, err.Error())
	default:
		s.logger.Error("repair flow failed", "error", err)
		writeInternalError(w, "repair flow failed")
	}
}
