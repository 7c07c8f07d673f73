package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hearthway/hearth-core/internal/issue"
)

// issueListResponse is the response body for GET /issues.
type issueListResponse struct {
	Issues []issue.Issue `json:"issues"`
	Total  int           `json:"total"`
}

// handleListIssues returns all registered issues. Optional query filters:
// ?domain= restricts to one domain, ?active=true drops inactive stubs.
func (s *Server) handleListIssues(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	activeOnly := r.URL.Query().Get("active") == "true"

	all := s.issues.List()
	filtered := make([]issue.Issue, 0, len(all))
	for _, iss := range all {
		if domain != "" && iss.Domain != domain {
			continue
		}
		if activeOnly && !iss.Active {
			continue
		}
		filtered = append(filtered, iss)
	}

	writeJSON(w, http.StatusOK, issueListResponse{
		Issues: filtered,
		Total:  len(filtered),
	})
}

// handleGetIssue returns a single issue by (domain, issue_id).
func (s *Server) handleGetIssue(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	issueID := chi.URLParam(r, "issueID")

	iss, ok := s.issues.Get(domain, issueID)
	if !ok {
		writeNotFound(w, "issue not found")
		return
	}
	writeJSON(w, http.StatusOK, iss)
}

// ignoreRequest is the request body for POST /issues/{domain}/{issueID}/ignore.
type ignoreRequest struct {
	Ignored bool `json:"ignored"`
}

// handleIgnoreIssue sets or clears the ignored flag on an issue.
func (s *Server) handleIgnoreIssue(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	issueID := chi.URLParam(r, "issueID")

	var req ignoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	iss, err := s.issues.SetIgnored(domain, issueID, req.Ignored)
	if err != nil {
		if errors.Is(err, issue.ErrIssueNotFound) {
			writeNotFound(w, "issue not found")
			return
		}
		s.logger.Error("setting issue ignored failed", "domain", domain, "issue_id", issueID, "error", err)
		writeInternalError(w, "failed to update issue")
		return
	}
	writeJSON(w, http.StatusOK, iss)
}

// handleDeleteIssue removes an issue from the registry (admin only).
func (s *Server) handleDeleteIssue(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	issueID := chi.URLParam(r, "issueID")

	if !s.issues.Delete(domain, issueID) {
		writeNotFound(w, "issue not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
