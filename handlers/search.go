package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/afiliadosprobusiness-lab/map-leads-backend/errs"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/search"
)

// RunSearch executes an already-created queued search for the caller.
func RunSearch(orch *search.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SearchID string `json:"search_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, errs.Validation("invalid payload"))
			return
		}
		if strings.TrimSpace(req.SearchID) == "" {
			writeError(w, errs.Validation("search_id is required"))
			return
		}

		result, err := orch.Run(r.Context(), getUID(r), req.SearchID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}
