package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/afiliadosprobusiness-lab/map-leads-backend/admin"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/errs"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/models"
)

type adminRequest struct {
	Action string `json:"action"`
	Query  string `json:"query"`
	Limit  int    `json:"limit"`
	UserID string `json:"user_id"`
	Plan   string `json:"plan"`
}

// Admin is the single superadmin endpoint; the request's action tag selects
// the lifecycle operation. superadmins holds the allowed account emails,
// lowercased.
func Admin(mgr *admin.Manager, superadmins map[string]bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := strings.ToLower(getEmail(r))
		if email == "" || !superadmins[email] {
			writeError(w, errs.Forbidden("Superadmin access required"))
			return
		}

		var req adminRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, errs.Validation("invalid payload"))
			return
		}

		ctx := r.Context()
		requesterID := getUID(r)

		switch req.Action {
		case "list_users":
			users, err := mgr.ListUsers(ctx, req.Query, req.Limit)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
			return
		case "set_plan":
			if err := mgr.SetPlan(ctx, req.UserID, models.Plan(req.Plan)); err != nil {
				writeError(w, err)
				return
			}
		case "suspend_user":
			if err := mgr.SuspendUser(ctx, requesterID, req.UserID); err != nil {
				writeError(w, err)
				return
			}
		case "restore_user":
			if err := mgr.RestoreUser(ctx, req.UserID); err != nil {
				writeError(w, err)
				return
			}
		case "delete_user":
			if err := mgr.DeleteUser(ctx, requesterID, req.UserID); err != nil {
				writeError(w, err)
				return
			}
		default:
			writeError(w, errs.Validation("Unknown action: "+req.Action))
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// ParseSuperadmins splits a comma-separated email list into a lookup set.
func ParseSuperadmins(raw string) map[string]bool {
	set := make(map[string]bool)
	for _, email := range strings.Split(raw, ",") {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			set[email] = true
		}
	}
	return set
}
