// Package handlers adapts the search orchestrator and the account lifecycle
// manager to HTTP. Authentication happens in middleware; handlers read the
// verified uid/email from the request context.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/afiliadosprobusiness-lab/map-leads-backend/errs"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/middleware"
)

func getUID(r *http.Request) string {
	uid, _ := r.Context().Value(middleware.UIDKey).(string)
	return uid
}

func getEmail(r *http.Request) string {
	email, _ := r.Context().Value(middleware.EmailKey).(string)
	return email
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error's category to a status code and emits the single
// message field every error response carries.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errs.Status(err), map[string]string{"error": err.Error()})
}
