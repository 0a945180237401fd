package handlers

import (
	"errors"
	"net/http"

	"github.com/afiliadosprobusiness-lab/map-leads-backend/errs"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/models"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/store"
)

// GetProfile fetches profiles/{uid} for the caller.
func GetProfile(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := st.Get(r.Context(), models.CollectionProfiles, getUID(r))
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, errs.NotFound("Profile not found"))
			return
		}
		if err != nil {
			writeError(w, errs.Internal("Failed to fetch profile"))
			return
		}
		writeJSON(w, http.StatusOK, models.ProfileFromDoc(doc))
	}
}

// GetUsage returns only the caller's usage counters.
func GetUsage(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := st.Get(r.Context(), models.CollectionProfiles, getUID(r))
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			writeError(w, errs.Internal("Failed to fetch usage"))
			return
		}
		profile := models.ProfileFromDoc(doc)
		writeJSON(w, http.StatusOK, map[string]int{
			"leads_used":  profile.LeadsUsed,
			"leads_limit": profile.LeadsLimit,
		})
	}
}
