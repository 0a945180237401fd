package search

import (
	"github.com/afiliadosprobusiness-lab/map-leads-backend/errs"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/models"
)

// CheckAccess decides whether a profile may run a search. It performs no
// writes; recording the rejection on the search is the orchestrator's job.
// Suspension is checked before quota.
func CheckAccess(profile models.Profile) error {
	if profile.IsSuspended {
		return errs.Forbidden("Account suspended")
	}
	if profile.LeadsUsed >= profile.LeadsLimit {
		return errs.QuotaExceeded("Leads quota exceeded")
	}
	return nil
}
