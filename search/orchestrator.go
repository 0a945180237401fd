// Package search implements the lead-search pipeline: access guard, result
// normalization, batched persistence, email enrichment, and the orchestrator
// that drives a search through its status transitions.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/afiliadosprobusiness-lab/map-leads-backend/errs"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/models"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/provider"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/store"
)

// Execution modes reported back to the caller.
const (
	ModeSynthetic = "synthetic"
	ModeProvider  = "provider"
)

// Result is what the caller of a run gets back.
type Result struct {
	Success bool   `json:"success"`
	Mode    string `json:"mode"`
	Leads   int    `json:"leads"`
}

// Orchestrator executes one queued search end to end. A nil provider means
// no external crawler is configured and runs produce synthetic leads.
type Orchestrator struct {
	store    store.Store
	provider provider.Provider
	writer   *Writer
	enricher *Enricher
	log      *zap.Logger
	now      func() time.Time
}

func NewOrchestrator(st store.Store, p provider.Provider, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:    st,
		provider: p,
		writer:   NewWriter(st),
		enricher: NewEnricher(st, logger),
		log:      logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run executes the search owned by userID. A search that is missing or owned
// by someone else yields the same not-found error. Terminal searches are not
// re-run; a search stuck in running may be, so an interrupted run can be
// repaired.
func (o *Orchestrator) Run(ctx context.Context, userID, searchID string) (*Result, error) {
	doc, err := o.store.Get(ctx, models.CollectionSearches, searchID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errs.NotFound("Search not found")
	}
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "Failed to load search", err)
	}
	srch := models.SearchFromDoc(searchID, doc)
	if srch.UserID != userID {
		return nil, errs.NotFound("Search not found")
	}
	if srch.Status.Terminal() {
		return nil, errs.Conflict("Search already finished")
	}

	profileDoc, err := o.store.Get(ctx, models.CollectionProfiles, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errs.Internal("Profile not found")
	}
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "Failed to load profile", err)
	}
	profile := models.ProfileFromDoc(profileDoc)

	if err := CheckAccess(profile); err != nil {
		o.markFailed(ctx, searchID, err.Error())
		return nil, err
	}

	if err := o.store.Set(ctx, models.CollectionSearches, searchID, map[string]interface{}{
		"status":        string(models.StatusRunning),
		"error_message": nil,
		"updated_at":    o.now(),
	}, true); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "Failed to start search", err)
	}

	mode := ModeSynthetic
	var leads []models.Lead
	if o.provider == nil {
		leads = SyntheticLeads(srch.Keyword, srch.City, srch.MaxResults, searchID, userID, o.now())
	} else {
		mode = ModeProvider
		query := fmt.Sprintf("%s in %s, %s", srch.Keyword, srch.City, srch.Country)
		run, err := o.provider.Run(ctx, query, srch.MaxResults)
		if err != nil {
			o.markFailed(ctx, searchID, err.Error())
			return nil, errs.Wrap(errs.KindInternal, err.Error(), err)
		}
		if run.RunID != "" {
			// run id is metadata; losing it must not fail the search
			if err := o.store.Set(ctx, models.CollectionSearches, searchID, map[string]interface{}{
				"run_id": run.RunID,
			}, true); err != nil {
				o.log.Warn("failed to record run id", zap.String("search_id", searchID), zap.Error(err))
			}
		}
		leads = NormalizeItems(run.Items, searchID, userID, o.now())
	}

	if err := o.writer.Finalize(ctx, userID, searchID, leads, profile.LeadsUsed); err != nil {
		o.markFailed(ctx, searchID, err.Error())
		return nil, errs.Wrap(errs.KindInternal, "Failed to save results", err)
	}

	if len(leads) > 0 && profile.Plan.EnrichmentEnabled() {
		o.enricher.Enrich(ctx, searchID, leads)
	}

	o.log.Info("search finished",
		zap.String("search_id", searchID),
		zap.String("user_id", userID),
		zap.String("mode", mode),
		zap.Int("leads", len(leads)))
	return &Result{Success: true, Mode: mode, Leads: len(leads)}, nil
}

// markFailed records a terminal failure on the search. Best effort: a write
// error here is logged and swallowed, never escalated.
func (o *Orchestrator) markFailed(ctx context.Context, searchID, message string) {
	if err := o.store.Set(ctx, models.CollectionSearches, searchID, map[string]interface{}{
		"status":        string(models.StatusFailed),
		"error_message": message,
		"updated_at":    o.now(),
	}, true); err != nil {
		o.log.Warn("failed to record search failure", zap.String("search_id", searchID), zap.Error(err))
	}
}
