package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/afiliadosprobusiness-lab/map-leads-backend/errs"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/models"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/provider"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/store"
)

type fakeProvider struct {
	items []map[string]interface{}
	runID string
	err   error
	calls int
}

func (f *fakeProvider) Run(ctx context.Context, query string, maxResults int) (*provider.RunResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &provider.RunResult{RunID: f.runID, Items: f.items}, nil
}

func newTestOrchestrator(st *store.Memory, p provider.Provider) *Orchestrator {
	return NewOrchestrator(st, p, zap.NewNop())
}

func TestRunSyntheticMode(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedProfile(t, st, "u1", models.Profile{Email: "a@b.com", Plan: models.PlanStarter, LeadsUsed: 0, LeadsLimit: 2000})
	seedSearch(t, st, models.Search{ID: "s1", UserID: "u1", Keyword: "cafe", City: "Lisbon", Country: "Portugal", MaxResults: 4, Status: models.StatusQueued})

	res, err := newTestOrchestrator(st, nil).Run(ctx, "u1", "s1")
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, ModeSynthetic, res.Mode)
	assert.Equal(t, 4, res.Leads)

	srch := getSearch(t, st, "s1")
	assert.Equal(t, models.StatusCompleted, srch.Status)
	assert.Equal(t, 4, srch.TotalResults)
	assert.Equal(t, 4, getProfile(t, st, "u1").LeadsUsed)
	assert.Equal(t, 4, countLeads(t, st, "s1"))
}

func TestRunProviderMode(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedProfile(t, st, "u1", models.Profile{Email: "a@b.com", Plan: models.PlanStarter, LeadsUsed: 10, LeadsLimit: 2000})
	seedSearch(t, st, models.Search{ID: "s1", UserID: "u1", Keyword: "cafe", City: "Lisbon", Country: "Portugal", MaxResults: 20, Status: models.StatusQueued})

	p := &fakeProvider{
		runID: "run-42",
		items: []map[string]interface{}{
			{"title": "Cafe A"},
			{"title": "Cafe B"},
		},
	}

	res, err := newTestOrchestrator(st, p).Run(ctx, "u1", "s1")
	require.NoError(t, err)

	assert.Equal(t, ModeProvider, res.Mode)
	assert.Equal(t, 2, res.Leads)
	assert.Equal(t, 1, p.calls)

	srch := getSearch(t, st, "s1")
	assert.Equal(t, models.StatusCompleted, srch.Status)
	require.NotNil(t, srch.RunID)
	assert.Equal(t, "run-42", *srch.RunID)
	assert.Equal(t, 12, getProfile(t, st, "u1").LeadsUsed)
}

func TestRunProviderZeroResults(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedProfile(t, st, "u1", models.Profile{Email: "a@b.com", Plan: models.PlanStarter, LeadsUsed: 10, LeadsLimit: 2000})
	seedSearch(t, st, models.Search{ID: "s1", UserID: "u1", Keyword: "cafe", City: "Lisbon", Country: "Portugal", MaxResults: 20, Status: models.StatusQueued})

	res, err := newTestOrchestrator(st, &fakeProvider{runID: "run-7"}).Run(ctx, "u1", "s1")
	require.NoError(t, err)

	assert.Equal(t, 0, res.Leads)
	srch := getSearch(t, st, "s1")
	assert.Equal(t, models.StatusCompleted, srch.Status)
	assert.Equal(t, 0, srch.TotalResults)
	assert.Equal(t, 10, getProfile(t, st, "u1").LeadsUsed, "zero results must not consume quota")
}

func TestRunProviderFailureMarksFailed(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedProfile(t, st, "u1", models.Profile{Email: "a@b.com", Plan: models.PlanStarter, LeadsUsed: 10, LeadsLimit: 2000})
	seedSearch(t, st, models.Search{ID: "s1", UserID: "u1", Status: models.StatusQueued})

	_, err := newTestOrchestrator(st, &fakeProvider{err: errors.New("crawler exploded")}).Run(ctx, "u1", "s1")
	require.Error(t, err)
	assert.Equal(t, errs.KindInternal, errs.KindOf(err))

	srch := getSearch(t, st, "s1")
	assert.Equal(t, models.StatusFailed, srch.Status)
	require.NotNil(t, srch.ErrorMessage)
	assert.Contains(t, *srch.ErrorMessage, "crawler exploded")
	assert.Equal(t, 10, getProfile(t, st, "u1").LeadsUsed)
}

func TestRunSuspendedAccount(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedProfile(t, st, "u1", models.Profile{Email: "a@b.com", Plan: models.PlanStarter, IsSuspended: true, LeadsLimit: 2000})
	seedSearch(t, st, models.Search{ID: "s1", UserID: "u1", Status: models.StatusQueued})

	_, err := newTestOrchestrator(st, nil).Run(ctx, "u1", "s1")
	assert.EqualError(t, err, "Account suspended")
	assert.Equal(t, errs.KindForbidden, errs.KindOf(err))

	srch := getSearch(t, st, "s1")
	assert.Equal(t, models.StatusFailed, srch.Status)
	require.NotNil(t, srch.ErrorMessage)
	assert.Equal(t, "Account suspended", *srch.ErrorMessage)
}

func TestRunQuotaExceeded(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedProfile(t, st, "u1", models.Profile{Email: "a@b.com", Plan: models.PlanStarter, LeadsUsed: 2000, LeadsLimit: 2000})
	seedSearch(t, st, models.Search{ID: "s1", UserID: "u1", Status: models.StatusQueued})

	_, err := newTestOrchestrator(st, nil).Run(ctx, "u1", "s1")
	assert.EqualError(t, err, "Leads quota exceeded")
	assert.Equal(t, errs.KindQuotaExceeded, errs.KindOf(err))

	srch := getSearch(t, st, "s1")
	assert.Equal(t, models.StatusFailed, srch.Status)
	assert.Equal(t, 2000, getProfile(t, st, "u1").LeadsUsed, "rejection must not change usage")
}

func TestRunNotFoundAndNotOwnedLookAlike(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedProfile(t, st, "u1", models.Profile{Email: "a@b.com", Plan: models.PlanStarter, LeadsLimit: 2000})
	seedSearch(t, st, models.Search{ID: "owned-by-other", UserID: "u2", Status: models.StatusQueued})

	orch := newTestOrchestrator(st, nil)

	_, missingErr := orch.Run(ctx, "u1", "does-not-exist")
	_, notOwnedErr := orch.Run(ctx, "u1", "owned-by-other")

	assert.Equal(t, errs.KindNotFound, errs.KindOf(missingErr))
	assert.Equal(t, errs.KindNotFound, errs.KindOf(notOwnedErr))
	assert.Equal(t, missingErr.Error(), notOwnedErr.Error(), "missing and not-owned must be indistinguishable")
}

func TestRunRejectsTerminalSearch(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedProfile(t, st, "u1", models.Profile{Email: "a@b.com", Plan: models.PlanStarter, LeadsUsed: 5, LeadsLimit: 2000})
	seedSearch(t, st, models.Search{ID: "done", UserID: "u1", Status: models.StatusCompleted})
	seedSearch(t, st, models.Search{ID: "failed", UserID: "u1", Status: models.StatusFailed})

	orch := newTestOrchestrator(st, nil)

	for _, id := range []string{"done", "failed"} {
		_, err := orch.Run(ctx, "u1", id)
		assert.Equal(t, errs.KindConflict, errs.KindOf(err), "search %s", id)
	}
	assert.Equal(t, 5, getProfile(t, st, "u1").LeadsUsed, "re-runs must not double-count usage")
}

func TestRunRepairsStuckRunningSearch(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedProfile(t, st, "u1", models.Profile{Email: "a@b.com", Plan: models.PlanStarter, LeadsLimit: 2000})
	seedSearch(t, st, models.Search{ID: "stuck", UserID: "u1", Keyword: "cafe", City: "Lisbon", MaxResults: 2, Status: models.StatusRunning})

	res, err := newTestOrchestrator(st, nil).Run(ctx, "u1", "stuck")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Leads)
	assert.Equal(t, models.StatusCompleted, getSearch(t, st, "stuck").Status)
}

func TestRunMissingProfileIsInternal(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedSearch(t, st, models.Search{ID: "s1", UserID: "u1", Status: models.StatusQueued})

	_, err := newTestOrchestrator(st, nil).Run(ctx, "u1", "s1")
	require.Error(t, err)
	assert.Equal(t, errs.KindInternal, errs.KindOf(err))
}
