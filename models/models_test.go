package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	allowed := []struct {
		from, to SearchStatus
	}{
		{StatusQueued, StatusRunning},
		{StatusQueued, StatusFailed},
		{StatusRunning, StatusCompleted},
		{StatusRunning, StatusFailed},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransition(tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct {
		from, to SearchStatus
	}{
		{StatusQueued, StatusCompleted},
		{StatusCompleted, StatusRunning},
		{StatusCompleted, StatusFailed},
		{StatusFailed, StatusRunning},
		{StatusFailed, StatusCompleted},
		{StatusRunning, StatusQueued},
	}
	for _, tc := range denied {
		assert.False(t, tc.from.CanTransition(tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}

	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusQueued.Terminal())
	assert.False(t, StatusRunning.Terminal())
}

func TestPlanLimits(t *testing.T) {
	assert.Equal(t, 2000, PlanStarter.LeadsLimit())
	assert.Equal(t, 5000, PlanGrowth.LeadsLimit())
	assert.Equal(t, 15000, PlanPro.LeadsLimit())
	assert.Equal(t, 2000, Plan("enterprise").LeadsLimit())

	assert.False(t, PlanStarter.EnrichmentEnabled())
	assert.True(t, PlanGrowth.EnrichmentEnabled())
	assert.True(t, PlanPro.EnrichmentEnabled())
}

func TestProfileFromDocDefaults(t *testing.T) {
	p := ProfileFromDoc(map[string]interface{}{"email": "a@b.com"})

	assert.Equal(t, "a@b.com", p.Email)
	assert.Equal(t, PlanStarter, p.Plan)
	assert.Equal(t, 2000, p.LeadsLimit)
	assert.Equal(t, 0, p.LeadsUsed)
	assert.False(t, p.IsSuspended)
	assert.Nil(t, p.DisplayName)
	assert.Nil(t, p.SuspendedAt)
}

func TestProfileFromDocOverrides(t *testing.T) {
	now := time.Now().UTC()
	p := ProfileFromDoc(map[string]interface{}{
		"email":        "a@b.com",
		"display_name": "Ada",
		"plan":         "growth",
		"leads_used":   int64(42),
		"leads_limit":  float64(9000),
		"is_suspended": true,
		"suspended_at": now,
	})

	assert.Equal(t, PlanGrowth, p.Plan)
	assert.Equal(t, 42, p.LeadsUsed)
	assert.Equal(t, 9000, p.LeadsLimit, "explicit override beats plan ceiling")
	assert.True(t, p.IsSuspended)
	if assert.NotNil(t, p.SuspendedAt) {
		assert.Equal(t, now, *p.SuspendedAt)
	}
	if assert.NotNil(t, p.DisplayName) {
		assert.Equal(t, "Ada", *p.DisplayName)
	}
}

func TestSearchFromDoc(t *testing.T) {
	s := SearchFromDoc("s1", map[string]interface{}{
		"user_id":     "u1",
		"keyword":     "cafe",
		"city":        "Lisbon",
		"country":     "Portugal",
		"max_results": float64(50),
		"status":      "running",
	})

	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, 50, s.MaxResults)
	assert.Equal(t, StatusRunning, s.Status)
	assert.Nil(t, s.ErrorMessage)

	empty := SearchFromDoc("s2", map[string]interface{}{})
	assert.Equal(t, StatusQueued, empty.Status, "missing status defaults to queued")
}

func TestLeadDocRoundTrip(t *testing.T) {
	name := "Cafe X"
	rating := 4.2
	lead := Lead{
		BusinessName: &name,
		Rating:       &rating,
		SearchID:     "s1",
		UserID:       "u1",
		CreatedAt:    time.Now().UTC(),
	}

	got := LeadFromDoc(lead.Doc())
	if assert.NotNil(t, got.BusinessName) {
		assert.Equal(t, "Cafe X", *got.BusinessName)
	}
	if assert.NotNil(t, got.Rating) {
		assert.Equal(t, 4.2, *got.Rating)
	}
	assert.Nil(t, got.Email)
	assert.Nil(t, got.Latitude)
	assert.Equal(t, "s1", got.SearchID)
}
