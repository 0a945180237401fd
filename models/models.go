// Package models defines the documents persisted for the lead-generation
// service and the coercions between loosely-typed store documents and the
// typed shapes the rest of the code works with.
package models

import "time"

// Collection names in the document store.
const (
	CollectionProfiles      = "profiles"
	CollectionSearches      = "searches"
	CollectionLeads         = "leads"
	CollectionSubscriptions = "subscriptions"
)

type Plan string

const (
	PlanStarter Plan = "starter"
	PlanGrowth  Plan = "growth"
	PlanPro     Plan = "pro"
)

var planLimits = map[Plan]int{
	PlanStarter: 2000,
	PlanGrowth:  5000,
	PlanPro:     15000,
}

func (p Plan) Valid() bool {
	_, ok := planLimits[p]
	return ok
}

// LeadsLimit returns the plan's fixed ceiling; unknown plans fall back to
// the starter ceiling.
func (p Plan) LeadsLimit() int {
	if limit, ok := planLimits[p]; ok {
		return limit
	}
	return planLimits[PlanStarter]
}

// EnrichmentEnabled reports whether the plan includes contact-email
// enrichment.
func (p Plan) EnrichmentEnabled() bool {
	return p == PlanGrowth || p == PlanPro
}

type SearchStatus string

const (
	StatusQueued    SearchStatus = "queued"
	StatusRunning   SearchStatus = "running"
	StatusCompleted SearchStatus = "completed"
	StatusFailed    SearchStatus = "failed"
)

var searchTransitions = map[SearchStatus][]SearchStatus{
	StatusQueued:  {StatusRunning, StatusFailed},
	StatusRunning: {StatusCompleted, StatusFailed},
}

func (s SearchStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether s → to is an allowed status transition.
func (s SearchStatus) CanTransition(to SearchStatus) bool {
	for _, next := range searchTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Profile mirrors profiles/{uid}.
type Profile struct {
	Email       string     `firestore:"email" json:"email"`
	DisplayName *string    `firestore:"display_name" json:"display_name"`
	Plan        Plan       `firestore:"plan" json:"plan"`
	LeadsUsed   int        `firestore:"leads_used" json:"leads_used"`
	LeadsLimit  int        `firestore:"leads_limit" json:"leads_limit"`
	IsSuspended bool       `firestore:"is_suspended" json:"is_suspended"`
	SuspendedAt *time.Time `firestore:"suspended_at" json:"suspended_at"`
	CreatedAt   time.Time  `firestore:"created_at" json:"created_at"`
}

// Search mirrors searches/{id}; ID is the document id, not a field.
type Search struct {
	ID           string       `json:"id"`
	UserID       string       `firestore:"user_id" json:"user_id"`
	Keyword      string       `firestore:"keyword" json:"keyword"`
	City         string       `firestore:"city" json:"city"`
	Country      string       `firestore:"country" json:"country"`
	MaxResults   int          `firestore:"max_results" json:"max_results"`
	Status       SearchStatus `firestore:"status" json:"status"`
	TotalResults int          `firestore:"total_results" json:"total_results"`
	ErrorMessage *string      `firestore:"error_message" json:"error_message"`
	RunID        *string      `firestore:"run_id" json:"run_id"`
	UpdatedAt    time.Time    `firestore:"updated_at" json:"updated_at"`
}

// Lead mirrors leads/{id}. All business fields are nullable.
type Lead struct {
	BusinessName *string   `firestore:"business_name" json:"business_name"`
	Address      *string   `firestore:"address" json:"address"`
	Phone        *string   `firestore:"phone" json:"phone"`
	Website      *string   `firestore:"website" json:"website"`
	Email        *string   `firestore:"email" json:"email"`
	Rating       *float64  `firestore:"rating" json:"rating"`
	ReviewsCount *int      `firestore:"reviews_count" json:"reviews_count"`
	Category     *string   `firestore:"category" json:"category"`
	Latitude     *float64  `firestore:"latitude" json:"latitude"`
	Longitude    *float64  `firestore:"longitude" json:"longitude"`
	SearchID     string    `firestore:"search_id" json:"search_id"`
	UserID       string    `firestore:"user_id" json:"user_id"`
	CreatedAt    time.Time `firestore:"created_at" json:"created_at"`
}

// Subscription mirrors subscriptions/{uid}.
type Subscription struct {
	Plan      Plan      `firestore:"plan" json:"plan"`
	Status    string    `firestore:"status" json:"status"`
	CreatedAt time.Time `firestore:"created_at" json:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at" json:"updated_at"`
}
