package search

import (
	"context"
	"fmt"
	"time"

	"github.com/afiliadosprobusiness-lab/map-leads-backend/models"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/store"
)

// Writer persists a finished run: all its leads plus the terminal search and
// profile updates, in as few atomic batches as the backend's write ceiling
// allows.
type Writer struct {
	store store.Store
	now   func() time.Time
}

func NewWriter(st store.Store) *Writer {
	return &Writer{store: st, now: func() time.Time { return time.Now().UTC() }}
}

// Finalize writes leads in chunks of at most store.MaxBatchWrites. Only the
// last chunk's batch carries the search completion and the leads_used bump,
// and it carries both, so usage and completion commit together and a crash
// mid-sequence leaves the search non-terminal with usage untouched.
//
// An empty lead list completes the search with total_results=0 and does not
// touch the profile.
func (w *Writer) Finalize(ctx context.Context, userID, searchID string, leads []models.Lead, currentLeadsUsed int) error {
	now := w.now()

	completion := map[string]interface{}{
		"status":        string(models.StatusCompleted),
		"total_results": len(leads),
		"error_message": nil,
		"updated_at":    now,
	}

	if len(leads) == 0 {
		b := w.store.Batch()
		b.Set(models.CollectionSearches, searchID, completion, true)
		if err := b.Commit(ctx); err != nil {
			return fmt.Errorf("finalize search %s: %w", searchID, err)
		}
		return nil
	}

	for start := 0; start < len(leads); start += store.MaxBatchWrites {
		end := start + store.MaxBatchWrites
		if end > len(leads) {
			end = len(leads)
		}

		b := w.store.Batch()
		for _, lead := range leads[start:end] {
			b.Set(models.CollectionLeads, store.NewID(), lead.Doc(), false)
		}
		if end == len(leads) {
			b.Set(models.CollectionSearches, searchID, completion, true)
			b.Set(models.CollectionProfiles, userID, map[string]interface{}{
				"leads_used": currentLeadsUsed + len(leads),
			}, true)
		}
		if err := b.Commit(ctx); err != nil {
			return fmt.Errorf("finalize search %s: %w", searchID, err)
		}
	}
	return nil
}
