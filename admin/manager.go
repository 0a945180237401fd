// Package admin implements the superadmin account-lifecycle operations:
// listing accounts, changing plans, suspending/restoring, and cascading
// deletion. Authorization of the caller happens at the HTTP layer; the
// manager assumes an already-verified superadmin requester.
package admin

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/afiliadosprobusiness-lab/map-leads-backend/errs"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/models"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/store"
)

const (
	listDefaultLimit = 200
	listMaxLimit     = 1000
)

// ListedUser is a profile plus its document id.
type ListedUser struct {
	ID string `json:"id"`
	models.Profile
}

type Manager struct {
	store    store.Store
	identity Identity
	log      *zap.Logger
	now      func() time.Time
}

func NewManager(st store.Store, identity Identity, logger *zap.Logger) *Manager {
	return &Manager{
		store:    st,
		identity: identity,
		log:      logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ListUsers returns profiles newest-first, optionally filtered by a
// case-insensitive substring of email or display name.
func (m *Manager) ListUsers(ctx context.Context, query string, limit int) ([]ListedUser, error) {
	if limit <= 0 {
		limit = listDefaultLimit
	}
	if limit > listMaxLimit {
		limit = listMaxLimit
	}

	docs, err := m.store.Query(ctx, models.CollectionProfiles, nil, 0)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "Failed to list users", err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	users := make([]ListedUser, 0, len(docs))
	for _, doc := range docs {
		profile := models.ProfileFromDoc(doc.Data)
		if needle != "" && !profileMatches(profile, needle) {
			continue
		}
		users = append(users, ListedUser{ID: doc.ID, Profile: profile})
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func profileMatches(p models.Profile, needle string) bool {
	if strings.Contains(strings.ToLower(p.Email), needle) {
		return true
	}
	return p.DisplayName != nil && strings.Contains(strings.ToLower(*p.DisplayName), needle)
}

// SetPlan moves the user to plan, resets leads_limit to the plan's ceiling,
// and upserts an active subscription with refreshed timestamps.
func (m *Manager) SetPlan(ctx context.Context, userID string, plan models.Plan) error {
	if userID == "" {
		return errs.Validation("user_id is required")
	}
	if !plan.Valid() {
		return errs.Validation("Unknown plan: " + string(plan))
	}
	if err := m.requireProfile(ctx, userID); err != nil {
		return err
	}

	if err := m.store.Set(ctx, models.CollectionProfiles, userID, map[string]interface{}{
		"plan":        string(plan),
		"leads_limit": plan.LeadsLimit(),
	}, true); err != nil {
		return errs.Wrap(errs.KindInternal, "Failed to update plan", err)
	}

	now := m.now()
	sub := map[string]interface{}{
		"plan":       string(plan),
		"status":     "active",
		"updated_at": now,
	}
	if _, err := m.store.Get(ctx, models.CollectionSubscriptions, userID); err != nil {
		sub["created_at"] = now
	}
	if err := m.store.Set(ctx, models.CollectionSubscriptions, userID, sub, true); err != nil {
		return errs.Wrap(errs.KindInternal, "Failed to update subscription", err)
	}
	return nil
}

// SuspendUser marks the profile suspended and disables sign-in. The profile
// write and the identity disable are not transactional; an identity failure
// after the write surfaces as internal with the suspension already applied.
func (m *Manager) SuspendUser(ctx context.Context, requesterID, userID string) error {
	if userID == "" {
		return errs.Validation("user_id is required")
	}
	if userID == requesterID {
		return errs.Conflict("You cannot suspend your own account")
	}
	if err := m.requireProfile(ctx, userID); err != nil {
		return err
	}

	if err := m.store.Set(ctx, models.CollectionProfiles, userID, map[string]interface{}{
		"is_suspended": true,
		"suspended_at": m.now(),
	}, true); err != nil {
		return errs.Wrap(errs.KindInternal, "Failed to suspend user", err)
	}
	if err := m.identity.DisableUser(ctx, userID); err != nil {
		return errs.Wrap(errs.KindInternal, "Failed to disable sign-in", err)
	}
	m.log.Info("user suspended", zap.String("user_id", userID))
	return nil
}

// RestoreUser clears the suspension and re-enables sign-in.
func (m *Manager) RestoreUser(ctx context.Context, userID string) error {
	if userID == "" {
		return errs.Validation("user_id is required")
	}
	if err := m.requireProfile(ctx, userID); err != nil {
		return err
	}

	if err := m.store.Set(ctx, models.CollectionProfiles, userID, map[string]interface{}{
		"is_suspended": false,
		"suspended_at": nil,
	}, true); err != nil {
		return errs.Wrap(errs.KindInternal, "Failed to restore user", err)
	}
	if err := m.identity.EnableUser(ctx, userID); err != nil {
		return errs.Wrap(errs.KindInternal, "Failed to enable sign-in", err)
	}
	m.log.Info("user restored", zap.String("user_id", userID))
	return nil
}

// DeleteUser removes the account and everything it owns. Dependent records
// go first (leads, then searches, batch-deleted page by page), then the
// subscription and profile, then the identity.
func (m *Manager) DeleteUser(ctx context.Context, requesterID, userID string) error {
	if userID == "" {
		return errs.Validation("user_id is required")
	}
	if userID == requesterID {
		return errs.Conflict("You cannot delete your own account")
	}

	for _, collection := range []string{models.CollectionLeads, models.CollectionSearches} {
		if err := m.deleteOwned(ctx, collection, userID); err != nil {
			return err
		}
	}
	if err := m.store.Delete(ctx, models.CollectionSubscriptions, userID); err != nil {
		return errs.Wrap(errs.KindInternal, "Failed to delete subscription", err)
	}
	if err := m.store.Delete(ctx, models.CollectionProfiles, userID); err != nil {
		return errs.Wrap(errs.KindInternal, "Failed to delete profile", err)
	}
	if err := m.identity.DeleteUser(ctx, userID); err != nil {
		return errs.Wrap(errs.KindInternal, "Failed to delete sign-in", err)
	}
	m.log.Info("user deleted", zap.String("user_id", userID))
	return nil
}

// deleteOwned removes every document in collection owned by userID, one
// batch of at most store.MaxBatchWrites per page, continuing while pages
// come back full.
func (m *Manager) deleteOwned(ctx context.Context, collection, userID string) error {
	filters := []store.Filter{{Field: "user_id", Value: userID}}
	for {
		docs, err := m.store.Query(ctx, collection, filters, store.MaxBatchWrites)
		if err != nil {
			return errs.Wrap(errs.KindInternal, "Failed to delete "+collection, err)
		}
		if len(docs) == 0 {
			return nil
		}

		b := m.store.Batch()
		for _, doc := range docs {
			b.Delete(collection, doc.ID)
		}
		if err := b.Commit(ctx); err != nil {
			return errs.Wrap(errs.KindInternal, "Failed to delete "+collection, err)
		}
		if len(docs) < store.MaxBatchWrites {
			return nil
		}
	}
}

func (m *Manager) requireProfile(ctx context.Context, userID string) error {
	if _, err := m.store.Get(ctx, models.CollectionProfiles, userID); err != nil {
		return errs.NotFound("User not found")
	}
	return nil
}
