package search

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/afiliadosprobusiness-lab/map-leads-backend/models"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/store"
)

const (
	enrichMaxCandidates = 20
	enrichTimeout       = 5 * time.Second
	enrichMaxBodyBytes  = 512 * 1024
)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// Enricher fills in contact emails for freshly persisted leads by fetching
// their websites. The whole pass is advisory: every failure is skipped and
// nothing here ever changes a search's outcome.
type Enricher struct {
	store store.Store
	http  *http.Client
	log   *zap.Logger
}

func NewEnricher(st store.Store, logger *zap.Logger) *Enricher {
	return &Enricher{
		store: st,
		http:  &http.Client{Timeout: enrichTimeout},
		log:   logger,
	}
}

// Enrich processes up to enrichMaxCandidates leads that have a website but no
// email yet, in their original order, one at a time.
func (e *Enricher) Enrich(ctx context.Context, searchID string, leads []models.Lead) {
	candidates := 0
	for _, lead := range leads {
		if candidates == enrichMaxCandidates {
			break
		}
		if lead.Website == nil || lead.Email != nil {
			continue
		}
		candidates++

		email, ok := e.scrapeEmail(ctx, *lead.Website)
		if !ok {
			continue
		}
		e.applyEmail(ctx, searchID, *lead.Website, email)
	}
}

func (e *Enricher) scrapeEmail(ctx context.Context, website string) (string, bool) {
	url := website
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false
	}
	resp, err := e.http.Do(req)
	if err != nil {
		e.log.Debug("enrichment fetch failed", zap.String("website", website), zap.Error(err))
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, enrichMaxBodyBytes))
	if err != nil {
		return "", false
	}
	match := emailPattern.FindString(string(body))
	if match == "" {
		return "", false
	}
	return match, true
}

// applyEmail sets the stored lead's email when it is still empty, located by
// (search_id, website) equality with at most one match.
func (e *Enricher) applyEmail(ctx context.Context, searchID, website, email string) {
	docs, err := e.store.Query(ctx, models.CollectionLeads, []store.Filter{
		{Field: "search_id", Value: searchID},
		{Field: "website", Value: website},
	}, 1)
	if err != nil || len(docs) == 0 {
		return
	}
	if models.AsString(docs[0].Data["email"]) != "" {
		return
	}
	if err := e.store.Set(ctx, models.CollectionLeads, docs[0].ID, map[string]interface{}{"email": email}, true); err != nil {
		e.log.Debug("enrichment write failed", zap.String("website", website), zap.Error(err))
	}
}
