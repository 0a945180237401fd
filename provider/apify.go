// Package provider calls the external place-search job runner. When no API
// token is configured the service falls back to synthetic results and this
// package is not used.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Provider runs one place search and returns its raw result records.
type Provider interface {
	Run(ctx context.Context, query string, maxResults int) (*RunResult, error)
}

// RunResult is the outcome of one provider run. Items is nil when the run
// produced no dataset, which is a valid zero-result outcome.
type RunResult struct {
	RunID string
	Items []map[string]interface{}
}

const (
	defaultBaseURL = "https://api.apify.com"
	defaultActorID = "compass~crawler-google-places"

	// waitForFinishSeconds bounds how long the runs endpoint blocks waiting
	// for the crawl to finish.
	waitForFinishSeconds = 120
)

// Apify implements Provider against the Apify actor-run API.
type Apify struct {
	token   string
	actorID string
	baseURL string
	http    *http.Client
}

// NewApifyFromEnv builds the provider from APIFY_TOKEN / APIFY_ACTOR_ID.
// It returns nil when no token is set, which callers treat as synthetic mode.
func NewApifyFromEnv() *Apify {
	token := os.Getenv("APIFY_TOKEN")
	if token == "" {
		return nil
	}
	actorID := os.Getenv("APIFY_ACTOR_ID")
	if actorID == "" {
		actorID = defaultActorID
	}
	return &Apify{
		token:   token,
		actorID: actorID,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: (waitForFinishSeconds + 30) * time.Second},
	}
}

type runDescriptor struct {
	Data struct {
		ID               string `json:"id"`
		Status           string `json:"status"`
		DefaultDatasetID string `json:"defaultDatasetId"`
	} `json:"data"`
}

func (a *Apify) Run(ctx context.Context, query string, maxResults int) (*RunResult, error) {
	input := map[string]interface{}{
		"searchStringsArray":        []string{query},
		"maxCrawledPlacesPerSearch": maxResults,
		"scrapeReviewsPersonalData": false,
		"includeWebResults":         false,
		"maxImages":                 0,
		"maxReviews":                0,
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encode run input: %w", err)
	}

	url := fmt.Sprintf("%s/v2/acts/%s/runs?token=%s&waitForFinish=%d",
		a.baseURL, a.actorID, a.token, waitForFinishSeconds)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("start run: provider returned %s: %s", resp.Status, readSnippet(resp.Body))
	}

	var run runDescriptor
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		return nil, fmt.Errorf("decode run descriptor: %w", err)
	}

	result := &RunResult{RunID: run.Data.ID}
	if run.Data.DefaultDatasetID == "" {
		return result, nil
	}

	items, err := a.fetchItems(ctx, run.Data.DefaultDatasetID)
	if err != nil {
		return nil, err
	}
	result.Items = items
	return result, nil
}

func (a *Apify) fetchItems(ctx context.Context, datasetID string) ([]map[string]interface{}, error) {
	url := fmt.Sprintf("%s/v2/datasets/%s/items?token=%s&format=json", a.baseURL, datasetID, a.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch dataset: provider returned %s: %s", resp.Status, readSnippet(resp.Body))
	}

	var items []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode dataset items: %w", err)
	}
	return items, nil
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return string(b)
}
