// Package search adapts the Tavily REST API as the pipeline's web searcher.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ecosage/ecosage/internal/config"
	"github.com/ecosage/ecosage/internal/crag"
	"github.com/ecosage/ecosage/internal/metrics"
)

var errSearchUnreachable = errors.New("web search unreachable after retry")

const maxSearchAttempts = 2

// Client is a minimal REST client to Tavily's /search endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	maxResults int
	client     *http.Client
}

func NewClient(cfg *config.SearchConfig) *Client {
	return &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		maxResults: cfg.MaxResults,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

type searchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

type searchResponse struct {
	Results []struct {
		Content string `json:"content"`
		URL     string `json:"url"`
	} `json:"results"`
}

// Search runs the query and returns (content, url) passages. Transport-level
// failures are retried once; a well-formed error response is not.
func (c *Client) Search(ctx context.Context, query string) ([]crag.Document, error) {
	var lastErr error
	for attempt := 1; attempt <= maxSearchAttempts; attempt++ {
		docs, retryable, err := c.search(ctx, query)
		metrics.ObserveAdapterCall("web_search", err)
		if err == nil {
			return docs, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		slog.Warn("web search attempt failed", "attempt", attempt, "error", err)
		if attempt < maxSearchAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}
	}
	return nil, fmt.Errorf("%w: %v", errSearchUnreachable, lastErr)
}

func (c *Client) search(ctx context.Context, query string) (docs []crag.Document, retryable bool, err error) {
	body, err := json.Marshal(searchRequest{
		APIKey:     c.apiKey,
		Query:      query,
		MaxResults: c.maxResults,
	})
	if err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		// 5xx is worth another try; 4xx means the request itself is wrong.
		return nil, resp.StatusCode >= 500, fmt.Errorf("search returned status %d: %s", resp.StatusCode, payload)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, false, fmt.Errorf("failed to decode search response: %w", err)
	}

	docs = make([]crag.Document, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.Content == "" {
			continue
		}
		docs = append(docs, crag.Document{Content: r.Content, Source: r.URL})
	}
	return docs, false, nil
}
