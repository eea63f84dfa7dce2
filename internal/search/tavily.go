package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkarpov/angler/internal/model"
)

// Tavily calls the Tavily search API
type Tavily struct {
	apiKey     string
	endpoint   string
	depth      string
	httpClient *http.Client
}

// NewTavily constructs a Tavily search provider with basic depth
func NewTavily(apiKey string) *Tavily {
	return &Tavily{
		apiKey:     apiKey,
		endpoint:   "https://api.tavily.com/search",
		depth:      "basic",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewTavilyWithClient constructs a Tavily provider with a custom client and
// endpoint. Used by tests to point at a local server.
func NewTavilyWithClient(apiKey string, client *http.Client, endpoint string) *Tavily {
	return &Tavily{apiKey: apiKey, endpoint: endpoint, depth: "basic", httpClient: client}
}

// Name returns the provider name
func (t *Tavily) Name() string {
	return "tavily"
}

// Search posts a query to Tavily
func (t *Tavily) Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error) {
	if strings.TrimSpace(t.apiKey) == "" {
		return nil, fmt.Errorf("tavily: API key is missing")
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	body := map[string]any{
		"query":       query,
		"api_key":     t.apiKey,
		"depth":       t.depth,
		"max_results": maxResults,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily: HTTP %d", resp.StatusCode)
	}

	var response struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]model.SearchResult, 0, len(response.Results))
	for _, r := range response.Results {
		results = append(results, model.SearchResult{Title: r.Title, URL: r.URL, Snippet: r.Content})
		if len(results) >= maxResults {
			break
		}
	}
	return results, nil
}
