package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pkarpov/angler/internal/model"
)

// braveLimiters serializes requests per API key; Brave's free tier allows
// one request per second per key.
var (
	braveLimitersMu sync.Mutex
	braveLimiters   = map[string]*rate.Limiter{}
)

func braveLimiterFor(apiKey string) *rate.Limiter {
	braveLimitersMu.Lock()
	defer braveLimitersMu.Unlock()
	l, ok := braveLimiters[apiKey]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Second), 1)
		braveLimiters[apiKey] = l
	}
	return l
}

// Brave calls the Brave Search API (X-Subscription-Token auth)
type Brave struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewBrave constructs a Brave search provider
func NewBrave(apiKey string) *Brave {
	return &Brave{
		apiKey:     apiKey,
		endpoint:   "https://api.search.brave.com/res/v1/web/search",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewBraveWithClient constructs a Brave provider with a custom client and
// endpoint. Used by tests to point at a local server.
func NewBraveWithClient(apiKey string, client *http.Client, endpoint string) *Brave {
	return &Brave{apiKey: apiKey, endpoint: endpoint, httpClient: client}
}

// Name returns the provider name
func (b *Brave) Name() string {
	return "brave"
}

// Search executes a Brave query
func (b *Brave) Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error) {
	if strings.TrimSpace(b.apiKey) == "" {
		return nil, fmt.Errorf("brave: API key is missing")
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	if err := braveLimiterFor(b.apiKey).Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s?q=%s", b.endpoint, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave: HTTP %d", resp.StatusCode)
	}

	var payload struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]model.SearchResult, 0, len(payload.Web.Results))
	for _, r := range payload.Web.Results {
		results = append(results, model.SearchResult{Title: r.Title, URL: r.URL, Snippet: r.Description})
		if len(results) >= maxResults {
			break
		}
	}
	return results, nil
}
