package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/pkarpov/angler/internal/model"
)

// CitationChecker verifies that the URLs a report cites are still reachable.
// Checks run concurrently under a semaphore; results keep input order.
type CitationChecker struct {
	httpClient *http.Client
	maxWorkers int
	userAgent  string
}

// NewCitationChecker creates a checker with the given concurrency bound
func NewCitationChecker(timeout time.Duration, maxWorkers int, userAgent string) *CitationChecker {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	return &CitationChecker{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		maxWorkers: maxWorkers,
		userAgent:  userAgent,
	}
}

// Check probes every URL and reports accessibility
func (c *CitationChecker) Check(ctx context.Context, urls []string) []model.CitationCheck {
	if len(urls) == 0 {
		return []model.CitationCheck{}
	}

	results := make([]model.CitationCheck, len(urls))
	semaphore := make(chan struct{}, c.maxWorkers)
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		go func(idx int, url string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = model.CitationCheck{URL: url, Error: "context cancelled"}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = c.checkOne(ctx, url)
		}(i, u)
	}
	wg.Wait()

	return results
}

// checkOne probes a single URL with a HEAD request, falling back to GET when
// the server rejects HEAD.
func (c *CitationChecker) checkOne(ctx context.Context, url string) model.CitationCheck {
	result := model.CitationCheck{URL: url}

	status, err := c.probe(ctx, http.MethodHead, url)
	if err == nil && status == http.StatusMethodNotAllowed {
		status, err = c.probe(ctx, http.MethodGet, url)
	}
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.StatusCode = status
	result.IsAccessible = status >= 200 && status < 400
	return result
}

func (c *CitationChecker) probe(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode, nil
}
