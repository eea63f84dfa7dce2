package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/pkarpov/angler/internal/cache"
	"github.com/pkarpov/angler/internal/model"
	"github.com/pkarpov/angler/internal/util"
	"github.com/pkarpov/angler/internal/worker"
)

// Fetcher retrieves a page and reduces it to plain text within a char budget.
// Failures are returned as errors; callers in this pipeline treat any failure
// as "no content" and carry on.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	charBudget int

	robots  *util.RobotsChecker // nil when robots.txt checks are disabled
	limiter *worker.Limiter     // per-domain fetch rate
	store   cache.Cache         // nil when caching is disabled
	log     *logrus.Entry
}

// NewFetcher creates a fetcher from HTTP and research configuration
func NewFetcher(httpCfg model.HTTPConfig, charBudget int, store cache.Cache) *Fetcher {
	var robots *util.RobotsChecker
	if httpCfg.RespectRobots {
		robots = util.NewRobotsChecker(httpCfg.UserAgent, httpCfg.Timeout)
	}

	rps := httpCfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: httpCfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:  httpCfg.UserAgent,
		maxBytes:   httpCfg.MaxBodyBytes,
		charBudget: charBudget,
		robots:     robots,
		limiter:    worker.NewLimiter(rps, 2),
		store:      store,
		log:        logrus.WithField("component", "fetcher"),
	}
}

// FetchText downloads rawURL and returns its readable text content, truncated
// to the configured char budget.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	if f.store != nil {
		if cached, ok := f.store.Get(cache.PageKey(rawURL)); ok {
			return string(cached), nil
		}
	}

	if f.robots != nil && !f.robots.Allowed(ctx, rawURL) {
		return "", fmt.Errorf("disallowed by robots.txt: %s", rawURL)
	}

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	text := f.extractText(body, resp.Request.URL)
	if f.charBudget > 0 && len(text) > f.charBudget {
		text = text[:f.charBudget]
	}

	if f.store != nil {
		if err := f.store.Set(cache.PageKey(rawURL), []byte(text), 0); err != nil {
			f.log.WithError(err).Debug("page cache write failed")
		}
	}
	return text, nil
}

// extractText prefers readability's article extraction and falls back to a
// plain tag strip when the page has no identifiable article body.
func (f *Fetcher) extractText(body []byte, pageURL *url.URL) string {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return normalizeWhitespace(text)
		}
	}
	return stripHTML(string(body))
}

// noiseTags are removed wholesale before text extraction
var noiseTags = map[string]bool{
	"script": true, "style": true, "nav": true, "footer": true, "header": true,
}

// stripHTML flattens HTML to plain text, dropping scripts, styles, and
// navigation chrome.
func stripHTML(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && noiseTags[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return normalizeWhitespace(sb.String())
}

// normalizeWhitespace collapses runs of whitespace into single spaces
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
