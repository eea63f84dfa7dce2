package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/pkarpov/angler/internal/model"
)

// ddgLimiter enforces a global 1 QPS limit across all DuckDuckGo instances
// and goroutines; the lite endpoint throttles aggressively above that.
var ddgLimiter = rate.NewLimiter(rate.Every(time.Second), 1)

// DuckDuckGo searches via DuckDuckGo's HTML lite interface. No API key needed.
type DuckDuckGo struct {
	httpClient *http.Client
	endpoint   string
}

// NewDuckDuckGo creates a DuckDuckGo searcher with a modest timeout
func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		endpoint:   "https://lite.duckduckgo.com/lite/",
	}
}

// NewDuckDuckGoWithClient creates a searcher with a custom client and endpoint.
// Used by tests to point at a local server.
func NewDuckDuckGoWithClient(client *http.Client, endpoint string) *DuckDuckGo {
	return &DuckDuckGo{httpClient: client, endpoint: endpoint}
}

// Name returns the provider name
func (d *DuckDuckGo) Name() string {
	return "duckduckgo"
}

// Search scrapes the DuckDuckGo lite results page
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty")
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	if err := ddgLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	results, err := parseLiteResults(string(body), maxResults)
	if err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return results, nil
}

// parseLiteResults walks the lite HTML page. Result links carry
// class="result-link" and snippets sit in <td class="result-snippet">.
func parseLiteResults(page string, maxResults int) ([]model.SearchResult, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, err
	}

	var links []model.SearchResult
	var snippets []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a":
				if hasClass(n, "result-link") {
					links = append(links, model.SearchResult{
						Title: strings.TrimSpace(nodeText(n)),
						URL:   attr(n, "href"),
					})
				}
			case "td":
				if hasClass(n, "result-snippet") {
					snippets = append(snippets, strings.TrimSpace(nodeText(n)))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var results []model.SearchResult
	for i, link := range links {
		if link.URL == "" || link.Title == "" {
			continue
		}
		if i < len(snippets) {
			link.Snippet = snippets[i]
		}
		results = append(results, link)
		if len(results) >= maxResults {
			break
		}
	}
	return results, nil
}

// hasClass checks an element's class attribute for one class name
func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

// attr returns the value of the named attribute, or ""
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// nodeText concatenates all text nodes under n
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
