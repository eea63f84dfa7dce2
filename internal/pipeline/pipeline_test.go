package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkarpov/angler/internal/cache"
	"github.com/pkarpov/angler/internal/llm"
	"github.com/pkarpov/angler/internal/model"
)

// scriptedProvider routes completions by the instruction role so one mock
// can serve the planner, extractor, and synthesizer in a single run.
type scriptedProvider struct {
	mu sync.Mutex

	planResponse  string
	planErr       error
	extractResponse string
	extractErrFor map[string]bool // angle substrings whose extraction fails
	synthResponse string
	synthErr      error

	extractCalls int
}

func (s *scriptedProvider) Name() string { return "scripted" }

func (s *scriptedProvider) IsAvailable(ctx context.Context) bool { return true }

func (s *scriptedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case strings.Contains(req.System, "Research Planner"):
		if s.planErr != nil {
			return nil, s.planErr
		}
		return &llm.CompletionResponse{Text: s.planResponse}, nil

	case strings.Contains(req.System, "Research Analyst"):
		s.extractCalls++
		for angle := range s.extractErrFor {
			if strings.Contains(req.Prompt, "Angle: "+angle) {
				return nil, errors.New("extraction blew up")
			}
		}
		return &llm.CompletionResponse{Text: s.extractResponse}, nil

	case strings.Contains(req.System, "Research Editor"):
		if s.synthErr != nil {
			return nil, s.synthErr
		}
		return &llm.CompletionResponse{Text: s.synthResponse}, nil
	}
	return nil, errors.New("unexpected completion request")
}

// stubSearcher returns fixed results or a fixed error
type stubSearcher struct {
	results []model.SearchResult
	err     error
	calls   atomic.Int32
}

func (s *stubSearcher) Name() string { return "stub" }

func (s *stubSearcher) Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Research.FetchTop = 0 // No page fetches in orchestration tests
	cfg.Cache.Enabled = false
	return cfg
}

func testFetcher() *Fetcher {
	return NewFetcher(model.HTTPConfig{
		Timeout:           time.Second,
		UserAgent:         "angler-test/0.1",
		MaxBodyBytes:      1000,
		RequestsPerSecond: 100,
	}, 10000, nil)
}

const tickerPlan = `{"is_ticker": true, "topic": "Tesla, Inc.", "context": "Electric vehicle company", "angles": ["recent performance", "market positioning", "guidance"]}`

const extraction = `{"angle": "", "key_facts": ["deliveries rose 10%"], "claims": ["demand is strong"], "citations": ["https://example.com/source"]}`

const synthesis = "# Tesla, Inc. Research Report\n\n## Executive Summary\n\nSummary text.\n\n## SWOT analysis\n\nFindings.\n\n## Recent performance\n\nMore findings.\n"

func TestPipeline_Research_EndToEnd(t *testing.T) {
	provider := &scriptedProvider{
		planResponse:    tickerPlan,
		extractResponse: extraction,
		synthResponse:   synthesis,
	}
	searcher := &stubSearcher{results: []model.SearchResult{
		{Title: "Hit", URL: "https://example.com/hit", Snippet: "snippet"},
	}}

	p := newPipeline(provider, searcher, testFetcher(), testConfig())

	var stages []string
	report := p.Research(context.Background(), "TSLA", func(fraction float64, stage string) {
		stages = append(stages, stage)
	})

	if !report.Plan.IsTicker {
		t.Error("expected ticker plan")
	}
	// Ticker plans get SWOT forced in; count must stay within [3,4]
	if !report.Plan.HasAngle("swot") {
		t.Errorf("expected SWOT angle in plan: %v", report.Plan.Angles)
	}
	if n := len(report.Plan.Angles); n < model.MinAngles || n > model.MaxAngles {
		t.Errorf("angle count %d outside [%d,%d]", n, model.MinAngles, model.MaxAngles)
	}

	if report.Markdown == "" {
		t.Fatal("expected non-empty markdown")
	}
	if !strings.Contains(report.Markdown, "Executive Summary") {
		t.Error("expected executive summary header")
	}
	if !strings.Contains(report.Markdown, "SWOT analysis") {
		t.Error("expected at least one angle section")
	}

	if len(report.Angles) != len(report.Plan.Angles) {
		t.Errorf("expected %d angle results, got %d", len(report.Plan.Angles), len(report.Angles))
	}
	// Fan-in preserves plan order
	for i, data := range report.Angles {
		if data.Angle != report.Plan.Angles[i] {
			t.Errorf("angle %d out of order: got %q, want %q", i, data.Angle, report.Plan.Angles[i])
		}
	}
	if provider.extractCalls != len(report.Plan.Angles) {
		t.Errorf("expected %d extraction calls, got %d", len(report.Plan.Angles), provider.extractCalls)
	}

	if len(stages) != 3 {
		t.Errorf("expected 3 progress checkpoints, got %v", stages)
	}
	if report.RunID == "" || report.Duration == "" {
		t.Errorf("expected run metadata filled: %+v", report)
	}
	if report.Stats.FactCount == 0 || report.Stats.CitationCount == 0 {
		t.Errorf("expected stats computed: %+v", report.Stats)
	}
}

func TestPipeline_Research_PlanFailure(t *testing.T) {
	provider := &scriptedProvider{planErr: errors.New("model unavailable")}
	p := newPipeline(provider, &stubSearcher{}, testFetcher(), testConfig())

	report := p.Research(context.Background(), "TSLA", nil)

	if !strings.HasPrefix(report.Markdown, "Error generating plan:") {
		t.Errorf("expected plan error surfaced as the response, got %q", report.Markdown)
	}
	if len(report.Angles) != 0 {
		t.Errorf("expected no angle data after plan failure, got %d", len(report.Angles))
	}
}

func TestPipeline_Research_SynthesisFailure(t *testing.T) {
	provider := &scriptedProvider{
		planResponse:    tickerPlan,
		extractResponse: extraction,
		synthErr:        errors.New("model unavailable"),
	}
	p := newPipeline(provider, &stubSearcher{}, testFetcher(), testConfig())

	report := p.Research(context.Background(), "TSLA", nil)

	if !strings.HasPrefix(report.Markdown, "Error synthesizing report:") {
		t.Errorf("expected synthesis error surfaced as the response, got %q", report.Markdown)
	}
	// Angle research already completed; its data stays on the report
	if len(report.Angles) == 0 {
		t.Error("expected angle data preserved despite synthesis failure")
	}
}

func TestPipeline_Research_AngleFailureDegrades(t *testing.T) {
	provider := &scriptedProvider{
		planResponse:    tickerPlan,
		extractResponse: extraction,
		extractErrFor:   map[string]bool{"guidance": true},
		synthResponse:   synthesis,
	}
	p := newPipeline(provider, &stubSearcher{}, testFetcher(), testConfig())

	report := p.Research(context.Background(), "TSLA", nil)

	if report.Markdown == "" || strings.HasPrefix(report.Markdown, "Error") {
		t.Fatalf("expected successful report despite one failed angle, got %q", report.Markdown)
	}

	var failed *model.AngleData
	populated := 0
	for i := range report.Angles {
		if report.Angles[i].Angle == "guidance" {
			failed = &report.Angles[i]
			continue
		}
		if !report.Angles[i].IsEmpty() {
			populated++
		}
	}

	if failed == nil {
		t.Fatal("expected failed angle present in report")
	}
	// Failed angle degrades to an empty placeholder with non-nil lists
	if len(failed.KeyFacts) != 0 || len(failed.Claims) != 0 || len(failed.Citations) != 0 {
		t.Errorf("expected empty placeholder for failed angle: %+v", failed)
	}
	if failed.KeyFacts == nil || failed.Claims == nil || failed.Citations == nil {
		t.Errorf("expected non-nil empty lists: %+v", failed)
	}
	if populated != len(report.Angles)-1 {
		t.Errorf("expected %d populated angles, got %d", len(report.Angles)-1, populated)
	}
}

func TestPipeline_SearchFailureDegrades(t *testing.T) {
	provider := &scriptedProvider{
		planResponse:    tickerPlan,
		extractResponse: extraction,
		synthResponse:   synthesis,
	}
	searcher := &stubSearcher{err: errors.New("search provider exploded")}
	p := newPipeline(provider, searcher, testFetcher(), testConfig())

	// The wrapper swallows provider errors and returns an empty list
	results := p.searchResults(context.Background(), "tesla swot")
	if results == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}

	// And the full run still completes
	report := p.Research(context.Background(), "TSLA", nil)
	if strings.HasPrefix(report.Markdown, "Error") {
		t.Errorf("expected run to survive search failure, got %q", report.Markdown)
	}
}

func TestPipeline_SearchResultsCached(t *testing.T) {
	searcher := &stubSearcher{results: []model.SearchResult{
		{Title: "Hit", URL: "https://example.com/hit", Snippet: "snippet"},
	}}
	p := newPipeline(&scriptedProvider{}, searcher, testFetcher(), testConfig())
	p.store = cache.NewMemoryCache(time.Minute, time.Minute)

	first := p.searchResults(context.Background(), "tesla guidance")
	second := p.searchResults(context.Background(), "tesla guidance")

	if got := searcher.calls.Load(); got != 1 {
		t.Errorf("expected 1 provider call, got %d", got)
	}
	if len(first) != 1 || len(second) != 1 || second[0].URL != first[0].URL {
		t.Errorf("cached results differ: first=%v second=%v", first, second)
	}
}
