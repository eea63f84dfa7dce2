package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pkarpov/angler/internal/agent"
	"github.com/pkarpov/angler/internal/cache"
	"github.com/pkarpov/angler/internal/llm"
	"github.com/pkarpov/angler/internal/model"
	"github.com/pkarpov/angler/internal/search"
)

// ProgressFunc receives coarse progress checkpoints during a run
type ProgressFunc func(fraction float64, stage string)

// Pipeline orchestrates one research run: plan, per-angle research in
// parallel, then synthesis.
type Pipeline struct {
	planner     *agent.Planner
	extractor   *agent.Extractor
	synthesizer *agent.Synthesizer
	searcher    search.Provider
	fetcher     *Fetcher
	checker     *CitationChecker
	store       cache.Cache // nil when caching is disabled

	cfg *model.Config
	log *logrus.Entry
}

// NewPipeline wires a pipeline from configuration
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}

	searcher, err := search.NewProvider(cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("init search provider: %w", err)
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			store = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute)
		}
	}

	var checker *CitationChecker
	if cfg.Research.CheckCitations {
		checker = NewCitationChecker(cfg.HTTP.Timeout, cfg.Concurrency.CitationWorkers, cfg.HTTP.UserAgent)
	}

	return &Pipeline{
		planner:     agent.NewPlanner(provider),
		extractor:   agent.NewExtractor(provider, cfg.Research.PromptCharBudget),
		synthesizer: agent.NewSynthesizer(provider),
		searcher:    searcher,
		fetcher:     NewFetcher(cfg.HTTP, cfg.Research.PageCharBudget, store),
		checker:     checker,
		store:       store,
		cfg:         cfg,
		log:         logrus.WithField("component", "pipeline"),
	}, nil
}

// newPipeline assembles a pipeline from pre-built parts. Used by tests.
func newPipeline(provider llm.Provider, searcher search.Provider, fetcher *Fetcher, cfg *model.Config) *Pipeline {
	return &Pipeline{
		planner:     agent.NewPlanner(provider),
		extractor:   agent.NewExtractor(provider, cfg.Research.PromptCharBudget),
		synthesizer: agent.NewSynthesizer(provider),
		searcher:    searcher,
		fetcher:     fetcher,
		cfg:         cfg,
		log:         logrus.WithField("component", "pipeline"),
	}
}

// Research runs the full pipeline for one user input. It always returns a
// report: plan and synthesis failures become the report body, and per-angle
// failures degrade to empty placeholders without aborting the run.
func (p *Pipeline) Research(ctx context.Context, input string, progress ProgressFunc) *model.Report {
	if progress == nil {
		progress = func(float64, string) {}
	}

	report := &model.Report{
		RunID:     uuid.NewString(),
		Input:     input,
		StartedAt: time.Now().UTC(),
	}
	defer func() {
		report.Duration = time.Since(report.StartedAt).Round(time.Millisecond).String()
	}()

	// Step 1: plan
	progress(0.10, "Planning research...")
	plan, err := p.planner.Plan(ctx, input)
	if err != nil {
		report.Markdown = fmt.Sprintf("Error generating plan: %v", err)
		return report
	}
	report.Plan = *plan
	report.Topic = plan.Topic
	p.log.WithFields(logrus.Fields{
		"topic":  plan.Topic,
		"angles": len(plan.Angles),
		"ticker": plan.IsTicker,
	}).Debug("plan generated")

	// Step 2: fan out one goroutine per angle; results are slot-indexed so
	// fan-in preserves plan order without shared mutable state.
	progress(0.30, "Conducting research...")
	angleData := make([]model.AngleData, len(plan.Angles))
	var wg sync.WaitGroup
	for i, angle := range plan.Angles {
		wg.Add(1)
		go func(idx int, angle string) {
			defer wg.Done()
			angleData[idx] = p.processAngle(ctx, plan, angle)
		}(i, angle)
	}
	wg.Wait()
	report.Angles = angleData
	report.ComputeStats()

	// Step 3: synthesize
	progress(0.80, "Synthesizing report...")
	markdown, err := p.synthesizer.Synthesize(ctx, plan, angleData)
	if err != nil {
		report.Markdown = fmt.Sprintf("Error synthesizing report: %v", err)
		return report
	}
	report.Markdown = markdown

	// Optional citation liveness check; annotates the report but never
	// alters the synthesized body.
	if p.checker != nil {
		report.Citations = p.checker.Check(ctx, report.AllCitations())
	}

	return report
}

// processAngle researches a single angle: search, fetch top pages, extract.
// Any failure degrades to an empty placeholder so one angle never sinks the
// whole run.
func (p *Pipeline) processAngle(ctx context.Context, plan *model.ResearchPlan, angle string) model.AngleData {
	query := plan.Topic + " " + angle
	results := p.searchResults(ctx, query)

	p.attachContent(ctx, results)

	data, err := p.extractor.Extract(ctx, plan.Topic, angle, results)
	if err != nil {
		p.log.WithError(err).WithField("angle", angle).Warn("extraction failed, using empty placeholder")
		return model.EmptyAngleData(angle)
	}
	return data
}

// searchResults wraps the provider call with a response cache; provider
// failures degrade silently to an empty result list.
func (p *Pipeline) searchResults(ctx context.Context, query string) []model.SearchResult {
	key := cache.SearchKey(p.searcher.Name(), query)
	if p.store != nil {
		if data, ok := p.store.Get(key); ok {
			var cached []model.SearchResult
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached
			}
		}
	}

	results, err := p.searcher.Search(ctx, query, p.cfg.Search.MaxResults)
	if err != nil {
		p.log.WithError(err).WithField("query", query).Warn("search failed, continuing without results")
		return []model.SearchResult{}
	}

	if p.store != nil && len(results) > 0 {
		if data, err := json.Marshal(results); err == nil {
			if err := p.store.Set(key, data, 0); err != nil {
				p.log.WithError(err).Debug("search cache write failed")
			}
		}
	}
	return results
}

// attachContent fetches page text for the top results concurrently and
// attaches it to the corresponding result. Fetch failures leave Content
// empty; nothing propagates.
func (p *Pipeline) attachContent(ctx context.Context, results []model.SearchResult) {
	top := p.cfg.Research.FetchTop
	if top > len(results) {
		top = len(results)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < top; i++ {
		g.Go(func() error {
			text, err := p.fetcher.FetchText(gctx, results[i].URL)
			if err != nil {
				p.log.WithError(err).WithField("url", results[i].URL).Debug("page fetch failed")
				return nil
			}
			results[i].Content = text
			return nil
		})
	}
	_ = g.Wait()
}
