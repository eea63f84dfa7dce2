package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkarpov/angler/internal/model"
	"github.com/pkarpov/angler/internal/pipeline"
	"github.com/pkarpov/angler/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Research multiple queries from a file in parallel",
	Long: `Batch researches multiple queries concurrently:
- Read queries from the input file (one per line, # comments allowed)
- Run full research pipelines in parallel with a configurable worker count
- Write one Markdown report per query into the output directory

Example:
  angler batch queries.txt
  angler batch queries.txt --concurrency 2 --output-dir ./reports
  angler batch tickers.txt --llm-provider anthropic --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of queries researched in parallel")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./angler-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for the batch")

	// Shared pipeline flags
	batchCmd.Flags().StringVar(&userAgent, "ua", "Angler/0.1 (+https://github.com/pkarpov/angler)", "HTTP User-Agent for page fetches")
	batchCmd.Flags().StringVar(&searchProvider, "search-provider", "duckduckgo", "search provider (duckduckgo, tavily, brave)")
	batchCmd.Flags().IntVar(&maxResults, "max-results", 5, "search results per angle")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable page/search cache")
	batchCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks on page fetches")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := buildConfig()
	cfg.Concurrency.BatchWorkers = concurrency

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Batch research: %s (workers=%d, output=%s)\n", file, concurrency, outputDir)

	run := func(ctx context.Context, query string) *model.Report {
		return p.Research(ctx, query, nil)
	}

	processor := worker.NewBatchProcessor(run, concurrency)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	renderer := pipeline.NewRenderer(!noFooter)
	succeeded := 0
	for _, result := range results {
		if result.Err != nil || result.Report == nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Query, result.Err)
			continue
		}

		path := filepath.Join(outputDir, slugify(result.Query)+".md")
		if err := renderer.RenderMarkdown(result.Report, path); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Query, err)
			continue
		}
		succeeded++
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s → %s\n", result.Query, path)
		}
	}

	fmt.Fprintf(os.Stderr, "Done: %d/%d reports written to %s\n", succeeded, len(results), outputDir)
	return nil
}

// slugify turns a query into a safe file name
func slugify(query string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(query)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteByte('-')
		}
	}
	slug := strings.Trim(sb.String(), "-")
	if slug == "" {
		slug = "query"
	}
	if len(slug) > 64 {
		slug = slug[:64]
	}
	return slug
}
