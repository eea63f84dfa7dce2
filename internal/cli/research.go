package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkarpov/angler/internal/model"
	"github.com/pkarpov/angler/internal/pipeline"
)

var (
	outJSON        string
	outMD          string
	runTimeout     time.Duration
	userAgent      string
	llmProvider    string
	llmModel       string
	searchProvider string
	maxResults     int
	noCache        bool
	noFooter       bool
	noRobots       bool
	checkCitations bool
)

// researchCmd represents the research command
var researchCmd = &cobra.Command{
	Use:   "research <query>",
	Short: "Research a query or stock ticker and generate a Markdown report",
	Long: `Research runs the full pipeline for one input:
- Plan 3-4 research angles (tickers/companies always get a SWOT angle)
- Search and fetch sources for every angle in parallel
- Extract key facts, claims, and citations per angle
- Synthesize one Markdown report

Example:
  angler research TSLA
  angler research "Future of quantum computing" --md report.md
  angler research VLKAF --llm-provider anthropic --check-citations`,
	Args: cobra.ExactArgs(1),
	RunE: runResearch,
}

func init() {
	rootCmd.AddCommand(researchCmd)

	// Output flags
	researchCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional; report always prints to stdout)")
	researchCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path with full run data (optional)")
	researchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown output")

	// Pipeline flags
	researchCmd.Flags().DurationVar(&runTimeout, "timeout", 5*time.Minute, "overall run timeout")
	researchCmd.Flags().StringVar(&userAgent, "ua", "Angler/0.1 (+https://github.com/pkarpov/angler)", "HTTP User-Agent for page fetches")
	researchCmd.Flags().StringVar(&searchProvider, "search-provider", "duckduckgo", "search provider (duckduckgo, tavily, brave)")
	researchCmd.Flags().IntVar(&maxResults, "max-results", 5, "search results per angle")
	researchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable page/search cache")
	researchCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks on page fetches")
	researchCmd.Flags().BoolVar(&checkCitations, "check-citations", false, "verify cited URLs are reachable after synthesis")

	// LLM flags
	researchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	researchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
}

func runResearch(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg := buildConfig()

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}

	progress := func(fraction float64, stage string) {
		fmt.Fprintf(os.Stderr, "[%3.0f%%] %s\n", fraction*100, stage)
	}

	report := p.Research(ctx, input, progress)

	// The report body always prints, even when it carries an error string
	fmt.Println()
	fmt.Println(report.Markdown)

	renderer := pipeline.NewRenderer(!noFooter)
	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote Markdown: %s\n", outMD)
		}
	}
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render json: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", outJSON)
		}
	}

	renderer.RenderSummary(report)
	return nil
}

// buildConfig assembles the runtime config from defaults plus CLI flags
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.RespectRobots = !noRobots
	cfg.Search.Provider = searchProvider
	cfg.Search.MaxResults = maxResults
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.Cache.Enabled = !noCache
	cfg.Research.CheckCitations = checkCitations
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	return cfg
}
