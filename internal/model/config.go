package model

import "time"

// Config holds the complete runtime configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Research    ResearchConfig    `yaml:"research" mapstructure:"research"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls page fetching
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"` // Per-domain fetch rate
	HTTPProxy         string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy           string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// SearchConfig controls the search provider
type SearchConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"`       // duckduckgo, tavily, brave
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`         // For tavily/brave
	MaxResults int    `yaml:"max_results" mapstructure:"max_results"` // Result cap per query
}

// LLMConfig controls the text-generation provider
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds, per call
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ResearchConfig controls the pipeline itself
type ResearchConfig struct {
	FetchTop         int  `yaml:"fetch_top" mapstructure:"fetch_top"`                   // How many top results get full-page fetch
	PageCharBudget   int  `yaml:"page_char_budget" mapstructure:"page_char_budget"`     // Max fetched chars kept per page
	PromptCharBudget int  `yaml:"prompt_char_budget" mapstructure:"prompt_char_budget"` // Max page chars quoted in prompts
	CheckCitations   bool `yaml:"check_citations" mapstructure:"check_citations"`       // Verify cited URLs after synthesis
}

// CacheConfig controls search/page caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"` // Disk cache location ("" = memory only)
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls worker counts
type ConcurrencyConfig struct {
	BatchWorkers    int `yaml:"batch_workers" mapstructure:"batch_workers"`       // Parallel queries in batch mode
	CitationWorkers int `yaml:"citation_workers" mapstructure:"citation_workers"` // Parallel citation checks
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns sensible defaults matching the CLI flag defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:           10 * time.Second,
			UserAgent:         "Angler/0.1 (+https://github.com/pkarpov/angler)",
			MaxBodyBytes:      2_000_000,
			RespectRobots:     true,
			RequestsPerSecond: 2,
		},
		Search: SearchConfig{
			Provider:   "duckduckgo",
			MaxResults: 5,
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Timeout:   60,
			MaxTokens: 4000,
		},
		Research: ResearchConfig{
			FetchTop:         2,
			PageCharBudget:   10000,
			PromptCharBudget: 2000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers:    4,
			CitationWorkers: 10,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
