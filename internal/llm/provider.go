package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkarpov/angler/internal/model"
)

// Provider defines the interface for text-generation backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one instruction + user prompt and returns the generated text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for one generation call
type CompletionRequest struct {
	// System is the instruction/role prompt
	System string

	// Prompt is the user-facing content
	Prompt string

	// Model overrides the configured model for this call (provider-specific)
	Model string

	// MaxTokens limits the response length (0 = provider default)
	MaxTokens int

	// Temperature controls randomness; pipeline calls use a low value
	Temperature float32
}

// CompletionResponse contains the generated output
type CompletionResponse struct {
	// Text is the raw generated text
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption (0 when the provider does not report it)
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, API-compatible gateways)
	BaseURL string

	// Timeout for API requests in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Timeout:   60,
		MaxTokens: 4000,
	}
}

// modelFor resolves the model for one call: per-call override, then config,
// then the provider default.
func (c Config) modelFor(req CompletionRequest, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	if c.Model != "" {
		return c.Model
	}
	return fallback
}

// tokensFor resolves the max-tokens budget the same way
func (c Config) tokensFor(req CompletionRequest, fallback int) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return fallback
}

// timeoutOr converts the configured timeout, applying fallback when unset
func (c Config) timeoutOr(fallback time.Duration) time.Duration {
	if c.Timeout > 0 {
		return time.Duration(c.Timeout) * time.Second
	}
	return fallback
}

// NewProvider creates an LLM provider based on configuration
func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "anthropic", "claude":
		return NewAnthropicProvider(cfg)
	case "ollama":
		return NewOllamaProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", cfg.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config, filling API keys
// from the environment when the config leaves them empty.
func ConfigFromModel(mc model.LLMConfig) Config {
	cfg := Config{
		Provider:  mc.Provider,
		Model:     mc.Model,
		APIKey:    mc.APIKey,
		BaseURL:   mc.BaseURL,
		Timeout:   mc.Timeout,
		MaxTokens: mc.MaxTokens,
	}
	if cfg.APIKey == "" {
		switch strings.ToLower(cfg.Provider) {
		case "openai":
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if cfg.BaseURL == "" && strings.ToLower(cfg.Provider) == "ollama" {
		cfg.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	return cfg
}
