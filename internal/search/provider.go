package search

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkarpov/angler/internal/model"
)

// Provider executes a web search query and returns normalized results
type Provider interface {
	// Name returns the provider name
	Name() string

	// Search runs the query and returns at most maxResults hits
	Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error)
}

// NewProvider creates a search provider based on configuration
func NewProvider(cfg model.SearchConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "duckduckgo", "ddg":
		return NewDuckDuckGo(), nil

	case "tavily":
		key := cfg.APIKey
		if key == "" {
			key = os.Getenv("TAVILY_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("tavily requires an API key (TAVILY_API_KEY)")
		}
		return NewTavily(key), nil

	case "brave":
		key := cfg.APIKey
		if key == "" {
			key = os.Getenv("BRAVE_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("brave requires an API key (BRAVE_API_KEY)")
		}
		return NewBrave(key), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s (supported: duckduckgo, tavily, brave)", cfg.Provider)
	}
}
