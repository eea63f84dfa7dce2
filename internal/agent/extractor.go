package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkarpov/angler/internal/llm"
	"github.com/pkarpov/angler/internal/model"
)

// Extractor pulls structured findings for one angle out of search results
type Extractor struct {
	provider llm.Provider

	// contentBudget caps how many fetched-page chars are quoted per result
	contentBudget int
}

// NewExtractor creates an extractor on top of an LLM provider
func NewExtractor(provider llm.Provider, contentBudget int) *Extractor {
	if contentBudget <= 0 {
		contentBudget = 2000
	}
	return &Extractor{provider: provider, contentBudget: contentBudget}
}

// Extract runs one extraction call for the angle over the given results
func (e *Extractor) Extract(ctx context.Context, topic, angle string, results []model.SearchResult) (model.AngleData, error) {
	prompt := e.buildPrompt(topic, angle, results)

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		System:      extractorInstructions,
		Prompt:      prompt,
		Temperature: 0.2,
	})
	if err != nil {
		return model.AngleData{}, fmt.Errorf("extraction call: %w", err)
	}

	var data model.AngleData
	if err := decodeJSON(resp.Text, &data); err != nil {
		return model.AngleData{}, fmt.Errorf("parse extraction: %w", err)
	}

	if data.Angle == "" {
		data.Angle = angle
	}
	// Normalize nil lists so callers never branch on nil vs empty
	if data.KeyFacts == nil {
		data.KeyFacts = []string{}
	}
	if data.Claims == nil {
		data.Claims = []string{}
	}
	if data.Citations == nil {
		data.Citations = []string{}
	}
	return data, nil
}

// buildPrompt lists all results with metadata plus trimmed page content
func (e *Extractor) buildPrompt(topic, angle string, results []model.SearchResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Topic: %s\nAngle: %s\n\nSearch Results:\n", topic, angle)

	for _, r := range results {
		fmt.Fprintf(&sb, "- Title: %s\n  URL: %s\n  Snippet: %s\n", r.Title, r.URL, r.Snippet)
		if r.Content != "" {
			content := r.Content
			if len(content) > e.contentBudget {
				content = content[:e.contentBudget] + "..."
			}
			fmt.Fprintf(&sb, "  Content: %s\n", content)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
