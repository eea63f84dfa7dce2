package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkarpov/angler/internal/llm"
	"github.com/pkarpov/angler/internal/model"
)

// Synthesizer combines all angle findings into one Markdown report
type Synthesizer struct {
	provider llm.Provider
}

// NewSynthesizer creates a synthesizer on top of an LLM provider
func NewSynthesizer(provider llm.Provider) *Synthesizer {
	return &Synthesizer{provider: provider}
}

// Synthesize runs the final generation call and returns the Markdown body
func (s *Synthesizer) Synthesize(ctx context.Context, plan *model.ResearchPlan, angles []model.AngleData) (string, error) {
	prompt := buildSynthesisPrompt(plan, angles)

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		System:      synthesizerInstructions,
		Prompt:      prompt,
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("synthesis call: %w", err)
	}

	markdown := strings.TrimSpace(resp.Text)
	if markdown == "" {
		return "", fmt.Errorf("synthesis returned empty report")
	}
	return markdown, nil
}

// buildSynthesisPrompt concatenates every angle's findings into one context
func buildSynthesisPrompt(plan *model.ResearchPlan, angles []model.AngleData) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Topic: %s\nContext: %s\n\nCollected Data:\n", plan.Topic, plan.Context)

	for _, data := range angles {
		fmt.Fprintf(&sb, "\nAngle: %s\n", data.Angle)
		writeList(&sb, "Facts", data.KeyFacts)
		writeList(&sb, "Claims", data.Claims)
		writeList(&sb, "Citations", data.Citations)
	}
	return sb.String()
}

func writeList(sb *strings.Builder, label string, items []string) {
	fmt.Fprintf(sb, "%s:\n", label)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
}
