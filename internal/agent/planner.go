package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkarpov/angler/internal/llm"
	"github.com/pkarpov/angler/internal/model"
)

// financialKeywords mark topic/context text as corporate or financial research
var financialKeywords = []string{
	"company", "stock", "equity", "market cap", "earnings", "investor",
}

// Planner turns a free-text request into a research plan
type Planner struct {
	provider llm.Provider
}

// NewPlanner creates a planner on top of an LLM provider
func NewPlanner(provider llm.Provider) *Planner {
	return &Planner{provider: provider}
}

// Plan builds a research plan for the user input
func (p *Planner) Plan(ctx context.Context, input string) (*model.ResearchPlan, error) {
	resp, err := p.provider.Complete(ctx, llm.CompletionRequest{
		System:      plannerInstructions,
		Prompt:      input,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("planning call: %w", err)
	}

	var plan model.ResearchPlan
	if err := decodeJSON(resp.Text, &plan); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}

	plan.Normalize()
	EnsureSWOTAngle(&plan)

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	return &plan, nil
}

// EnsureSWOTAngle forces a SWOT angle into ticker/company-style plans.
// When the plan is already at the angle cap the last angle is replaced;
// otherwise "SWOT analysis" is appended. Non-financial plans are untouched.
func EnsureSWOTAngle(plan *model.ResearchPlan) {
	needsSWOT := plan.IsTicker
	if !needsSWOT {
		combined := strings.ToLower(plan.Topic + " " + plan.Context)
		for _, kw := range financialKeywords {
			if strings.Contains(combined, kw) {
				needsSWOT = true
				break
			}
		}
	}
	if !needsSWOT || plan.HasAngle("swot") {
		return
	}

	if len(plan.Angles) >= model.MaxAngles {
		plan.Angles[len(plan.Angles)-1] = "SWOT analysis"
	} else {
		plan.Angles = append(plan.Angles, "SWOT analysis")
	}
}
