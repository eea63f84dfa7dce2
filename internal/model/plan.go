package model

import (
	"fmt"
	"strings"
)

// Angle count bounds for a research plan.
const (
	MinAngles = 3
	MaxAngles = 4
)

// ResearchPlan describes how a user request will be investigated
type ResearchPlan struct {
	IsTicker bool     `json:"is_ticker"` // Whether the input looks like a stock ticker
	Topic    string   `json:"topic"`     // Resolved subject (e.g., "Volkswagen")
	Context  string   `json:"context"`   // Extra context (sector, industry, domain)
	Angles   []string `json:"angles"`    // 3-4 distinct research angles, order preserved
}

// Normalize trims angle strings, drops empties, and caps the list at MaxAngles.
func (p *ResearchPlan) Normalize() {
	p.Topic = strings.TrimSpace(p.Topic)
	p.Context = strings.TrimSpace(p.Context)

	angles := p.Angles[:0]
	for _, a := range p.Angles {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		angles = append(angles, a)
	}
	if len(angles) > MaxAngles {
		angles = angles[:MaxAngles]
	}
	p.Angles = angles
}

// Validate checks that the plan is usable for research
func (p *ResearchPlan) Validate() error {
	if p.Topic == "" {
		return fmt.Errorf("plan has no topic")
	}
	if len(p.Angles) == 0 {
		return fmt.Errorf("plan has no research angles")
	}
	if len(p.Angles) > MaxAngles {
		return fmt.Errorf("plan has %d angles, max is %d", len(p.Angles), MaxAngles)
	}
	return nil
}

// HasAngle reports whether any angle contains the given substring (case-insensitive)
func (p *ResearchPlan) HasAngle(substr string) bool {
	substr = strings.ToLower(substr)
	for _, a := range p.Angles {
		if strings.Contains(strings.ToLower(a), substr) {
			return true
		}
	}
	return false
}
