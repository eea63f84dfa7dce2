package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkarpov/angler/internal/model"
)

// Renderer writes reports to files and prints a run summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderMarkdown writes the report body (plus optional footer) to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var sb strings.Builder
	sb.WriteString(report.Markdown)
	sb.WriteString("\n")

	if r.includeFooter {
		sb.WriteString("\n---\n")
		fmt.Fprintf(&sb, "_Generated by angler | run %s | %d angles, %d facts, %d citations | %s_\n",
			report.RunID, report.Stats.AngleCount, report.Stats.FactCount,
			report.Stats.CitationCount, report.Duration)
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderJSON writes the full report structure to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// RenderSummary prints a short run summary to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Printf("\nTopic:     %s\n", report.Topic)
	fmt.Printf("Angles:    %d\n", report.Stats.AngleCount)
	fmt.Printf("Findings:  %d facts, %d claims, %d citations\n",
		report.Stats.FactCount, report.Stats.ClaimCount, report.Stats.CitationCount)
	if report.Stats.EmptyAngles > 0 {
		fmt.Printf("Warning:   %d angle(s) produced no findings\n", report.Stats.EmptyAngles)
	}
	if len(report.Citations) > 0 {
		alive := 0
		for _, c := range report.Citations {
			if c.IsAccessible {
				alive++
			}
		}
		fmt.Printf("Citations: %d/%d reachable\n", alive, len(report.Citations))
	}
	fmt.Printf("Duration:  %s\n", report.Duration)
}
