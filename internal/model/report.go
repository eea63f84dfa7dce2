package model

import "time"

// Report is the final output of one research run
type Report struct {
	RunID     string    `json:"run_id"`     // Unique identifier for this run
	Input     string    `json:"input"`      // Original user input (query or ticker)
	Topic     string    `json:"topic"`      // Resolved topic from the plan
	StartedAt time.Time `json:"started_at"` // When planning began
	Duration  string    `json:"duration"`   // Wall-clock duration of the run

	Plan   ResearchPlan `json:"plan"`   // The plan that drove the research
	Angles []AngleData  `json:"angles"` // Per-angle findings, in plan order

	Markdown string `json:"markdown"` // Synthesized report body

	Stats     ReportStats     `json:"stats"`               // Aggregate counts
	Citations []CitationCheck `json:"citations,omitempty"` // Optional citation liveness results
}

// ReportStats aggregates findings across all angles
type ReportStats struct {
	AngleCount    int `json:"angle_count"`
	FactCount     int `json:"fact_count"`
	ClaimCount    int `json:"claim_count"`
	CitationCount int `json:"citation_count"`
	EmptyAngles   int `json:"empty_angles"` // Angles that produced no findings
}

// CitationCheck records liveness of a single cited URL
type CitationCheck struct {
	URL          string `json:"url"`
	IsAccessible bool   `json:"is_accessible"`
	StatusCode   int    `json:"status_code,omitempty"`
	Error        string `json:"error,omitempty"`
}

// ComputeStats fills Stats from the report's angle data
func (r *Report) ComputeStats() {
	s := ReportStats{AngleCount: len(r.Angles)}
	for _, a := range r.Angles {
		s.FactCount += len(a.KeyFacts)
		s.ClaimCount += len(a.Claims)
		s.CitationCount += len(a.Citations)
		if a.IsEmpty() {
			s.EmptyAngles++
		}
	}
	r.Stats = s
}

// AllCitations returns deduplicated citation URLs across all angles, in order
func (r *Report) AllCitations() []string {
	seen := make(map[string]bool)
	var urls []string
	for _, a := range r.Angles {
		for _, u := range a.Citations {
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			urls = append(urls, u)
		}
	}
	return urls
}
