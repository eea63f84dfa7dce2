package model

// SearchResult is a normalized hit from a search provider
type SearchResult struct {
	Title   string `json:"title"`             // Result title as shown by the provider
	URL     string `json:"url"`               // Source URL
	Snippet string `json:"snippet"`           // Short snippet/body from the provider
	Content string `json:"content,omitempty"` // Fetched page text, set once after fetch
}

// AngleData holds the structured findings extracted for one research angle
type AngleData struct {
	Angle     string   `json:"angle"`     // Name of the angle analyzed (e.g., "SWOT analysis")
	KeyFacts  []string `json:"key_facts"` // Important facts and numeric takeaways
	Claims    []string `json:"claims"`    // Specific claims made in the sources
	Citations []string `json:"citations"` // URLs supporting the facts/claims
}

// EmptyAngleData returns the fallback placeholder used when extraction fails.
// Lists are non-nil so downstream rendering never distinguishes nil from empty.
func EmptyAngleData(angle string) AngleData {
	return AngleData{
		Angle:     angle,
		KeyFacts:  []string{},
		Claims:    []string{},
		Citations: []string{},
	}
}

// IsEmpty reports whether the angle produced no findings at all
func (d AngleData) IsEmpty() bool {
	return len(d.KeyFacts) == 0 && len(d.Claims) == 0 && len(d.Citations) == 0
}
