package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeJSON unmarshals a model response into v, tolerating the ways models
// wrap JSON: markdown code fences, leading prose, trailing commentary. It
// finds the outermost object in the text and decodes that.
func decodeJSON(text string, v any) error {
	text = strings.TrimSpace(text)

	// Strip a markdown code fence if present
	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in response")
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
