package gemini

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseJSON unmarshals a model response that may arrive wrapped in markdown
// code fences even when a response schema was requested.
func parseJSON[T any](raw string) (T, error) {
	var result T
	text := stripFences(raw)
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		preview := text
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return result, fmt.Errorf("invalid JSON: %w (text: %s)", err, preview)
	}
	return result, nil
}

// stripFences removes a ```json ... ``` (or plain ```) wrapper if present.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		return text
	}
	end := len(lines) - 1
	for i := len(lines) - 1; i > 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			end = i
			break
		}
	}
	return strings.Join(lines[1:end], "\n")
}
