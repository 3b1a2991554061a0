package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// DecodeJSON parses an LLM response into dest. Models wrap JSON in markdown
// fences and occasionally emit truncated or single-quoted output, so the raw
// content is unfenced first and repaired if plain decoding fails.
func DecodeJSON(content string, dest interface{}) error {
	cleaned := Unfence(content)

	if err := json.Unmarshal([]byte(cleaned), dest); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return fmt.Errorf("invalid JSON response: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), dest); err != nil {
		return fmt.Errorf("invalid JSON response after repair: %w", err)
	}
	return nil
}

// Unfence strips markdown code fences around a model response.
func Unfence(content string) string {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
