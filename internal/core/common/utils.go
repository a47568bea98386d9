package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON cleans and unmarshals a JSON object string into a type T.
// It handles common LLM quirks: markdown fences, prose before or after the
// object, and stray whitespace. If a direct parse fails it retries on the
// substring between the first '{' and the last '}'.
func ParseJSON[T any](response string) (T, error) {
	var result T

	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	if err := json.Unmarshal([]byte(cleaned), &result); err == nil {
		return result, nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || start >= end {
		var zero T
		return zero, fmt.Errorf("no JSON object found in response")
	}

	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &result); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return result, nil
}

// Truncate bounds text to at most max bytes, cutting at a line boundary
// when one is close so a document excerpt does not end mid-sentence.
func Truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	cut := text[:max]
	if idx := strings.LastIndex(cut, "\n"); idx > max/2 {
		cut = cut[:idx]
	}
	return cut
}
