// Package jsonutil extracts structured lists from LLM responses that may be
// wrapped in markdown code fences or embedded in explanatory prose.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripMarkdownFences removes ```json ... ``` or ``` ... ``` wrapping from text.
// Returns the content between the fences, or the original text if no fences are found.
func StripMarkdownFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		return text
	}

	startIdx := 1 // skip the opening ``` line
	endIdx := len(lines)

	// Scan for the closing fence from the bottom, never matching the opening
	// line. A truncated response with no closing fence keeps everything after
	// the opening line.
	for i := len(lines) - 1; i >= startIdx; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			endIdx = i
			break
		}
	}

	return strings.Join(lines[startIdx:endIdx], "\n")
}

// ExtractList returns the substring between the first '[' and the last ']'
// in text, inclusive. The model is asked for a raw JSON array, but in practice
// responses arrive with prose before or after the list, so everything outside
// the outermost bracket pair is discarded before decoding.
func ExtractList(text string) (string, error) {
	text = strings.TrimSpace(text)

	start := strings.Index(text, "[")
	if start == -1 {
		return "", fmt.Errorf("no list found in response")
	}

	end := strings.LastIndex(text, "]")
	if end < start {
		return "", fmt.Errorf("no closing ] found in response")
	}

	return text[start : end+1], nil
}

// ParseList strips markdown fences from raw LLM response text, extracts the
// outermost JSON array, and unmarshals it into a slice of T.
func ParseList[T any](raw string) ([]T, error) {
	text := StripMarkdownFences(raw)
	listStr, err := ExtractList(text)
	if err != nil {
		return nil, fmt.Errorf("%w (raw length: %d)", err, len(raw))
	}

	var result []T
	if err := json.Unmarshal([]byte(listStr), &result); err != nil {
		preview := listStr
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return nil, fmt.Errorf("invalid JSON list: %w (text: %s)", err, preview)
	}
	return result, nil
}
