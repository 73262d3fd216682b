package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseToolArguments decodes the argument payload of a tool call emitted by a
// reasoning model. OpenAI-compatible APIs encode arguments as a JSON string,
// and weaker models sometimes wrap that JSON in markdown fences or prose, so
// decoding falls back through extraction strategies before giving up.
func ParseToolArguments(raw string) (map[string]any, error) {
	var args map[string]any
	if err := ParseAIJSON(raw, &args); err != nil {
		return nil, fmt.Errorf("tool arguments: %w", err)
	}
	return args, nil
}

// ParseAIJSON parses JSON from model output that may be pure JSON, JSON inside
// a markdown code block, or JSON embedded in surrounding text.
func ParseAIJSON(input string, target any) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("empty input")
	}

	// Most common case: the output is already clean JSON.
	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if extracted := extractFromMarkdown(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	if extracted := extractJSONFromText(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no parseable JSON in input: %s", truncateString(input, 100))
}

var (
	fencedJSONRe  = regexp.MustCompile("(?s)```json\\s*(.+?)\\s*```")
	fencedBlockRe = regexp.MustCompile("(?s)```\\s*(.+?)\\s*```")
)

// extractFromMarkdown pulls the body out of a ```json or bare ``` fence.
func extractFromMarkdown(input string) string {
	if matches := fencedJSONRe.FindStringSubmatch(input); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	if matches := fencedBlockRe.FindStringSubmatch(input); len(matches) > 1 {
		content := strings.TrimSpace(matches[1])
		if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
			return content
		}
	}
	return ""
}

// extractJSONFromText finds the first balanced JSON object or array in text.
func extractJSONFromText(input string) string {
	if start := strings.Index(input, "{"); start >= 0 {
		if extracted := extractBalanced(input[start:], '{', '}'); extracted != "" {
			return extracted
		}
	}
	if start := strings.Index(input, "["); start >= 0 {
		if extracted := extractBalanced(input[start:], '[', ']'); extracted != "" {
			return extracted
		}
	}
	return ""
}

// extractBalanced returns the prefix of input spanning one balanced pair of
// open/close runes, honoring JSON string literals and escapes.
func extractBalanced(input string, open, close rune) string {
	depth := 0
	inString := false
	escape := false

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}
		if ch == '\\' {
			escape = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch ch {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return input[:i+1]
			}
		}
	}
	return ""
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
