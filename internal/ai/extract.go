package ai

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSONArray is returned when a response contains no bracketed span.
var ErrNoJSONArray = errors.New("no JSON array found in response")

// jsonArrayPattern is greedy: it spans from the first '[' to the last ']'.
var jsonArrayPattern = regexp.MustCompile(`\[[\s\S]*\]`)

// ExtractArray returns the first bracketed span in s, from its first '[' to
// its last ']'. The span is not checked for validity.
func ExtractArray(s string) (string, error) {
	m := jsonArrayPattern.FindString(s)
	if m == "" {
		return "", ErrNoJSONArray
	}
	return m, nil
}

// extractJSON strips markdown code fences from a string that may contain
// JSON wrapped in ```json ... ``` or ``` ... ``` blocks.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	for _, fence := range []string{"```json", "```"} {
		if after, found := strings.CutPrefix(s, fence); found {
			if idx := strings.LastIndex(after, "```"); idx >= 0 {
				after = after[:idx]
			}
			return strings.TrimSpace(after)
		}
	}

	return s
}
