package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Validator checks a decoded value after JSON extraction. Returns nil if
// valid, or a descriptive error if invalid.
type Validator[T any] func(T) error

// DecodeReply extracts a JSON object of type T from raw model output. The
// model is instructed to emit bare JSON, but replies still sometimes arrive
// wrapped in markdown fences or surrounded by prose, so the first balanced
// object in the text is taken. If validator is non-nil, the decoded value is
// validated before return.
func DecodeReply[T any](raw string, validator Validator[T]) (T, error) {
	var zero T

	jsonStr := firstJSONObject(stripFences(raw))
	if jsonStr == "" {
		return zero, fmt.Errorf("%w: no JSON object found in reply", ErrInvalidOutput)
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
		}
	}

	return result, nil
}

// stripFences drops markdown code fence lines (``` or ```json).
func stripFences(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// firstJSONObject returns the first balanced { ... } block in s, respecting
// string literals and escapes.
func firstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}
