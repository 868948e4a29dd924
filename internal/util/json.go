// Package util holds internal helpers shared across packages. It lives under
// internal to avoid committing to public API stability prematurely.
package util

import (
	"fmt"
	"strings"
)

// ExtractJSON prepares a model completion for json.Unmarshal. Models wrap
// payloads in markdown fences and occasionally emit raw control characters
// inside string literals; both are repaired here rather than treated as
// failures.
func ExtractJSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", fmt.Errorf("empty model output")
	}

	text = stripFences(text)

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", fmt.Errorf("no JSON value in model output")
	}
	text = text[start:]

	return escapeControlChars(text), nil
}

// stripFences removes a surrounding markdown code fence, tolerating a
// language tag on the opening line.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// escapeControlChars rewrites raw control characters that appear inside JSON
// string literals: newlines, carriage returns and tabs become their escape
// sequences, any other control character is dropped. Characters outside
// string literals pass through untouched.
func escapeControlChars(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inString := false
	escaped := false
	for _, r := range text {
		if !inString {
			if r == '"' {
				inString = true
			}
			b.WriteRune(r)
			continue
		}
		if escaped {
			escaped = false
			b.WriteRune(r)
			continue
		}
		switch {
		case r == '\\':
			escaped = true
			b.WriteRune(r)
		case r == '"':
			inString = false
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20:
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
