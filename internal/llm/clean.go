package llm

import (
	"strings"
	"unicode"
)

// cleanText strips common model artifacts from output.
func cleanText(s string) string {
	s = strings.TrimSpace(s)

	// reasoning models can leak their thinking block
	if idx := strings.Index(s, "</think>"); idx >= 0 {
		s = strings.TrimSpace(s[idx+len("</think>"):])
	}

	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// splitLines splits list output into at most max distinct non-empty entries,
// dropping bullets and numbering.
func splitLines(s string, max int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(cleanText(s), "\n") {
		line = stripMarker(strings.TrimSpace(line))
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		out = append(out, line)
		if len(out) == max {
			break
		}
	}
	return out
}

func stripMarker(line string) string {
	line = strings.TrimLeft(line, "-*•· ")
	digits := strings.IndexFunc(line, func(r rune) bool { return !unicode.IsDigit(r) })
	if digits > 0 && digits < len(line) && (line[digits] == '.' || line[digits] == ')') {
		line = line[digits+1:]
	}
	return cleanText(line)
}
