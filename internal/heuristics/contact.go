package heuristics

import (
	"regexp"
	"strings"
)

var (
	// Run against lower-cased text.
	emailRegex = regexp.MustCompile(`[a-z0-9._-]+@[a-z0-9.-]+\.[a-z]{2,6}`)
	phoneRegex = regexp.MustCompile(`(\+\d{1,3}[- ]?)?\d{3}[- ]?\d{3}[- ]?\d{4}`)

	linkedInRegex = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/[a-z0-9_-]+`)
)

// Scan order matters: the first keyword with a hit wins.
var locationKeywords = []string{"address", "location", "city", "state", "country"}

var locationPatterns = compileLocationPatterns(locationKeywords)

func compileLocationPatterns(keywords []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+kw+`\b[ \t]*:?[ \t]*(\S[^\n]*)`))
	}
	return patterns
}

func firstMatch(re *regexp.Regexp, text string) string {
	return re.FindString(text)
}

func extractLocation(text string) string {
	for _, re := range locationPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		return strings.TrimSpace(m[1])
	}
	return ""
}
