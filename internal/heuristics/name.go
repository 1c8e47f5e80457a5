package heuristics

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/muhammadolammi/resumematch/internal/resume"
)

const nameScanLines = 5

var nameBoilerplate = []string{"resume", "curriculum vitae", "c.v.", "contact", "summary", "objective"}

var (
	capitalizedWordRegex = regexp.MustCompile(`^[A-Z][a-z'-]*$`)
	nameFieldRegex       = regexp.MustCompile(`(?im)^[ \t]*(?:file)?name[ \t]*:[ \t]*(\S[^\n]*)$`)
	namePunctRegex       = regexp.MustCompile(`[^\p{L}\p{N}\s'-]`)
)

func extractName(text string) string {
	for _, line := range leadingLines(text, nameScanLines) {
		if containsAny(strings.ToLower(line), nameBoilerplate) {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 5 {
			continue
		}
		capitalized := 0
		for _, w := range words {
			if capitalizedWordRegex.MatchString(w) {
				capitalized++
			}
		}
		if capitalized < len(words)-1 {
			continue
		}
		if name := cleanName(line); name != "" {
			return name
		}
	}

	if m := nameFieldRegex.FindStringSubmatch(text); m != nil {
		if name := cleanName(m[1]); name != "" {
			return name
		}
	}
	return resume.UnnamedResume
}

// cleanName drops punctuation other than apostrophes and hyphens, collapses
// whitespace and title-cases every word.
func cleanName(s string) string {
	words := strings.Fields(namePunctRegex.ReplaceAllString(s, " "))
	// A Caser is stateful, so each call gets its own.
	caser := cases.Title(language.Und)
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// leadingLines returns up to n trimmed non-empty lines from the top of text.
func leadingLines(text string, n int) []string {
	lines := make([]string, 0, n)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == n {
			break
		}
	}
	return lines
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
