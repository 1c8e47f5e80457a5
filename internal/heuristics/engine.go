// Package heuristics recovers structured résumé fields from plain text with a
// fixed sequence of pattern-matching passes.
//
// Every pass is first-match-wins: there is no confidence scoring and no
// semantic disambiguation, so a match may be imprecise (two unrelated
// capitalised words can be taken for a name). Matching is case-insensitive;
// values are returned in the case they appear in the text, except email,
// which is lower-cased, and name, which is re-title-cased.
package heuristics

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/muhammadolammi/resumematch/internal/resume"
)

// ExtractFields runs every heuristic over text. It performs no I/O and only
// fails when text is not valid UTF-8; any other input degrades to empty fields.
func ExtractFields(text string) (resume.CandidateRecord, error) {
	if !utf8.ValidString(text) {
		return resume.CandidateRecord{}, fmt.Errorf("extract fields: %w", resume.ErrInvalidInput)
	}
	text = normalizeNewlines(text)
	lower := strings.ToLower(text)
	paragraphs := splitParagraphs(text)

	return resume.CandidateRecord{
		Name: extractName(text),
		Contact: resume.Contact{
			Email:    firstMatch(emailRegex, lower),
			Phone:    firstMatch(phoneRegex, lower),
			Location: extractLocation(text),
			LinkedIn: strings.ToLower(firstMatch(linkedInRegex, text)),
		},
		Summary:    extractSummary(text),
		Experience: extractExperience(paragraphs),
		Education:  extractEducation(paragraphs),
		Skills:     extractSkills(text),
	}, nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
