package heuristics

import (
	"regexp"
	"strings"

	"github.com/muhammadolammi/resumematch/internal/resume"
)

var (
	experienceKeywords = []string{"experience", "work", "professional", "career", "employment history"}
	educationKeywords  = []string{"education", "degree", "university", "college", "academic"}
)

var paragraphSplitRegex = regexp.MustCompile(`\n[ \t]*\n`)

// Tried in order on each line after the first; the first hit on the
// earliest line wins.
var (
	companyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:company|employer)\b[ \t]*:?[ \t]*(\S.*)`),
		regexp.MustCompile(`(?i)\bat[ \t]+(\S.*)`),
	}
	institutionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\binstitution\b[ \t]*:?[ \t]*(\S.*)`),
		regexp.MustCompile(`(?i)\bat[ \t]+(\S.*)`),
		regexp.MustCompile(`(?i)^(.*\b(?:university|college)\b.*)$`),
	}
)

type section struct {
	heading     string
	field       string
	description string
}

func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range paragraphSplitRegex.Split(text, -1) {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

func extractExperience(paragraphs []string) []resume.ExperienceEntry {
	sections := classify(paragraphs, experienceKeywords, companyPatterns, resume.MaxExperience)
	entries := make([]resume.ExperienceEntry, 0, len(sections))
	for _, s := range sections {
		entries = append(entries, resume.ExperienceEntry{
			Title:       s.heading,
			Company:     s.field,
			Description: s.description,
		})
	}
	return entries
}

func extractEducation(paragraphs []string) []resume.EducationEntry {
	sections := classify(paragraphs, educationKeywords, institutionPatterns, resume.MaxEducation)
	entries := make([]resume.EducationEntry, 0, len(sections))
	for _, s := range sections {
		entries = append(entries, resume.EducationEntry{
			Degree:      s.heading,
			Institution: s.field,
			Description: s.description,
		})
	}
	return entries
}

// classify keeps, in text order, every paragraph containing one of keywords
// and splits it into heading, keyword-prefixed field and description.
// A paragraph may be classified by both the experience and education passes.
func classify(paragraphs, keywords []string, fieldPatterns []*regexp.Regexp, limit int) []section {
	var sections []section
	for _, p := range paragraphs {
		if !containsAny(strings.ToLower(p), keywords) {
			continue
		}
		lines := paragraphLines(p)
		if len(lines) == 0 {
			continue
		}
		rest := lines[1:]
		sections = append(sections, section{
			heading:     lines[0],
			field:       fieldFromLines(rest, fieldPatterns),
			description: strings.Join(rest, "\n"),
		})
	}
	if len(sections) > limit {
		sections = sections[:limit]
	}
	return sections
}

func paragraphLines(p string) []string {
	var lines []string
	for _, line := range strings.Split(p, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func fieldFromLines(lines []string, patterns []*regexp.Regexp) string {
	for _, line := range lines {
		for _, re := range patterns {
			if m := re.FindStringSubmatch(line); m != nil {
				if v := strings.TrimSpace(m[1]); v != "" {
					return v
				}
			}
		}
	}
	return resume.NotAvailable
}
