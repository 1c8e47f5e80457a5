package heuristics

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/muhammadolammi/resumematch/internal/resume"
)

const (
	minSkillLen = 2
	maxSkillLen = 49
)

var (
	skillsBlockRegex  = regexp.MustCompile(`(?is)(?:technical skills|skills|proficiencies)[ \t]*:?(.*?)(?:\n[ \t]*\n|\z)`)
	skillSplitRegex   = regexp.MustCompile(`[,;•\n]`)
	summaryBlockRegex = regexp.MustCompile(`(?is)\b(?:summary|objective|profile)\b[ \t]*:?(.*?)(?:\n[ \t]*\n|\z)`)
)

func extractSkills(text string) []string {
	skills := make([]string, 0)
	m := skillsBlockRegex.FindStringSubmatch(text)
	if m == nil {
		return skills
	}
	seen := make(map[string]struct{})
	for _, candidate := range skillSplitRegex.Split(m[1], -1) {
		candidate = strings.TrimSpace(candidate)
		n := utf8.RuneCountInString(candidate)
		if n < minSkillLen || n > maxSkillLen {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		skills = append(skills, candidate)
		if len(skills) == resume.MaxSkills {
			break
		}
	}
	return skills
}

func extractSummary(text string) string {
	m := summaryBlockRegex.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return truncateRunes(strings.Join(strings.Fields(m[1]), " "), resume.MaxSummary)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
