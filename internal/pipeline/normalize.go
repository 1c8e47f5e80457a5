package pipeline

import (
	"path"
	"strings"

	"github.com/muhammadolammi/resumematch/internal/resume"
)

// Normalize shapes a candidate into the canonical record: defaults for
// missing values, list caps, skill de-duplication and non-nil slices.
// fullText is attached verbatim.
func Normalize(c resume.CandidateRecord, fullText string, format resume.Format) resume.CanonicalResumeExtraction {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = resume.UnnamedResume
	}

	experience := make([]resume.ExperienceEntry, 0, min(len(c.Experience), resume.MaxExperience))
	for _, e := range c.Experience {
		if len(experience) == resume.MaxExperience {
			break
		}
		if strings.TrimSpace(e.Company) == "" {
			e.Company = resume.NotAvailable
		}
		experience = append(experience, e)
	}

	education := make([]resume.EducationEntry, 0, min(len(c.Education), resume.MaxEducation))
	for _, e := range c.Education {
		if len(education) == resume.MaxEducation {
			break
		}
		if strings.TrimSpace(e.Institution) == "" {
			e.Institution = resume.NotAvailable
		}
		education = append(education, e)
	}

	skills := make([]string, 0, min(len(c.Skills), resume.MaxSkills))
	seen := make(map[string]struct{}, len(c.Skills))
	for _, s := range c.Skills {
		if len(skills) == resume.MaxSkills {
			break
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		skills = append(skills, s)
	}

	return resume.CanonicalResumeExtraction{
		Name:       name,
		Contact:    c.Contact,
		Summary:    truncateRunes(c.Summary, resume.MaxSummary),
		Experience: experience,
		Education:  education,
		Skills:     skills,
		FullText:   fullText,
		FormatUsed: format,
	}
}

// Unsupported is the record for a document no extractor handles.
func Unsupported(fileName string) resume.CanonicalResumeExtraction {
	return Degraded(fileName, resume.ExtractedText{
		FormatUsed: resume.FormatUnsupported,
		Note:       NoteUnsupported,
	})
}

// Degraded is the record for a document whose text could not be recovered.
// The note becomes the summary and every structured field stays empty.
func Degraded(fileName string, text resume.ExtractedText) resume.CanonicalResumeExtraction {
	return resume.CanonicalResumeExtraction{
		Name:       FileTitle(fileName),
		Summary:    text.Note,
		Experience: []resume.ExperienceEntry{},
		Education:  []resume.EducationEntry{},
		Skills:     []string{},
		FullText:   "",
		FormatUsed: text.FormatUsed,
		ParseError: text.ParseError,
		Transient:  text.Transient,
	}
}

// FileTitle is the file's base name without its extension, or
// resume.DefaultFileTitle when nothing is left.
func FileTitle(fileName string) string {
	base := baseName(fileName)
	title := strings.TrimSpace(strings.TrimSuffix(base, path.Ext(base)))
	if title == "" {
		return resume.DefaultFileTitle
	}
	return title
}

func baseName(fileName string) string {
	fileName = strings.ReplaceAll(fileName, `\`, "/")
	base := path.Base(fileName)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
