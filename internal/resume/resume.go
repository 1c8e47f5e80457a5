// Package resume holds the value types that flow through the extraction
// pipeline. Every value is created per invocation and returned by value.
package resume

// Format tags which text extractor produced a document's text.
type Format string

const (
	FormatPDF         Format = "pdf"
	FormatDocx        Format = "docx"
	FormatImage       Format = "image"
	FormatText        Format = "text"
	FormatUnsupported Format = "unsupported"
)

// List caps bound the effect of a single malformed document on storage and UI.
const (
	MaxExperience = 5
	MaxEducation  = 5
	MaxSkills     = 20
	MaxSummary    = 500
)

const (
	// UnnamedResume is used when no name heuristic matches.
	UnnamedResume = "Unnamed Resume"
	// DefaultFileTitle is used when a degraded record has no usable filename.
	DefaultFileTitle = "My Resume"
	// NotAvailable fills company and institution fields that could not be found.
	NotAvailable = "N/A"
)

// RawDocument is the pipeline input. Bytes are not retained after processing.
type RawDocument struct {
	Bytes            []byte
	DeclaredMimeType string
	FileName         string
}

// ExtractedText is what a text extractor hands to the heuristics engine.
// FullText is empty, never missing, when extraction fails; Note then
// explains why and ParseError carries the underlying cause. Transient marks
// a failure that may not repeat for the same bytes, such as a decode timeout.
type ExtractedText struct {
	FullText   string
	FormatUsed Format
	Note       string
	ParseError string
	Transient  bool
}

// Degraded reports whether the extractor gave up on the document.
func (t ExtractedText) Degraded() bool {
	return t.Note != ""
}

type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
}

type ExperienceEntry struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Description string `json:"description"`
}

// CandidateRecord accumulates the fields recovered by the heuristics engine.
type CandidateRecord struct {
	Name       string
	Contact    Contact
	Summary    string
	Experience []ExperienceEntry
	Education  []EducationEntry
	Skills     []string
}

// CanonicalResumeExtraction is the only shape persistence and scoring depend on.
// It is identical regardless of which extractor ran.
type CanonicalResumeExtraction struct {
	Name       string            `json:"name"`
	Contact    Contact           `json:"contact"`
	Summary    string            `json:"summary"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
	Skills     []string          `json:"skills"`
	FullText   string            `json:"full_text"`
	FormatUsed Format            `json:"format_used"`
	ParseError string            `json:"parse_error,omitempty"`
	// Transient records must not be reused for the same document.
	Transient bool `json:"-"`
}
