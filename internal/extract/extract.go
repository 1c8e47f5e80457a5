// Package extract turns raw résumé bytes into plain text, one adapter per
// format. Adapters never return errors: a failure becomes an empty
// ExtractedText carrying a human-readable note and the underlying cause.
package extract

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/muhammadolammi/resumematch/internal/resume"
)

// Notes shown to the user in the summary field of a degraded record.
const (
	NotePDFUnparsed  = "This PDF could not be parsed automatically. You can still edit this resume manually."
	NoteNoTextLayer  = "This PDF has no extractable text layer, it may be a scanned image. You can still edit this resume manually."
	NoteDocxUnparsed = "This DOCX file could not be parsed automatically. You can still edit this resume manually."
	NoteImage        = "This resume is an image and needs text recognition (OCR), which is not available. You can still edit this resume manually."
	NoteEmptyText    = "The uploaded text file is empty. You can still edit this resume manually."
)

// Extractor converts a byte buffer into text for a single format.
type Extractor interface {
	Extract(ctx context.Context, data []byte) resume.ExtractedText
}

func degraded(format resume.Format, note string, cause error) resume.ExtractedText {
	t := resume.ExtractedText{FormatUsed: format, Note: note}
	if cause != nil {
		t.ParseError = cause.Error()
	}
	return t
}

// cleanText makes decoded text safe for the heuristics engine: valid UTF-8,
// NFKC-folded (PDF ligatures such as "ﬁ" become "fi") and free of NULs.
func cleanText(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = norm.NFKC.String(s)
	return strings.ReplaceAll(s, "\x00", "")
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
