package extract

import (
	"context"
	"strings"

	"github.com/muhammadolammi/resumematch/internal/resume"
)

// Text passes plain-text uploads through after cleaning.
type Text struct{}

func NewText() *Text {
	return &Text{}
}

func (Text) Extract(_ context.Context, data []byte) resume.ExtractedText {
	text := cleanText(string(data))
	if strings.TrimSpace(text) == "" {
		return degraded(resume.FormatText, NoteEmptyText, resume.ErrEmptyDocument)
	}
	return resume.ExtractedText{FullText: text, FormatUsed: resume.FormatText}
}
