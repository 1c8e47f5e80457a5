package extract

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"

	"github.com/nguyenthenguyen/docx"

	"github.com/muhammadolammi/resumematch/internal/resume"
)

var (
	docxBreakRegex = regexp.MustCompile(`</w:p>|<w:br[^>]*/>|<w:cr[^>]*/>`)
	docxTabRegex   = regexp.MustCompile(`<w:tab[^>]*/>`)
	xmlTagRegex    = regexp.MustCompile(`<[^>]+>`)
)

// Docx extracts the body text of an OOXML word-processing document as one
// flat blob, one line per paragraph.
type Docx struct {
	Log *slog.Logger
}

func NewDocx(log *slog.Logger) *Docx {
	return &Docx{Log: log}
}

func (d *Docx) Extract(_ context.Context, data []byte) resume.ExtractedText {
	if len(data) == 0 {
		return degraded(resume.FormatDocx, NoteDocxUnparsed, resume.ErrEmptyDocument)
	}
	text, err := docxText(data)
	if err != nil {
		logger(d.Log).Warn("docx extraction failed", "bytes", len(data), "error", err)
		return degraded(resume.FormatDocx, NoteDocxUnparsed, err)
	}
	return resume.ExtractedText{FullText: text, FormatUsed: resume.FormatDocx}
}

func docxText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("docx reader panic: %v", r)
		}
	}()

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return documentXMLToText(doc.Editable().GetContent()), nil
}

// documentXMLToText flattens word/document.xml: paragraph ends and breaks
// become newlines, tabs become tabs, every other tag is dropped.
func documentXMLToText(content string) string {
	s := docxBreakRegex.ReplaceAllString(content, "\n")
	s = docxTabRegex.ReplaceAllString(s, "\t")
	s = xmlTagRegex.ReplaceAllString(s, "")
	return cleanText(html.UnescapeString(s))
}
