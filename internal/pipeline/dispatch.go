// Package pipeline turns an uploaded document into a CanonicalResumeExtraction.
//
// Dispatch picks a text extractor from the declared MIME type and the file
// extension, runs the heuristics engine over the text and normalizes the
// result. It never fails on document content: unsupported, oversized or
// undecodable files become records with empty fields and an explanatory
// summary that the user can edit by hand.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/muhammadolammi/resumematch/internal/extract"
	"github.com/muhammadolammi/resumematch/internal/fetch"
	"github.com/muhammadolammi/resumematch/internal/heuristics"
	"github.com/muhammadolammi/resumematch/internal/resume"
)

const (
	NoteUnsupported = "File type not supported for detailed parsing. You can still edit this resume manually."
	noteUnreadable  = "This file could not be parsed automatically. You can still edit this resume manually."
	noteTooLarge    = "This file is larger than the %d MB upload limit and was not parsed. You can still edit this resume manually."
)

var mimeFormats = map[string]resume.Format{
	"application/pdf": resume.FormatPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": resume.FormatDocx,
	"image/png":  resume.FormatImage,
	"image/jpeg": resume.FormatImage,
	"image/jpg":  resume.FormatImage,
	"text/plain": resume.FormatText,
}

var extFormats = map[string]resume.Format{
	".pdf":  resume.FormatPDF,
	".docx": resume.FormatDocx,
	".png":  resume.FormatImage,
	".jpg":  resume.FormatImage,
	".jpeg": resume.FormatImage,
	".txt":  resume.FormatText,
}

// DetectFormat chooses an extractor format. An exact MIME match wins, then
// any image/* type; otherwise the filename extension decides, case-insensitively.
func DetectFormat(mimeType, fileName string) resume.Format {
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
		mt = strings.ToLower(mt)
		if f, ok := mimeFormats[mt]; ok {
			return f
		}
		if strings.HasPrefix(mt, "image/") {
			return resume.FormatImage
		}
	}
	ext := strings.ToLower(path.Ext(baseName(fileName)))
	if f, ok := extFormats[ext]; ok {
		return f
	}
	return resume.FormatUnsupported
}

// Pipeline holds one extractor per supported format. It keeps no state
// between calls and is safe for concurrent use.
type Pipeline struct {
	PDF   extract.Extractor
	Docx  extract.Extractor
	Image extract.Extractor
	Text  extract.Extractor

	// Fetcher loads documents for DispatchURL.
	Fetcher *fetch.Client
	// MaxBytes rejects larger documents with a degraded record. Zero disables the check.
	MaxBytes int64
	Log      *slog.Logger
}

// New wires the default extractors.
func New(pdfTimeout time.Duration, fetcher *fetch.Client, maxBytes int64, log *slog.Logger) *Pipeline {
	if fetcher == nil {
		fetcher = fetch.NewClient(fetch.DefaultTimeout, fetch.DefaultUserAgent, maxBytes, log)
	}
	return &Pipeline{
		PDF:      extract.NewPDF(pdfTimeout, log),
		Docx:     extract.NewDocx(log),
		Image:    extract.NewImage(),
		Text:     extract.NewText(),
		Fetcher:  fetcher,
		MaxBytes: maxBytes,
		Log:      log,
	}
}

// Dispatch extracts a canonical record from doc. The only error is
// resume.ErrInvalidInput for a nil document.
func (p *Pipeline) Dispatch(ctx context.Context, doc *resume.RawDocument) (resume.CanonicalResumeExtraction, error) {
	if doc == nil {
		return resume.CanonicalResumeExtraction{}, fmt.Errorf("dispatch: nil document: %w", resume.ErrInvalidInput)
	}
	log := p.logger().With("filename", doc.FileName)

	format := DetectFormat(doc.DeclaredMimeType, doc.FileName)
	if format == resume.FormatUnsupported {
		log.Warn("unsupported document", "mime", doc.DeclaredMimeType)
		return Unsupported(doc.FileName), nil
	}

	if p.MaxBytes > 0 && int64(len(doc.Bytes)) > p.MaxBytes {
		log.Warn("document too large", "format", format, "bytes", len(doc.Bytes), "limit", p.MaxBytes)
		return Degraded(doc.FileName, resume.ExtractedText{
			FormatUsed: format,
			Note:       fmt.Sprintf(noteTooLarge, p.MaxBytes>>20),
			ParseError: fmt.Sprintf("document is %d bytes, limit is %d", len(doc.Bytes), p.MaxBytes),
		}), nil
	}

	text := p.extractor(format).Extract(ctx, doc.Bytes)
	if text.Degraded() {
		log.Warn("extraction degraded", "format", format, "error", text.ParseError, "transient", text.Transient)
		return Degraded(doc.FileName, text), nil
	}

	candidate, err := heuristics.ExtractFields(text.FullText)
	if err != nil {
		log.Warn("field extraction failed", "format", format, "error", err)
		return Degraded(doc.FileName, resume.ExtractedText{
			FormatUsed: format,
			Note:       noteUnreadable,
			ParseError: err.Error(),
		}), nil
	}

	log.Debug("document extracted", "format", format, "chars", len(text.FullText),
		"experience", len(candidate.Experience), "education", len(candidate.Education), "skills", len(candidate.Skills))
	return Normalize(candidate, text.FullText, format), nil
}

// DispatchURL downloads url and dispatches the bytes. A failed download is
// dispatched as the placeholder document.
func (p *Pipeline) DispatchURL(ctx context.Context, url, mimeType, fileName string) (resume.CanonicalResumeExtraction, error) {
	fetcher := p.Fetcher
	if fetcher == nil {
		fetcher = fetch.NewClient(fetch.DefaultTimeout, fetch.DefaultUserAgent, p.MaxBytes, p.Log)
	}
	data := fetcher.FetchBytes(ctx, url)
	if fileName == "" {
		fileName = path.Base(strings.SplitN(url, "?", 2)[0])
	}
	return p.Dispatch(ctx, &resume.RawDocument{
		Bytes:            data,
		DeclaredMimeType: mimeType,
		FileName:         fileName,
	})
}

func (p *Pipeline) extractor(format resume.Format) extract.Extractor {
	var e extract.Extractor
	switch format {
	case resume.FormatPDF:
		e = p.PDF
	case resume.FormatDocx:
		e = p.Docx
	case resume.FormatImage:
		e = p.Image
	case resume.FormatText:
		e = p.Text
	}
	if e == nil {
		return missingExtractor{format: format}
	}
	return e
}

// missingExtractor stands in for an extractor left nil on a hand-built Pipeline.
type missingExtractor struct {
	format resume.Format
}

func (m missingExtractor) Extract(context.Context, []byte) resume.ExtractedText {
	return resume.ExtractedText{
		FormatUsed: m.format,
		Note:       NoteUnsupported,
		ParseError: fmt.Sprintf("no extractor configured for %s: %v", m.format, resume.ErrUnsupportedFormat),
	}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Log == nil {
		return slog.Default()
	}
	return p.Log
}
