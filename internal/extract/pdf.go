package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/muhammadolammi/resumematch/internal/resume"
)

// DefaultPDFTimeout bounds the whole decode step, fallbacks included.
const DefaultPDFTimeout = 10 * time.Second

var errNoTextLayer = errors.New("pdf has no text layer")

// Decoder reads the text layer of a PDF.
type Decoder interface {
	Name() string
	Decode(data []byte) (string, error)
}

// fallbackDecoders are tried, in order, after the primary decoder fails or
// finds no text. Build tags register extra decoders here.
var fallbackDecoders []Decoder

// PDF extracts the text layer of a PDF document.
type PDF struct {
	Timeout  time.Duration
	Decoders []Decoder
	Log      *slog.Logger
}

func NewPDF(timeout time.Duration, log *slog.Logger) *PDF {
	decoders := append([]Decoder{textLayerDecoder{}}, fallbackDecoders...)
	return &PDF{Timeout: timeout, Decoders: decoders, Log: log}
}

func (p *PDF) Extract(ctx context.Context, data []byte) resume.ExtractedText {
	if len(data) == 0 {
		return degraded(resume.FormatPDF, NotePDFUnparsed, resume.ErrEmptyDocument)
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var lastErr error
	for _, d := range p.Decoders {
		text, err := decodeWithin(ctx, d, data)
		if err == nil {
			text = cleanText(text)
			if strings.TrimSpace(text) != "" {
				return resume.ExtractedText{FullText: text, FormatUsed: resume.FormatPDF}
			}
			err = errNoTextLayer
		}
		logger(p.Log).Warn("pdf decoder failed", "decoder", d.Name(), "bytes", len(data), "error", err)
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	if lastErr == nil {
		lastErr = errors.New("no pdf decoder configured")
	}
	if errors.Is(lastErr, errNoTextLayer) {
		return degraded(resume.FormatPDF, NoteNoTextLayer, lastErr)
	}
	t := degraded(resume.FormatPDF, NotePDFUnparsed, lastErr)
	t.Transient = errors.Is(lastErr, resume.ErrDecodeTimeout)
	return t
}

// decodeWithin races d against ctx. A decoder that overruns keeps running in
// its goroutine until it returns; its result is discarded.
func decodeWithin(ctx context.Context, d Decoder, data []byte) (string, error) {
	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%s decoder panic: %v", d.Name(), r)}
			}
		}()
		text, err := d.Decode(data)
		done <- result{text: text, err: err}
	}()

	select {
	case r := <-done:
		return r.text, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", d.Name(), resume.ErrDecodeTimeout)
	}
}

// textLayerDecoder reads PDFs with ledongthuc/pdf.
type textLayerDecoder struct{}

func (textLayerDecoder) Name() string { return "text-layer" }

func (textLayerDecoder) Decode(data []byte) (string, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var textBuilder strings.Builder
	var pageErr error
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pageErr = fmt.Errorf("page %d: %w", i, err)
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}
	if textBuilder.Len() == 0 && pageErr != nil {
		return "", pageErr
	}
	return textBuilder.String(), nil
}
