package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/muhammadolammi/resumematch/internal/resume"
)

// Image stands in for OCR, which is not implemented: every image yields an
// empty text with NoteImage. The image header is only sniffed to make the
// recorded cause more useful.
type Image struct{}

func NewImage() *Image {
	return &Image{}
}

func (Image) Extract(_ context.Context, data []byte) resume.ExtractedText {
	t := resume.ExtractedText{FormatUsed: resume.FormatImage, Note: NoteImage}
	if len(data) == 0 {
		t.ParseError = resume.ErrEmptyDocument.Error()
		return t
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.ParseError = fmt.Sprintf("ocr not available; unreadable image header: %v", err)
		return t
	}
	t.ParseError = fmt.Sprintf("ocr not available for %s image %dx%d", format, cfg.Width, cfg.Height)
	return t
}
