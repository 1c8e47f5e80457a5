//go:build mupdf

package extract

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Builds tagged mupdf fall back to MuPDF when the text-layer decoder fails.
func init() {
	fallbackDecoders = append(fallbackDecoders, mupdfDecoder{})
}

type mupdfDecoder struct{}

func (mupdfDecoder) Name() string { return "mupdf" }

func (mupdfDecoder) Decode(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}
