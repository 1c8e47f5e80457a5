package resume

import "errors"

var (
	// ErrInvalidInput indicates a caller contract violation, such as a nil
	// document or text that is not valid UTF-8. It is never caused by
	// document content.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates no extractor handles the document.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrDecodeTimeout indicates a decoder did not finish within its bound.
	ErrDecodeTimeout = errors.New("decode timed out")

	// ErrEmptyDocument indicates a zero-length byte buffer.
	ErrEmptyDocument = errors.New("empty document")
)
