package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TruncationMarker is appended whenever document text is cut to fit the
// prompt budget.
const TruncationMarker = " ... (truncated)"

// Extractor converts a PDF file on disk into plain text.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// PDFExtractor reads PDF text with a pure-Go parser. Image-only PDFs yield
// an empty string, not an error.
type PDFExtractor struct{}

// NewPDFExtractor returns the built-in extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract returns the plain text of every page, in page order.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// Truncate cuts text to limit characters, appending a visible marker when
// anything was dropped.
func Truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	return text[:limit] + TruncationMarker
}

// LooksLikePDF reports whether the header bytes carry the PDF magic.
func LooksLikePDF(header []byte) bool {
	return bytes.HasPrefix(header, []byte("%PDF-"))
}

// IsBlank reports whether extracted text is empty or whitespace-only.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
