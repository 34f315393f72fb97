// Package pdf implements ingestion.TextExtractor for PDF files.
package pdf

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/poiesic/ticketrouter/ingestion"
)

// Extractor extracts page text from PDF files.
type Extractor struct{}

var _ ingestion.TextExtractor = (*Extractor)(nil)

// NewExtractor creates a PDF text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractPages returns the trimmed, non-empty text lines of every page.
// Pages without extractable text are skipped.
func (e *Extractor) ExtractPages(path string) ([][]string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages := make([][]string, 0, total)

	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract text from %s page %d: %w", path, i, err)
		}

		var lines []string
		for _, raw := range strings.Split(text, "\n") {
			line := strings.TrimSpace(raw)
			if line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			pages = append(pages, lines)
		}
	}

	return pages, nil
}
