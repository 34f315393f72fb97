package ingestion

// TextExtractor extracts raw text from a document file. Implementations may
// fail per file; the pipeline logs and drops the document without aborting
// the batch.
type TextExtractor interface {
	// ExtractPages returns the raw text lines of every page, in page order.
	ExtractPages(path string) ([][]string, error)
}
