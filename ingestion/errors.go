package ingestion

import "errors"

var (
	// ErrExtractorRequired is returned when a text extractor is not provided.
	ErrExtractorRequired = errors.New("text extractor required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrSegmenterRequired is returned when a segmenter is not provided.
	ErrSegmenterRequired = errors.New("segmenter required")

	// ErrChunkerRequired is returned when a semantic chunker is not provided.
	ErrChunkerRequired = errors.New("semantic chunker required")
)
