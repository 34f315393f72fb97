package routing

import "errors"

var (
	// ErrSnapshotRequired indicates that no index snapshot was provided.
	ErrSnapshotRequired = errors.New("index snapshot is required")

	// ErrEmbedderRequired indicates that no embedder was provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrRerankerRequired indicates that no reranker was provided.
	ErrRerankerRequired = errors.New("reranker is required")

	// ErrSegmenterRequired indicates that no segmenter was provided.
	ErrSegmenterRequired = errors.New("segmenter is required")
)
