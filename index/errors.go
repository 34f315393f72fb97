package index

import "errors"

var (
	// ErrEmbedderRequired indicates that no embedder was provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrStorageRequired indicates that no index storage was provided.
	ErrStorageRequired = errors.New("index storage is required")

	// ErrVectorCountMismatch indicates that the vector count does not match
	// the chunk count, which would break position alignment.
	ErrVectorCountMismatch = errors.New("vector count does not match chunk count")

	// ErrCorruptGraph indicates that a persisted vector graph could not be
	// imported.
	ErrCorruptGraph = errors.New("corrupt vector graph")
)
