package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. The embedding dimension is constant for the process lifetime.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Reranker scores candidate passages against a query with a cross-encoder
// model. Implementations must be thread-safe for concurrent use.
type Reranker interface {
	// Score returns one relevance score per candidate, in candidate order.
	// Higher means more relevant; no fixed range is guaranteed.
	Score(ctx context.Context, query string, candidates []string) ([]float64, error)
}

// SuggestionGenerator produces a short natural-language suggestion for a
// ticket, constrained to the supplied documentation passage.
type SuggestionGenerator interface {
	Suggest(ctx context.Context, ticketSubject, passage string) (string, error)
}

// Provider aggregates the model services for convenient initialization and
// lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Reranker returns the cross-encoder reranking service.
	Reranker() Reranker

	// SuggestionGenerator returns the suggestion service, or nil when
	// suggestions are not configured.
	SuggestionGenerator() SuggestionGenerator

	// Close releases resources held by the provider and its services.
	Close() error
}
