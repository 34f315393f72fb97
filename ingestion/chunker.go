package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/poiesic/ticketrouter/ai"
	"github.com/poiesic/ticketrouter/textproc"
)

// DefaultSimilarityThreshold is the cosine similarity at which a sentence
// still belongs to the current group.
const DefaultSimilarityThreshold = 0.75

// SemanticChunker merges consecutive sentences into topically coherent
// passages. Grouping is greedy and single-pass: a sentence joins the
// current group when its embedding is close enough to the group centroid,
// otherwise it seeds a new group.
type SemanticChunker struct {
	embedder  ai.Embedder
	segmenter *textproc.Segmenter
	threshold float64
	logger    *slog.Logger
}

// ChunkerOption configures a SemanticChunker.
type ChunkerOption func(*SemanticChunker)

// WithSimilarityThreshold sets the grouping threshold.
// Default is DefaultSimilarityThreshold.
func WithSimilarityThreshold(threshold float64) ChunkerOption {
	return func(c *SemanticChunker) {
		c.threshold = threshold
	}
}

// WithChunkerLogger sets a custom logger.
// Default is slog.Default().
func WithChunkerLogger(logger *slog.Logger) ChunkerOption {
	return func(c *SemanticChunker) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewSemanticChunker creates a new semantic chunker.
func NewSemanticChunker(embedder ai.Embedder, segmenter *textproc.Segmenter, opts ...ChunkerOption) (*SemanticChunker, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if segmenter == nil {
		return nil, ErrSegmenterRequired
	}

	c := &SemanticChunker{
		embedder:  embedder,
		segmenter: segmenter,
		threshold: DefaultSimilarityThreshold,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ChunkText splits text into semantically grouped passages. Empty input
// yields no chunks. Each sentence is embedded once; the group centroid is
// the mean of its members' embeddings and is recomputed on every append.
func (c *SemanticChunker) ChunkText(ctx context.Context, text string) ([]string, error) {
	text = textproc.CleanWhitespace(text)
	sents := c.segmenter.Sentences(text)
	if len(sents) == 0 {
		return nil, nil
	}

	vectors, err := c.embedder.EmbedTexts(ctx, sents)
	if err != nil {
		c.logger.Error("error embedding sentences for chunking", "sentences", len(sents), "err", err)
		return nil, err
	}
	if len(vectors) != len(sents) {
		return nil, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(sents), len(vectors))
	}

	var chunks []string
	group := []int{0}
	centroid := cloneVector(vectors[0])

	for i := 1; i < len(sents); i++ {
		if cosineSimilarity(centroid, vectors[i]) >= c.threshold {
			group = append(group, i)
			centroid = meanVector(vectors, group)
		} else {
			chunks = append(chunks, joinSentences(sents, group))
			group = []int{i}
			centroid = cloneVector(vectors[i])
		}
	}

	chunks = append(chunks, joinSentences(sents, group))
	return chunks, nil
}

func joinSentences(sents []string, group []int) string {
	parts := make([]string, len(group))
	for i, idx := range group {
		parts[i] = sents[idx]
	}
	return strings.Join(parts, " ")
}

func cloneVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}

func meanVector(vectors [][]float32, group []int) []float32 {
	if len(group) == 0 {
		return nil
	}
	mean := make([]float32, len(vectors[group[0]]))
	for _, idx := range group {
		for j, val := range vectors[idx] {
			mean[j] += val
		}
	}
	n := float32(len(group))
	for j := range mean {
		mean[j] /= n
	}
	return mean
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
