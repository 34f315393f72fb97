package ingestion

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/ticketrouter/core"
	"github.com/poiesic/ticketrouter/textproc"
)

// CorpusBuilder walks structured document trees and produces the flat,
// team-tagged chunk lists the index store is built from.
type CorpusBuilder struct {
	chunker *SemanticChunker
	logger  *slog.Logger
}

// NewCorpusBuilder creates a new corpus builder.
func NewCorpusBuilder(chunker *SemanticChunker, logger *slog.Logger) (*CorpusBuilder, error) {
	if chunker == nil {
		return nil, ErrChunkerRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CorpusBuilder{chunker: chunker, logger: logger}, nil
}

// BuildCorpus emits every document's chunks, tagged with team and source,
// grouped by team. Order within a team reflects document traversal order.
func (b *CorpusBuilder) BuildCorpus(ctx context.Context, docs []core.ParsedDocument) (map[string][]core.Chunk, error) {
	teamChunks := make(map[string][]core.Chunk)

	for _, doc := range docs {
		chunks, err := b.CollectChunks(ctx, doc.Tree)
		if err != nil {
			return nil, err
		}

		for _, c := range chunks {
			c.Team = doc.Team
			c.Source = doc.Source
			teamChunks[doc.Team] = append(teamChunks[doc.Team], c)
		}

		b.logger.Debug("collected document chunks",
			"source", doc.Source, "team", doc.Team, "chunks", len(chunks))
	}

	return teamChunks, nil
}

// CollectChunks walks one tree depth-first and emits path-tagged chunks.
// The root node's own content is never chunked; children are always
// recursed regardless of whether the parent produced chunks.
func (b *CorpusBuilder) CollectChunks(ctx context.Context, tree *core.DocumentTree) ([]core.Chunk, error) {
	return b.collect(ctx, tree, tree.Root(), nil)
}

func (b *CorpusBuilder) collect(ctx context.Context, tree *core.DocumentTree, idx int, path []string) ([]core.Chunk, error) {
	node := &tree.Nodes[idx]
	var chunks []core.Chunk

	if node.Title != core.RootTitle {
		path = append(path[:len(path):len(path)], node.Title)

		if len(node.Content) > 0 {
			full := strings.Join(node.Content, " ")
			full = textproc.NormalizeHTTPCodes(full)

			texts, err := b.chunker.ChunkText(ctx, full)
			if err != nil {
				return nil, err
			}
			for _, text := range texts {
				chunks = append(chunks, core.Chunk{
					Path: core.JoinPath(path),
					Text: text,
				})
			}
		}
	}

	for _, child := range node.Children {
		childChunks, err := b.collect(ctx, tree, child, path)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, childChunks...)
	}

	return chunks, nil
}
