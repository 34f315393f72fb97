package ingestion

import (
	"context"
	"testing"

	"github.com/poiesic/ticketrouter/ai/mock"
	"github.com/poiesic/ticketrouter/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constantEmbedder makes every sentence identical, so each node's content
// collapses into exactly one chunk.
func constantEmbedder() *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1, 0}
		}
		return vectors, nil
	}
	return embedder
}

func newTestBuilder(t *testing.T) *CorpusBuilder {
	t.Helper()

	chunker, err := NewSemanticChunker(constantEmbedder(), newSegmenter(t))
	require.NoError(t, err)

	builder, err := NewCorpusBuilder(chunker, nil)
	require.NoError(t, err)
	return builder
}

func buildTestTree() *core.DocumentTree {
	tree := core.NewDocumentTree()
	tree.Nodes[tree.Root()].Content = []string{"Preamble text that must not be chunked."}

	networking := tree.AddNode(tree.Root(), "1 Networking", 1)
	tree.Nodes[networking].Content = []string{"Pods get routable addresses."}

	cni := tree.AddNode(networking, "1.1 CNI", 2)
	tree.Nodes[cni].Content = []string{"Plugins configure pod interfaces."}

	// Empty section between populated siblings.
	tree.AddNode(networking, "1.2 Reserved", 2)

	storage := tree.AddNode(tree.Root(), "2 Storage", 1)
	tree.Nodes[storage].Content = []string{"Volumes persist data."}

	return tree
}

func TestCollectChunks(t *testing.T) {
	builder := newTestBuilder(t)

	chunks, err := builder.CollectChunks(context.Background(), buildTestTree())
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "1 Networking", chunks[0].Path)
	assert.Equal(t, "Pods get routable addresses.", chunks[0].Text)

	assert.Equal(t, "1 Networking > 1.1 CNI", chunks[1].Path)
	assert.Equal(t, "Plugins configure pod interfaces.", chunks[1].Text)

	assert.Equal(t, "2 Storage", chunks[2].Path)
}

func TestCollectChunks_RootContentSkipped(t *testing.T) {
	builder := newTestBuilder(t)

	tree := core.NewDocumentTree()
	tree.Nodes[tree.Root()].Content = []string{"Only root content here."}

	chunks, err := builder.CollectChunks(context.Background(), tree)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestCollectChunks_NormalizesHTTPCodes(t *testing.T) {
	builder := newTestBuilder(t)

	tree := core.NewDocumentTree()
	section := tree.AddNode(tree.Root(), "1 API", 1)
	tree.Nodes[section].Content = []string{
		`The endpoint returns a status code (HTTP "Accepted") which is 202 on success.`,
	}

	chunks, err := builder.CollectChunks(context.Background(), tree)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Text, `returns a 202 status code (HTTP "Accepted")`)
}

func TestBuildCorpus_TagsTeamAndSource(t *testing.T) {
	builder := newTestBuilder(t)

	docs := []core.ParsedDocument{
		{Tree: buildTestTree(), Team: "network", Source: "network/manual.pdf"},
		{Tree: buildTestTree(), Team: "storage", Source: "storage/guide.pdf"},
	}

	corpus, err := builder.BuildCorpus(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, corpus, 2)

	require.Len(t, corpus["network"], 3)
	for _, c := range corpus["network"] {
		assert.Equal(t, "network", c.Team)
		assert.Equal(t, "network/manual.pdf", c.Source)
	}

	require.Len(t, corpus["storage"], 3)
	assert.Equal(t, "storage/guide.pdf", corpus["storage"][0].Source)
}

func TestNewCorpusBuilder_RequiresChunker(t *testing.T) {
	_, err := NewCorpusBuilder(nil, nil)
	assert.ErrorIs(t, err, ErrChunkerRequired)
}
