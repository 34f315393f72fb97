package index

import (
	"bufio"
	"bytes"
	"fmt"
	"slices"

	"github.com/coder/hnsw"
	"github.com/poiesic/ticketrouter/core"
)

// HNSW parameters shared by every team graph. EfSearch is generous because
// candidate sets are small multiples of top_k and recall matters more than
// latency here.
const (
	graphM        = 16
	graphMl       = 0.25
	graphEfSearch = 64
)

// TeamIndex is one team's immutable search state: the chunk list, the
// vector graph whose key i holds the embedding of chunks[i], and the token
// weight table.
type TeamIndex struct {
	team    string
	chunks  []core.Chunk
	graph   *hnsw.Graph[uint64]
	weights map[string]float64
}

// Hit is one nearest-neighbor result: the chunk position and its distance
// to the query vector.
type Hit struct {
	Position int
	Distance float64
}

func newGraph() *hnsw.Graph[uint64] {
	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.EuclideanDistance
	graph.M = graphM
	graph.Ml = graphMl
	graph.EfSearch = graphEfSearch
	return graph
}

// BuildTeamIndex builds a team index from chunks and their embeddings.
// vectors[i] must be the embedding of chunks[i].
func BuildTeamIndex(team string, chunks []core.Chunk, vectors [][]float32, weights map[string]float64) (*TeamIndex, error) {
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: %d vectors for %d chunks", ErrVectorCountMismatch, len(vectors), len(chunks))
	}

	graph := newGraph()
	for i, vec := range vectors {
		graph.Add(hnsw.MakeNode(uint64(i), vec))
	}

	return &TeamIndex{
		team:    team,
		chunks:  chunks,
		graph:   graph,
		weights: weights,
	}, nil
}

// LoadTeamIndex reconstructs a team index from an exported graph.
func LoadTeamIndex(team string, chunks []core.Chunk, graphData []byte, weights map[string]float64) (*TeamIndex, error) {
	graph := newGraph()
	if len(graphData) > 0 {
		// bufio because Import requires an io.ByteReader.
		if err := graph.Import(bufio.NewReader(bytes.NewReader(graphData))); err != nil {
			return nil, fmt.Errorf("%w for team %s: %s", ErrCorruptGraph, team, err)
		}
	}
	if graph.Len() != len(chunks) {
		return nil, fmt.Errorf("%w: %d graph nodes for %d chunks", ErrVectorCountMismatch, graph.Len(), len(chunks))
	}

	return &TeamIndex{
		team:    team,
		chunks:  chunks,
		graph:   graph,
		weights: weights,
	}, nil
}

// ExportGraph serializes the vector graph for persistence.
func (t *TeamIndex) ExportGraph() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.graph.Export(&buf); err != nil {
		return nil, fmt.Errorf("export graph for team %s: %w", t.team, err)
	}
	return buf.Bytes(), nil
}

// Search returns the k nearest chunks to the query vector, closest first.
// Fewer than k hits are returned when the team has fewer chunks.
func (t *TeamIndex) Search(vector []float32, k int) []Hit {
	if k < 1 || t.graph.Len() == 0 {
		return nil
	}

	nodes := t.graph.Search(vector, k)
	hits := make([]Hit, 0, len(nodes))
	for _, node := range nodes {
		hits = append(hits, Hit{
			Position: int(node.Key),
			Distance: float64(t.graph.Distance(vector, node.Value)),
		})
	}

	slices.SortFunc(hits, func(a, b Hit) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return a.Position - b.Position
		}
	})
	return hits
}

// Team returns the owning team's name.
func (t *TeamIndex) Team() string { return t.team }

// Chunks returns the chunk list in index order. Callers must not mutate it.
func (t *TeamIndex) Chunks() []core.Chunk { return t.chunks }

// Chunk returns the chunk at a vector index position.
func (t *TeamIndex) Chunk(position int) core.Chunk { return t.chunks[position] }

// Len returns the number of indexed chunks.
func (t *TeamIndex) Len() int { return len(t.chunks) }

// Weight returns the token's weight, or 1.0 for tokens the team corpus has
// never seen.
func (t *TeamIndex) Weight(token string) float64 {
	if w, ok := t.weights[token]; ok {
		return w
	}
	return 1.0
}

// Weights returns the raw weight table. Callers must not mutate it.
func (t *TeamIndex) Weights() map[string]float64 { return t.weights }
