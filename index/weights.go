package index

import (
	"math"

	"github.com/poiesic/ticketrouter/core"
	"github.com/poiesic/ticketrouter/textproc"
)

// ComputeTokenWeights derives a team's token weight table from its chunks.
// A token appearing in df of the team's N chunks gets weight ln(N/df), so
// tokens present in every chunk weigh 0 and rare tokens approach ln(N).
// Tokens absent from the table default to 1.0 at lookup time.
func ComputeTokenWeights(chunks []core.Chunk) map[string]float64 {
	df := make(map[string]int)
	for _, c := range chunks {
		for token := range textproc.TokenSet(textproc.ExactMatchTokens(c.Text)) {
			df[token]++
		}
	}

	weights := make(map[string]float64, len(df))
	total := float64(len(chunks))
	for token, count := range df {
		weights[token] = math.Log(total / float64(count))
	}
	return weights
}
