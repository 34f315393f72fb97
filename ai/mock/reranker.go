package mock

import (
	"context"
	"strings"
)

// MockReranker is a test double for ai.Reranker.
// It allows custom behavior injection via function fields.
type MockReranker struct {
	// ScoreFunc is called by Score if set.
	// If nil, uses default lexical-overlap behavior.
	ScoreFunc func(ctx context.Context, query string, candidates []string) ([]float64, error)

	callCount int
}

// NewMockReranker creates a mock reranker with default lexical-overlap
// scoring: the score of a candidate is the number of query words it
// contains. Deterministic and good enough to order test corpora sensibly.
func NewMockReranker() *MockReranker {
	return &MockReranker{}
}

// Score returns one relevance score per candidate, in candidate order.
func (m *MockReranker) Score(ctx context.Context, query string, candidates []string) ([]float64, error) {
	m.callCount++

	if m.ScoreFunc != nil {
		return m.ScoreFunc(ctx, query, candidates)
	}

	words := strings.Fields(strings.ToLower(query))
	scores := make([]float64, len(candidates))
	for i, cand := range candidates {
		lower := strings.ToLower(cand)
		for _, w := range words {
			if strings.Contains(lower, w) {
				scores[i]++
			}
		}
	}
	return scores, nil
}

// CallCount returns the number of times Score was called.
func (m *MockReranker) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockReranker) Reset() {
	m.callCount = 0
	m.ScoreFunc = nil
}
