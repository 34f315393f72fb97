package mock

import "context"

// MockSuggester is a test double for ai.SuggestionGenerator.
type MockSuggester struct {
	// SuggestFunc is called by Suggest if set.
	SuggestFunc func(ctx context.Context, ticketSubject, passage string) (string, error)

	callCount int
}

// NewMockSuggester creates a mock suggestion generator that echoes a fixed
// phrase by default.
func NewMockSuggester() *MockSuggester {
	return &MockSuggester{}
}

// Suggest produces a canned suggestion unless SuggestFunc is set.
func (m *MockSuggester) Suggest(ctx context.Context, ticketSubject, passage string) (string, error) {
	m.callCount++

	if m.SuggestFunc != nil {
		return m.SuggestFunc(ctx, ticketSubject, passage)
	}

	return "Try the steps described in the referenced documentation.", nil
}

// CallCount returns the number of times Suggest was called.
func (m *MockSuggester) CallCount() int {
	return m.callCount
}
