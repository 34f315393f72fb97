// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import "github.com/poiesic/ticketrouter/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock embedder, reranker and suggester instances.
type MockProvider struct {
	embedder  *MockEmbedder
	reranker  *MockReranker
	suggester *MockSuggester
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production
// constructors. Use GetMockEmbedder()/GetMockReranker() to access concrete
// types for test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		reranker:  NewMockReranker(),
		suggester: NewMockSuggester(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock
// services. A nil suggester models a provider without suggestions.
func NewMockProviderWithServices(embedder *MockEmbedder, reranker *MockReranker, suggester *MockSuggester) ai.Provider {
	return &MockProvider{
		embedder:  embedder,
		reranker:  reranker,
		suggester: suggester,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Reranker returns the mock reranker.
func (p *MockProvider) Reranker() ai.Reranker {
	return p.reranker
}

// SuggestionGenerator returns the mock suggester, or nil when unset.
func (p *MockProvider) SuggestionGenerator() ai.SuggestionGenerator {
	if p.suggester == nil {
		return nil
	}
	return p.suggester
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockReranker returns the underlying mock reranker for test assertions.
func (p *MockProvider) GetMockReranker() *MockReranker {
	return p.reranker
}
