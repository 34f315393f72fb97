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


// Package openai provides ai.Provider backed by OpenAI-compatible model
// servers plus a TEI-style rerank endpoint.
package openai

import (
	"log/slog"

	"github.com/poiesic/ticketrouter/ai"
	"github.com/poiesic/ticketrouter/ai/rerank"
)

// Provider implements ai.Provider using OpenAI-compatible services for
// embeddings and suggestions, and an HTTP cross-encoder for reranking.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	reranker  ai.Reranker
	suggester *Suggester
	logger    *slog.Logger
}

// NewProvider creates a new model provider. The config is validated and
// normalized before use. The suggestion generator is only constructed when
// the config enables it.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	reranker, err := rerank.NewClient(config.RerankHost, config.RerankModel)
	if err != nil {
		return nil, err
	}

	var suggester *Suggester
	if config.SuggestionsEnabled() {
		suggester, err = newSuggester(config)
		if err != nil {
			return nil, err
		}
	}

	return &Provider{
		config:    config,
		embedder:  embedder,
		reranker:  reranker,
		suggester: suggester,
		logger:    slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Reranker returns the cross-encoder reranking service.
func (p *Provider) Reranker() ai.Reranker {
	return p.reranker
}

// SuggestionGenerator returns the suggestion service, or nil when
// suggestions are not configured.
func (p *Provider) SuggestionGenerator() ai.SuggestionGenerator {
	if p.suggester == nil {
		return nil
	}
	return p.suggester
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing model provider")
	return nil
}
