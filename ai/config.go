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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for the model service endpoints.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "all-mpnet-base-v2", "text-embedding-3-small"
	EmbeddingModel string

	// RerankHost is the base URL of the cross-encoder rerank service.
	// Example: "http://localhost:8787" for a local TEI-style server
	RerankHost string

	// RerankModel is the cross-encoder model identifier.
	// Example: "cross-encoder/ms-marco-MiniLM-L-6-v2"
	RerankModel string

	// SuggestionHost is the base URL for the suggestion LLM API. Empty
	// disables suggestion generation.
	SuggestionHost string

	// SuggestionModel is the causal model used for suggestions.
	// Example: "phi-2", "qwen2.5:3b"
	SuggestionModel string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithRerankHost sets the rerank service host URL.
func WithRerankHost(host string) ConfigOption {
	return func(c *Config) {
		c.RerankHost = host
	}
}

// WithRerankModel sets the rerank model identifier.
func WithRerankModel(model string) ConfigOption {
	return func(c *Config) {
		c.RerankModel = model
	}
}

// WithSuggestions enables suggestion generation against the given host and
// model.
func WithSuggestions(host, model string) ConfigOption {
	return func(c *Config) {
		c.SuggestionHost = host
		c.SuggestionModel = model
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services. Suggestions are disabled by default.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:  "http://localhost:11434/v1",
		EmbeddingModel: "all-mpnet-base-v2",
		RerankHost:     "http://localhost:8787",
		RerankModel:    "cross-encoder/ms-marco-MiniLM-L-6-v2",
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// SuggestionsEnabled reports whether a suggestion endpoint is configured.
func (c *Config) SuggestionsEnabled() bool {
	return c.SuggestionHost != "" && c.SuggestionModel != ""
}

// Normalize ensures the configuration is in a canonical form. The
// OpenAI-compatible hosts get the /v1 suffix most servers (Ollama, LocalAI,
// vLLM) require; the rerank host is left untouched since rerank servers
// expose /rerank at the root.
func (c *Config) Normalize() {
	c.EmbeddingHost = ensureV1(c.EmbeddingHost)
	c.SuggestionHost = ensureV1(c.SuggestionHost)
	c.RerankHost = strings.TrimSuffix(c.RerankHost, "/")
}

func ensureV1(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete. It
// automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.RerankHost == "" {
		return errors.New("ai config: RerankHost is required")
	}
	if c.RerankModel == "" {
		return errors.New("ai config: RerankModel is required")
	}
	if (c.SuggestionHost == "") != (c.SuggestionModel == "") {
		return errors.New("ai config: SuggestionHost and SuggestionModel must be set together")
	}
	return nil
}
