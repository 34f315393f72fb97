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


// Package config provides configuration loading for the ticketrouter
// server binary.
package config

import (
	"fmt"

	"github.com/poiesic/ticketrouter/ingestion"
	"github.com/poiesic/ticketrouter/routing"
)

// Config is the full server configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Corpus CorpusConfig `koanf:"corpus"`
	AI     AIConfig     `koanf:"ai"`
	Search SearchConfig `koanf:"search"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// CorpusConfig locates the document corpus and the index database.
type CorpusConfig struct {
	// Dir is the corpus root; each first-level directory is a team.
	Dir string `koanf:"dir"`
	// DataDir holds the persisted team indexes.
	DataDir string `koanf:"data_dir"`
}

// AIConfig configures the model endpoints.
type AIConfig struct {
	EmbeddingHost   string `koanf:"embedding_host"`
	EmbeddingModel  string `koanf:"embedding_model"`
	RerankHost      string `koanf:"rerank_host"`
	RerankModel     string `koanf:"rerank_model"`
	SuggestionHost  string `koanf:"suggestion_host"`
	SuggestionModel string `koanf:"suggestion_model"`
}

// SearchConfig tunes chunking and the query path.
type SearchConfig struct {
	TopK                int     `koanf:"top_k"`
	Window              int     `koanf:"window"`
	Alpha               float64 `koanf:"alpha"`
	SimilarityThreshold float64 `koanf:"similarity_threshold"`
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Corpus.Dir == "" {
		cfg.Corpus.Dir = "./documents"
	}
	if cfg.Corpus.DataDir == "" {
		cfg.Corpus.DataDir = "./data/indexes"
	}
	if cfg.Search.TopK == 0 {
		cfg.Search.TopK = routing.DefaultTopK
	}
	if cfg.Search.Window == 0 {
		cfg.Search.Window = routing.DefaultWindow
	}
	if cfg.Search.Alpha == 0 {
		cfg.Search.Alpha = routing.DefaultAlpha
	}
	if cfg.Search.SimilarityThreshold == 0 {
		cfg.Search.SimilarityThreshold = ingestion.DefaultSimilarityThreshold
	}
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Search.TopK < 1 {
		return fmt.Errorf("search top_k must be positive, got %d", c.Search.TopK)
	}
	if c.Search.Window < 0 {
		return fmt.Errorf("search window must not be negative, got %d", c.Search.Window)
	}
	if c.Search.Alpha < 0 || c.Search.Alpha > 1 {
		return fmt.Errorf("search alpha must be in [0,1], got %g", c.Search.Alpha)
	}
	if c.Search.SimilarityThreshold <= 0 || c.Search.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in (0,1], got %g", c.Search.SimilarityThreshold)
	}
	return nil
}
