package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(
		WithEmbeddingHost("http://embed:9000"),
		WithEmbeddingModel("all-mpnet-base-v2"),
		WithRerankHost("http://rerank:8787/"),
		WithRerankModel("ms-marco"),
	)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://embed:9000/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://rerank:8787", cfg.RerankHost)
	assert.False(t, cfg.SuggestionsEnabled())
}

func TestConfigNormalize(t *testing.T) {
	t.Run("adds v1 suffix", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost("http://localhost:11434"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("idempotent", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost("http://localhost:11434/v1"))
		cfg.Normalize()
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	t.Run("missing embedding model", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EmbeddingModel = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("suggestion host without model", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SuggestionHost = "http://localhost:11434"
		assert.Error(t, cfg.Validate())
	})

	t.Run("suggestions fully configured", func(t *testing.T) {
		cfg := NewConfig(WithSuggestions("http://localhost:11434", "phi-2"))
		require.NoError(t, cfg.Validate())
		assert.True(t, cfg.SuggestionsEnabled())
	})
}
