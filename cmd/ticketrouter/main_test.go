package main

import (
	"flag"
	"testing"

	"github.com/poiesic/ticketrouter/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newLoggerContext(t *testing.T, level string) *cli.Context {
	t.Helper()

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("log-level", "", "")
	require.NoError(t, set.Set("log-level", level))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestSetupLogger(t *testing.T) {
	t.Run("accepts known levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "INFO"} {
			assert.NoError(t, setupLogger(newLoggerContext(t, level)), level)
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		err := setupLogger(newLoggerContext(t, "verbose"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestAIConfig(t *testing.T) {
	t.Run("defaults when unset", func(t *testing.T) {
		cfg := aiConfig(&config.Config{})
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "all-mpnet-base-v2", cfg.EmbeddingModel)
		assert.False(t, cfg.SuggestionsEnabled())
	})

	t.Run("suggestions wired when configured", func(t *testing.T) {
		cfg := aiConfig(&config.Config{AI: config.AIConfig{
			SuggestionHost:  "http://localhost:11434",
			SuggestionModel: "phi-2",
		}})
		assert.True(t, cfg.SuggestionsEnabled())
	})

	t.Run("overrides pass through", func(t *testing.T) {
		cfg := aiConfig(&config.Config{AI: config.AIConfig{
			EmbeddingHost: "http://models:11434/v1",
			RerankModel:   "bge-reranker-base",
		}})
		assert.Equal(t, "http://models:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "bge-reranker-base", cfg.RerankModel)
	})
}
