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


package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	ticketrouter "github.com/poiesic/ticketrouter"
	"github.com/poiesic/ticketrouter/ai"
	"github.com/poiesic/ticketrouter/ai/openai"
	"github.com/poiesic/ticketrouter/config"
	"github.com/poiesic/ticketrouter/server"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:  "ticketrouter",
		Usage: "Route support tickets to teams by searching their PDF manuals",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "config.yaml",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Build or load the team indexes and serve the query API",
				Action: serveCommand,
			},
			{
				Name:   "index",
				Usage:  "Parse the corpus and build the team indexes, then exit",
				Action: indexCommand,
			},
			{
				Name:      "query",
				Usage:     "Route a single ticket query and print the decision as JSON",
				ArgsUsage: "<query text>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of results to return",
						Value: 0,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func aiConfig(cfg *config.Config) *ai.Config {
	opts := []ai.ConfigOption{}
	if cfg.AI.EmbeddingHost != "" {
		opts = append(opts, ai.WithEmbeddingHost(cfg.AI.EmbeddingHost))
	}
	if cfg.AI.EmbeddingModel != "" {
		opts = append(opts, ai.WithEmbeddingModel(cfg.AI.EmbeddingModel))
	}
	if cfg.AI.RerankHost != "" {
		opts = append(opts, ai.WithRerankHost(cfg.AI.RerankHost))
	}
	if cfg.AI.RerankModel != "" {
		opts = append(opts, ai.WithRerankModel(cfg.AI.RerankModel))
	}
	if cfg.AI.SuggestionHost != "" || cfg.AI.SuggestionModel != "" {
		opts = append(opts, ai.WithSuggestions(cfg.AI.SuggestionHost, cfg.AI.SuggestionModel))
	}
	return ai.NewConfig(opts...)
}

// newService builds and initializes the full routing service from the
// configuration file.
func newService(ctx context.Context, c *cli.Context) (*ticketrouter.Service, *config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create AI provider: %w", err)
	}

	service, err := ticketrouter.NewService(cfg.Corpus.Dir, cfg.Corpus.DataDir, provider,
		ticketrouter.WithSimilarityThreshold(cfg.Search.SimilarityThreshold),
		ticketrouter.WithAlpha(cfg.Search.Alpha),
		ticketrouter.WithWindow(cfg.Search.Window))
	if err != nil {
		provider.Close()
		return nil, nil, fmt.Errorf("failed to create service: %w", err)
	}

	if err := service.Initialize(ctx); err != nil {
		service.Close()
		return nil, nil, fmt.Errorf("failed to initialize service: %w", err)
	}

	return service, cfg, nil
}

func serveCommand(c *cli.Context) error {
	ctx := context.Background()

	service, cfg, err := newService(ctx, c)
	if err != nil {
		return err
	}
	defer service.Close()

	srv, err := server.NewServer(service, slog.Default(), &server.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
		TopK: cfg.Search.TopK,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		slog.Info("received signal, shutting down", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func indexCommand(c *cli.Context) error {
	start := time.Now()

	service, _, err := newService(context.Background(), c)
	if err != nil {
		return err
	}
	defer service.Close()

	slog.Info("indexes built", "duration", time.Since(start))
	return nil
}

func queryCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query text is required")
	}

	ctx := context.Background()

	service, cfg, err := newService(ctx, c)
	if err != nil {
		return err
	}
	defer service.Close()

	topK := c.Int("top-k")
	if topK < 1 {
		topK = cfg.Search.TopK
	}

	decision, err := service.Route(ctx, query, topK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	response := server.QueryResponse{
		AutoAssign:         decision.AutoAssign,
		Teams:              decision.Teams,
		Results:            decision.Results,
		AISuggestedMessage: service.Suggest(ctx, query, decision),
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}
