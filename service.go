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


package ticketrouter

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/ticketrouter/ai"
	"github.com/poiesic/ticketrouter/core"
	"github.com/poiesic/ticketrouter/index"
	"github.com/poiesic/ticketrouter/ingestion"
	"github.com/poiesic/ticketrouter/ingestion/pdf"
	"github.com/poiesic/ticketrouter/routing"
	"github.com/poiesic/ticketrouter/storage"
	"github.com/poiesic/ticketrouter/storage/badger"
	"github.com/poiesic/ticketrouter/textproc"
)

// ErrNotInitialized indicates that Route was called before Initialize.
var ErrNotInitialized = errors.New("service is not initialized")

// Service wires the full ticket-routing stack: corpus ingestion, per-team
// indexing and the routed hybrid search engine.
type Service struct {
	corpusDir string
	provider  ai.Provider
	store     storage.IndexStorage
	segmenter *textproc.Segmenter
	pipeline  *ingestion.Pipeline
	builder   *ingestion.CorpusBuilder
	manager   *index.Manager
	engine    *routing.Engine
	logger    *slog.Logger

	threshold float64
	alpha     float64
	window    int
	poolSize  int
	extractor ingestion.TextExtractor
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithSimilarityThreshold sets the semantic chunking threshold.
// Default is ingestion.DefaultSimilarityThreshold.
func WithSimilarityThreshold(threshold float64) ServiceOption {
	return func(s *Service) {
		s.threshold = threshold
	}
}

// WithAlpha sets the hybrid semantic/keyword blend factor.
// Default is routing.DefaultAlpha.
func WithAlpha(alpha float64) ServiceOption {
	return func(s *Service) {
		s.alpha = alpha
	}
}

// WithWindow sets the context expansion window radius.
// Default is routing.DefaultWindow.
func WithWindow(window int) ServiceOption {
	return func(s *Service) {
		s.window = window
	}
}

// WithPoolSize sets the ingestion worker pool size.
// Default is the available CPU parallelism.
func WithPoolSize(size int) ServiceOption {
	return func(s *Service) {
		s.poolSize = size
	}
}

// WithExtractor sets a custom text extractor.
// Default is the PDF extractor.
func WithExtractor(extractor ingestion.TextExtractor) ServiceOption {
	return func(s *Service) {
		if extractor != nil {
			s.extractor = extractor
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewService creates a service reading PDFs from corpusDir and persisting
// team indexes under dataDir. Call Initialize before Route.
func NewService(corpusDir, dataDir string, provider ai.Provider, opts ...ServiceOption) (*Service, error) {
	s := &Service{
		corpusDir: corpusDir,
		provider:  provider,
		threshold: ingestion.DefaultSimilarityThreshold,
		alpha:     routing.DefaultAlpha,
		window:    routing.DefaultWindow,
		extractor: pdf.NewExtractor(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	segmenter, err := textproc.NewSegmenter()
	if err != nil {
		return nil, err
	}
	s.segmenter = segmenter

	store, err := badger.NewIndexStorage(dataDir)
	if err != nil {
		return nil, err
	}
	s.store = store

	pipelineOpts := []ingestion.Option{ingestion.WithLogger(s.logger)}
	if s.poolSize > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(s.poolSize))
	}
	pipeline, err := ingestion.NewPipeline(s.extractor, pipelineOpts...)
	if err != nil {
		store.Close()
		return nil, err
	}
	s.pipeline = pipeline

	chunker, err := ingestion.NewSemanticChunker(provider.Embedder(), segmenter,
		ingestion.WithSimilarityThreshold(s.threshold),
		ingestion.WithChunkerLogger(s.logger))
	if err != nil {
		s.closePartial()
		return nil, err
	}

	builder, err := ingestion.NewCorpusBuilder(chunker, s.logger)
	if err != nil {
		s.closePartial()
		return nil, err
	}
	s.builder = builder

	manager, err := index.NewManager(store, provider.Embedder(),
		index.WithManagerLogger(s.logger))
	if err != nil {
		s.closePartial()
		return nil, err
	}
	s.manager = manager

	return s, nil
}

// Initialize parses the corpus, builds the per-team chunk lists and either
// loads or rebuilds every team index. It must complete before the query
// path is exposed.
func (s *Service) Initialize(ctx context.Context) error {
	tasks, err := ingestion.CollectTasks(s.corpusDir)
	if err != nil {
		return err
	}
	s.logger.Info("collected corpus documents", "documents", len(tasks))

	docs := s.pipeline.ParseAll(tasks)

	chunksByTeam, err := s.builder.BuildCorpus(ctx, docs)
	if err != nil {
		return err
	}
	if len(chunksByTeam) == 0 {
		s.logger.Warn("corpus produced no team chunks", "corpus_dir", s.corpusDir)
	}

	snapshot, err := s.manager.Initialize(ctx, chunksByTeam)
	if err != nil {
		return err
	}

	engine, err := routing.NewEngine(snapshot, s.provider.Embedder(), s.provider.Reranker(), s.segmenter,
		routing.WithAlpha(s.alpha),
		routing.WithWindow(s.window),
		routing.WithEngineLogger(s.logger))
	if err != nil {
		return err
	}
	s.engine = engine

	s.logger.Info("service initialized", "teams", len(snapshot.Teams()))
	return nil
}

// Route answers a query against the initialized indexes.
func (s *Service) Route(ctx context.Context, query string, topK int) (*core.RoutingDecision, error) {
	if s.engine == nil {
		return nil, ErrNotInitialized
	}
	return s.engine.Route(ctx, query, topK)
}

// Suggest generates an optional next-step suggestion from the best passage
// of a decision. It returns "" when suggestions are not configured, the
// decision has no results, or generation fails; a failed suggestion never
// fails the query.
func (s *Service) Suggest(ctx context.Context, query string, decision *core.RoutingDecision) string {
	generator := s.provider.SuggestionGenerator()
	if generator == nil || decision == nil || len(decision.Results) == 0 {
		return ""
	}

	suggestion, err := generator.Suggest(ctx, query, decision.Results[0].Text)
	if err != nil {
		s.logger.Warn("suggestion generation failed", "err", err)
		return ""
	}
	return suggestion
}

// Close releases the worker pool, the index storage and the AI provider.
func (s *Service) Close() error {
	if s.pipeline != nil {
		s.pipeline.Release()
	}

	var firstErr error
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing index storage", "err", err)
		firstErr = err
	}
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Service) closePartial() {
	if s.pipeline != nil {
		s.pipeline.Release()
	}
	if s.store != nil {
		s.store.Close()
	}
}
