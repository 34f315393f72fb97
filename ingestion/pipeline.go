package ingestion

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/ticketrouter/core"
)

// Pipeline orchestrates parallel parsing of the document corpus.
// Each document is processed independently on a bounded worker pool;
// failures are logged and dropped so a single malformed file never aborts
// the batch.
type Pipeline struct {
	extractor TextExtractor
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent parsing.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(extractor TextExtractor, opts ...Option) (*Pipeline, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	poolSize := runtime.NumCPU()
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		extractor: extractor,
		pool:      pool,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// DocumentTask pairs a document file with its owning team.
type DocumentTask struct {
	Path string
	Team string
}

// CollectTasks walks the corpus root. Each first-level directory is a team;
// every .pdf file under it (recursively) belongs to that team.
func CollectTasks(baseDir string) ([]DocumentTask, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, err
	}

	var tasks []DocumentTask
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		team := entry.Name()
		teamDir := filepath.Join(baseDir, team)

		err := filepath.WalkDir(teamDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
				tasks = append(tasks, DocumentTask{Path: path, Team: team})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return tasks, nil
}

// ParseAll parses every task on the worker pool and returns only the
// successfully parsed documents, in task order.
func (p *Pipeline) ParseAll(tasks []DocumentTask) []core.ParsedDocument {
	parsed := make([]*core.ParsedDocument, len(tasks))
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()

			pages, err := p.extractor.ExtractPages(task.Path)
			if err != nil {
				p.logger.Error("error parsing document, dropping it",
					"path", task.Path, "team", task.Team, "err", err)
				return
			}

			parsed[i] = &core.ParsedDocument{
				Tree:   StructureDocument(pages),
				Team:   task.Team,
				Source: task.Path,
			}
		})
		if err != nil {
			p.logger.Error("error submitting parse task", "path", task.Path, "err", err)
			wg.Done()
		}
	}

	wg.Wait()

	docs := make([]core.ParsedDocument, 0, len(tasks))
	for _, doc := range parsed {
		if doc != nil {
			docs = append(docs, *doc)
		}
	}

	p.logger.Info("parsed corpus documents", "requested", len(tasks), "parsed", len(docs))
	return docs
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
