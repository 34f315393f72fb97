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


package index

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/poiesic/ticketrouter/ai"
	"github.com/poiesic/ticketrouter/core"
	"github.com/poiesic/ticketrouter/storage"
)

// DefaultEmbedBatchSize bounds how many chunk texts go to the embedder in
// one request during a rebuild.
const DefaultEmbedBatchSize = 128

// Snapshot is the immutable set of team indexes a query runs against.
// It is built once at initialization and shared read-only afterwards.
type Snapshot struct {
	teams map[string]*TeamIndex
	names []string
}

func newSnapshot(teams map[string]*TeamIndex) *Snapshot {
	names := make([]string, 0, len(teams))
	for name := range teams {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Snapshot{teams: teams, names: names}
}

// Teams returns the team names in sorted order.
func (s *Snapshot) Teams() []string { return s.names }

// Team returns the index for a team.
func (s *Snapshot) Team(name string) (*TeamIndex, bool) {
	team, ok := s.teams[name]
	return team, ok
}

// Empty reports whether the snapshot holds no teams.
func (s *Snapshot) Empty() bool { return len(s.teams) == 0 }

// Manager builds team index snapshots, loading persisted state when it is
// still valid and rebuilding everything when it is not.
type Manager struct {
	store     storage.IndexStorage
	embedder  ai.Embedder
	batchSize int
	logger    *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithEmbedBatchSize sets the rebuild embedding batch size.
// Default is DefaultEmbedBatchSize.
func WithEmbedBatchSize(size int) ManagerOption {
	return func(m *Manager) {
		if size > 0 {
			m.batchSize = size
		}
	}
}

// WithManagerLogger sets a custom logger.
// Default is slog.Default().
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
	}
}

// NewManager creates a new index manager.
func NewManager(store storage.IndexStorage, embedder ai.Embedder, opts ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, ErrStorageRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	m := &Manager{
		store:     store,
		embedder:  embedder,
		batchSize: DefaultEmbedBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Initialize returns a snapshot covering every team in chunksByTeam.
//
// Loading is all-or-nothing: if any team's persisted record is missing,
// corrupt, or carries a fingerprint that does not match the current corpus,
// every team is rebuilt from chunks and re-persisted. A half-loaded,
// half-rebuilt snapshot is never produced.
func (m *Manager) Initialize(ctx context.Context, chunksByTeam map[string][]core.Chunk) (*Snapshot, error) {
	names := make([]string, 0, len(chunksByTeam))
	for name := range chunksByTeam {
		names = append(names, name)
	}
	sort.Strings(names)

	teams := make(map[string]*TeamIndex, len(names))
	for _, name := range names {
		chunks := chunksByTeam[name]

		team, err := m.loadTeam(ctx, name, chunks)
		if err != nil {
			if isRebuildCause(err) {
				m.logger.Info("persisted index unusable, rebuilding all teams",
					"team", name, "reason", err)
				return m.rebuildAll(ctx, names, chunksByTeam)
			}
			return nil, err
		}
		teams[name] = team
	}

	m.logger.Info("loaded team indexes from storage", "teams", len(teams))
	return newSnapshot(teams), nil
}

var errStaleFingerprint = errors.New("corpus fingerprint mismatch")

func isRebuildCause(err error) bool {
	return errors.Is(err, storage.ErrNotFound) ||
		errors.Is(err, storage.ErrCorruptRecord) ||
		errors.Is(err, errStaleFingerprint) ||
		errors.Is(err, ErrCorruptGraph) ||
		errors.Is(err, ErrVectorCountMismatch)
}

func (m *Manager) loadTeam(ctx context.Context, name string, chunks []core.Chunk) (*TeamIndex, error) {
	record, err := m.store.LoadTeam(ctx, name)
	if err != nil {
		return nil, err
	}

	if !bytes.Equal(record.Fingerprint, core.CorpusFingerprint(chunks)) {
		return nil, errStaleFingerprint
	}

	// Fingerprint equality means the persisted chunk list matches the
	// current corpus; index the current chunks against the stored graph.
	return LoadTeamIndex(name, chunks, record.Index, record.Weights)
}

func (m *Manager) rebuildAll(ctx context.Context, names []string, chunksByTeam map[string][]core.Chunk) (*Snapshot, error) {
	teams := make(map[string]*TeamIndex, len(names))

	for _, name := range names {
		chunks := chunksByTeam[name]

		team, err := m.buildTeam(ctx, name, chunks)
		if err != nil {
			return nil, err
		}
		teams[name] = team

		m.logger.Info("rebuilt team index", "team", name, "chunks", len(chunks))
	}

	return newSnapshot(teams), nil
}

func (m *Manager) buildTeam(ctx context.Context, name string, chunks []core.Chunk) (*TeamIndex, error) {
	vectors, err := m.embedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}

	weights := ComputeTokenWeights(chunks)
	team, err := BuildTeamIndex(name, chunks, vectors, weights)
	if err != nil {
		return nil, err
	}

	graphData, err := team.ExportGraph()
	if err != nil {
		return nil, err
	}

	record := &storage.TeamRecord{
		Team:        name,
		Chunks:      chunks,
		Index:       graphData,
		Weights:     weights,
		Fingerprint: core.CorpusFingerprint(chunks),
	}
	if err := m.store.SaveTeam(ctx, record); err != nil {
		return nil, err
	}

	return team, nil
}

func (m *Manager) embedChunks(ctx context.Context, chunks []core.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))

	for start := 0; start < len(chunks); start += m.batchSize {
		end := start + m.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Text)
		}

		batch, err := m.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}

	if len(vectors) != len(chunks) {
		return nil, ErrVectorCountMismatch
	}
	return vectors, nil
}
