package storage

import (
	"context"

	"github.com/poiesic/ticketrouter/core"
)

// TeamRecord is the persisted snapshot of one team's search state.
type TeamRecord struct {
	// Team is the owning team's name.
	Team string
	// Chunks in index order: chunk i is vector index position i.
	Chunks []core.Chunk
	// Index is the exported vector index graph.
	Index []byte
	// Weights is the token weight table derived from the team corpus.
	Weights map[string]float64
	// Fingerprint is the corpus digest the snapshot was built from.
	Fingerprint []byte
}

// IndexStorage persists team records. Implementations must be thread-safe.
type IndexStorage interface {
	// SaveTeam writes a team record atomically, replacing any previous
	// record for the same team.
	SaveTeam(ctx context.Context, record *TeamRecord) error

	// LoadTeam reads a team record.
	// Returns ErrNotFound if the team has no persisted record.
	LoadTeam(ctx context.Context, team string) (*TeamRecord, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
