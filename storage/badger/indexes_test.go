package badger

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ticketrouter/core"
	"github.com/poiesic/ticketrouter/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) storage.IndexStorage {
	t.Helper()

	store, err := NewMemoryIndexStorage()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func testRecord(team string) *storage.TeamRecord {
	return &storage.TeamRecord{
		Team: team,
		Chunks: []core.Chunk{
			{Path: "1 Section", Text: "some text", Team: team, Source: team + "/doc.pdf"},
		},
		Index:       []byte{1, 2, 3},
		Weights:     map[string]float64{"some": 0.5, "text": 1.5},
		Fingerprint: []byte{9, 9, 9, 9},
	}
}

func TestSaveLoadTeam(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	record := testRecord("network")
	require.NoError(t, store.SaveTeam(ctx, record))

	loaded, err := store.LoadTeam(ctx, "network")
	require.NoError(t, err)
	assert.Equal(t, record, loaded)
}

func TestSaveTeam_OverwritesPrevious(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTeam(ctx, testRecord("network")))

	updated := testRecord("network")
	updated.Fingerprint = []byte{1}
	updated.Chunks = nil
	require.NoError(t, store.SaveTeam(ctx, updated))

	loaded, err := store.LoadTeam(ctx, "network")
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, loaded.Fingerprint)
	assert.Empty(t, loaded.Chunks)
}

func TestLoadTeam_NotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.LoadTeam(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSaveTeam_IsolatedPerTeam(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTeam(ctx, testRecord("network")))
	require.NoError(t, store.SaveTeam(ctx, testRecord("storage")))

	network, err := store.LoadTeam(ctx, "network")
	require.NoError(t, err)
	assert.Equal(t, "network", network.Team)

	stor, err := store.LoadTeam(ctx, "storage")
	require.NoError(t, err)
	assert.Equal(t, "storage", stor.Team)
}

func TestLoadTeam_CorruptRecord(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTeam(ctx, testRecord("network")))

	// Clobber the stored bytes underneath the record.
	backend := store.(*IndexStorage).backend
	require.NoError(t, backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeTeamKey("network"), []byte("garbage")); err != nil {
			return err
		}
		return tx.Commit()
	}, true))

	_, err := store.LoadTeam(ctx, "network")
	assert.ErrorIs(t, err, storage.ErrCorruptRecord)
}

func TestStorage_Closed(t *testing.T) {
	store, err := NewMemoryIndexStorage()
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.SaveTeam(context.Background(), testRecord("x")), storage.ErrStorageClosed)
	_, err = store.LoadTeam(context.Background(), "x")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
