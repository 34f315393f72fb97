package index

import (
	"context"
	"testing"

	"github.com/poiesic/ticketrouter/ai/mock"
	"github.com/poiesic/ticketrouter/core"
	"github.com/poiesic/ticketrouter/storage"
	"github.com/poiesic/ticketrouter/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCorpus() map[string][]core.Chunk {
	return map[string][]core.Chunk{
		"network": {
			{Path: "1 CNI", Text: "cni plugin configuration", Team: "network", Source: "network/a.pdf"},
			{Path: "2 DNS", Text: "cluster dns resolution", Team: "network", Source: "network/a.pdf"},
		},
		"storage": {
			{Path: "1 Volumes", Text: "persistent volume claims", Team: "storage", Source: "storage/b.pdf"},
		},
	}
}

func newTestManager(t *testing.T) (*Manager, *mock.MockEmbedder) {
	t.Helper()

	store, err := badger.NewMemoryIndexStorage()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	embedder := mock.NewMockEmbedder()
	embedder.Dim = 8

	manager, err := NewManager(store, embedder)
	require.NoError(t, err)
	return manager, embedder
}

func TestInitialize_RebuildsOnFirstRun(t *testing.T) {
	manager, _ := newTestManager(t)

	snap, err := manager.Initialize(context.Background(), testCorpus())
	require.NoError(t, err)

	assert.Equal(t, []string{"network", "storage"}, snap.Teams())
	assert.False(t, snap.Empty())

	network, ok := snap.Team("network")
	require.True(t, ok)
	assert.Equal(t, 2, network.Len())

	stor, ok := snap.Team("storage")
	require.True(t, ok)
	assert.Equal(t, 1, stor.Len())
}

func TestInitialize_LoadsWithoutReembedding(t *testing.T) {
	manager, embedder := newTestManager(t)
	ctx := context.Background()

	_, err := manager.Initialize(ctx, testCorpus())
	require.NoError(t, err)

	firstRunCalls := embedder.CallCount()
	require.Positive(t, firstRunCalls)

	snap, err := manager.Initialize(ctx, testCorpus())
	require.NoError(t, err)

	assert.Equal(t, firstRunCalls, embedder.CallCount(), "second run must load, not re-embed")
	assert.Equal(t, []string{"network", "storage"}, snap.Teams())

	network, _ := snap.Team("network")
	hits := network.Search(mock.DeterministicVector("cni plugin configuration", 8), 1)
	require.Len(t, hits, 1)
	assert.Equal(t, "1 CNI", network.Chunk(hits[0].Position).Path)
}

func TestInitialize_ChangedCorpusRebuildsAllTeams(t *testing.T) {
	manager, embedder := newTestManager(t)
	ctx := context.Background()

	_, err := manager.Initialize(ctx, testCorpus())
	require.NoError(t, err)
	firstRunCalls := embedder.CallCount()

	// Change one team's corpus; the other team must be rebuilt too.
	changed := testCorpus()
	changed["storage"] = append(changed["storage"], core.Chunk{
		Path: "2 Snapshots", Text: "volume snapshot restore", Team: "storage", Source: "storage/b.pdf",
	})

	snap, err := manager.Initialize(ctx, changed)
	require.NoError(t, err)

	assert.Greater(t, embedder.CallCount(), firstRunCalls)
	stor, _ := snap.Team("storage")
	assert.Equal(t, 2, stor.Len())
}

func TestInitialize_NewTeamRebuildsAllTeams(t *testing.T) {
	manager, embedder := newTestManager(t)
	ctx := context.Background()

	_, err := manager.Initialize(ctx, testCorpus())
	require.NoError(t, err)
	firstRunCalls := embedder.CallCount()

	grown := testCorpus()
	grown["platform"] = []core.Chunk{
		{Path: "1 CI", Text: "pipeline runners", Team: "platform", Source: "platform/c.pdf"},
	}

	snap, err := manager.Initialize(ctx, grown)
	require.NoError(t, err)

	assert.Greater(t, embedder.CallCount(), firstRunCalls)
	assert.Equal(t, []string{"network", "platform", "storage"}, snap.Teams())
}

// corruptStore serves unparseable persisted bytes for one team.
type corruptStore struct {
	storage.IndexStorage
	team string
}

func (s *corruptStore) LoadTeam(ctx context.Context, team string) (*storage.TeamRecord, error) {
	if team == s.team {
		return storage.UnmarshalTeamRecord([]byte("garbage"))
	}
	return s.IndexStorage.LoadTeam(ctx, team)
}

func TestInitialize_CorruptRecordRebuildsAllTeams(t *testing.T) {
	store, err := badger.NewMemoryIndexStorage()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	embedder := mock.NewMockEmbedder()
	embedder.Dim = 8
	ctx := context.Background()

	manager, err := NewManager(store, embedder)
	require.NoError(t, err)
	_, err = manager.Initialize(ctx, testCorpus())
	require.NoError(t, err)
	firstRunCalls := embedder.CallCount()

	manager, err = NewManager(&corruptStore{IndexStorage: store, team: "network"}, embedder)
	require.NoError(t, err)

	snap, err := manager.Initialize(ctx, testCorpus())
	require.NoError(t, err, "corrupt persisted bytes must rebuild, not fail")

	assert.Greater(t, embedder.CallCount(), firstRunCalls)
	assert.Equal(t, []string{"network", "storage"}, snap.Teams())

	network, _ := snap.Team("network")
	hits := network.Search(mock.DeterministicVector("cni plugin configuration", 8), 1)
	require.Len(t, hits, 1)
	assert.Equal(t, "1 CNI", network.Chunk(hits[0].Position).Path)
}

func TestInitialize_CorruptGraphRebuildsAllTeams(t *testing.T) {
	store, err := badger.NewMemoryIndexStorage()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	embedder := mock.NewMockEmbedder()
	embedder.Dim = 8
	ctx := context.Background()

	manager, err := NewManager(store, embedder)
	require.NoError(t, err)
	_, err = manager.Initialize(ctx, testCorpus())
	require.NoError(t, err)
	firstRunCalls := embedder.CallCount()

	// A record that parses fine and carries the current fingerprint, but
	// whose exported graph bytes are unusable.
	chunks := testCorpus()["network"]
	require.NoError(t, store.SaveTeam(ctx, &storage.TeamRecord{
		Team:        "network",
		Chunks:      chunks,
		Index:       []byte("not an exported graph"),
		Weights:     ComputeTokenWeights(chunks),
		Fingerprint: core.CorpusFingerprint(chunks),
	}))

	snap, err := manager.Initialize(ctx, testCorpus())
	require.NoError(t, err, "an unimportable graph must rebuild, not fail")

	assert.Greater(t, embedder.CallCount(), firstRunCalls)
	network, _ := snap.Team("network")
	assert.Equal(t, 2, network.Len())
}

func TestInitialize_EmptyCorpus(t *testing.T) {
	manager, _ := newTestManager(t)

	snap, err := manager.Initialize(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, snap.Empty())
	assert.Empty(t, snap.Teams())
}

func TestInitialize_BatchesLargeTeams(t *testing.T) {
	store, err := badger.NewMemoryIndexStorage()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	embedder := mock.NewMockEmbedder()
	embedder.Dim = 4
	var batchSizes []int
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		batchSizes = append(batchSizes, len(texts))
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = mock.DeterministicVector(text, 4)
		}
		return vectors, nil
	}

	manager, err := NewManager(store, embedder, WithEmbedBatchSize(2))
	require.NoError(t, err)

	chunks := make([]core.Chunk, 5)
	for i := range chunks {
		chunks[i] = core.Chunk{Path: "1 S", Text: string(rune('a' + i)), Team: "network"}
	}

	snap, err := manager.Initialize(context.Background(), map[string][]core.Chunk{"network": chunks})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2, 1}, batchSizes)
	network, _ := snap.Team("network")
	assert.Equal(t, 5, network.Len())
}

func TestNewManager_Validation(t *testing.T) {
	store, err := badger.NewMemoryIndexStorage()
	require.NoError(t, err)
	defer store.Close()

	_, err = NewManager(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrStorageRequired)

	_, err = NewManager(store, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}
