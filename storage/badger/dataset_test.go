package badger

import (
	"context"
	"sync"
	"testing"

	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/rules"
	"github.com/poiesic/yojana/snapshot"
	"github.com/poiesic/yojana/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *DatasetRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func TestNewDatasetRepository_RequiresBackend(t *testing.T) {
	_, err := NewDatasetRepository(nil)
	assert.ErrorIs(t, err, storage.ErrBackendRequired)
}

func TestLoadDataset_NothingSaved(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.LoadDataset(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = repo.DatasetInfo(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSaveAndLoadDataset(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	ds := snapshot.SampleDataset()

	info, err := repo.SaveDataset(ctx, ds)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info.Generation)
	assert.Equal(t, snapshot.Version(ds), info.Version)
	assert.Equal(t, len(ds.Nodes), info.Nodes)
	assert.Equal(t, len(ds.Edges), info.Edges)
	assert.Equal(t, len(ds.Chunks), info.Chunks)

	loaded, err := repo.LoadDataset(ctx)
	require.NoError(t, err)

	require.Len(t, loaded.Nodes, len(ds.Nodes))
	for i := range ds.Nodes {
		assert.Equal(t, ds.Nodes[i].NodeID(), loaded.Nodes[i].NodeID(), "node %d keeps its position", i)
		assert.Equal(t, ds.Nodes[i].Kind(), loaded.Nodes[i].Kind())
	}
	assert.Equal(t, ds.Edges, loaded.Edges)
	assert.Equal(t, ds.Chunks, loaded.Chunks)
	assert.Equal(t, snapshot.Version(ds), snapshot.Version(loaded))

	// The loaded dataset builds and evaluates like the original.
	s, err := snapshot.Build(loaded)
	require.NoError(t, err)
	c, ok := s.Graph.Criterion("pms-age")
	require.True(t, ok)
	assert.Equal(t, rules.OpGte, c.Rule.Operator)
	assert.Equal(t, int64(18), c.Rule.Value)
	assert.Equal(t, "Applicant must be at least 18 years old.", c.Description)
}

func TestSaveDataset_ReplacesPreviousGeneration(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.SaveDataset(ctx, snapshot.SampleDataset())
	require.NoError(t, err)

	smaller := snapshot.Assemble([]core.Node{
		&core.Document{Id: "doc", Title: "Only document"},
	}, []*core.DocumentChunk{
		{Id: "doc_c0", DocumentID: "doc", Text: "text", End: 4, Vector: []float32{1, 0}},
	})
	info, err := repo.SaveDataset(ctx, smaller)
	require.NoError(t, err)
	assert.Greater(t, info.Generation, uint64(1))

	loaded, err := repo.LoadDataset(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Nodes, 1)
	assert.Empty(t, loaded.Edges)
	assert.Len(t, loaded.Chunks, 1)

	n, err := repo.backend.DeletePrefix(makeGenerationPrefix(1))
	require.NoError(t, err)
	assert.Zero(t, n, "previous generation was removed")

	got, err := repo.DatasetInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, info.Generation, got.Generation)
}

func TestSaveDataset_Errors(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	t.Run("nil dataset", func(t *testing.T) {
		_, err := repo.SaveDataset(ctx, nil)
		assert.ErrorIs(t, err, storage.ErrDatasetRequired)
	})

	t.Run("unencodable value keeps previous dataset", func(t *testing.T) {
		_, err := repo.SaveDataset(ctx, snapshot.SampleDataset())
		require.NoError(t, err)

		bad := snapshot.Assemble([]core.Node{
			&rules.Criterion{
				Id:         "bad",
				SchemeID:   "s",
				Rule:       rules.AtomicRule{Field: "f", Operator: rules.OpEq, Value: struct{}{}},
				Provenance: []core.Provenance{{DocumentID: "d"}},
			},
		}, nil)
		_, err = repo.SaveDataset(ctx, bad)
		assert.ErrorIs(t, err, storage.ErrUnsupportedValue)

		loaded, err := repo.LoadDataset(ctx)
		require.NoError(t, err)
		assert.Len(t, loaded.Chunks, len(snapshot.SampleDataset().Chunks))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.SaveDataset(cctx, snapshot.SampleDataset())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSaveDataset_ConcurrentWriters(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.SaveDataset(ctx, snapshot.SampleDataset())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	loaded, err := repo.LoadDataset(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Chunks, len(snapshot.SampleDataset().Chunks))
}
