package yojana

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/yojana/ai"
	"github.com/poiesic/yojana/ai/mock"
	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/ingestion"
	"github.com/poiesic/yojana/retrieval"
	"github.com/poiesic/yojana/snapshot"
	"github.com/poiesic/yojana/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleQuestion = "scholarship for SC students"

// newSampleDatabase returns an in-memory database serving the sample dataset.
// The sample question embeds to the first basis vector.
func newSampleDatabase(t *testing.T, opts ...DatabaseOption) (*Database, *mock.MockEmbedder) {
	t.Helper()
	embedder := mock.NewMockEmbedder().WithVector(sampleQuestion, 2, 0, 0, 0)
	opts = append([]DatabaseOption{WithInMemory(), WithEmbedder(embedder)}, opts...)
	db, err := NewDatabase("", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.DatasetRepository().SaveDataset(context.Background(), snapshot.SampleDataset())
	require.NoError(t, err)
	_, err = db.Reload(context.Background())
	require.NoError(t, err)
	return db, embedder
}

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		assert.NotNil(t, db.DatasetRepository())
		assert.NotNil(t, db.Embedder())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)

		_, err = db.Snapshot()
		assert.ErrorIs(t, err, snapshot.ErrNoSnapshot, "empty store has no live snapshot")
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("error with invalid ai config", func(t *testing.T) {
		db, err := NewDatabase("", WithInMemory(), WithAIConfig(&ai.Config{}))
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_LoadsStoredDatasetOnOpen(t *testing.T) {
	dir := t.TempDir()
	embedder := mock.NewMockEmbedder()

	db, err := NewDatabase(dir, WithEmbedder(embedder))
	require.NoError(t, err)
	info, err := db.DatasetRepository().SaveDataset(context.Background(), snapshot.SampleDataset())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	reopened, err := NewDatabase(dir, WithEmbedder(embedder))
	require.NoError(t, err)
	defer reopened.Close()

	snap, err := reopened.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, info.Version, snap.Version)
}

func TestDatabase_Answer(t *testing.T) {
	db, embedder := newSampleDatabase(t)
	ctx := context.Background()

	results, err := db.Answer(ctx, snapshot.SampleProfile(), sampleQuestion)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	ids := make([]core.ID, len(results))
	for i, r := range results {
		ids[i] = r.SchemeID
	}
	assert.NotContains(t, ids, snapshot.SampleKeralaGrant, "Kerala scheme is filtered out for a Rajasthan profile")
	assert.Equal(t, snapshot.SamplePostMatric, results[0].SchemeID)
	assert.Equal(t, core.LabelEligible, results[0].Label)

	// The unnormalized question vector is normalized before search.
	require.NotEmpty(t, results[0].Evidence)
	assert.InDelta(t, 1.0, results[0].Evidence[0].Score, 1e-6)

	// Repeated questions are served from the embedding cache.
	_, err = db.Answer(ctx, snapshot.SampleProfile(), sampleQuestion)
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.CallCount())
}

func TestDatabase_AnswerUsesConfiguredEvidenceLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("default limit keeps all sample evidence", func(t *testing.T) {
		db, _ := newSampleDatabase(t)
		results, err := db.Answer(ctx, snapshot.SampleProfile(), sampleQuestion)
		require.NoError(t, err)
		require.Equal(t, snapshot.SamplePostMatric, results[0].SchemeID)
		assert.Len(t, results[0].Evidence, 2)
	})

	t.Run("configured limit", func(t *testing.T) {
		db, _ := newSampleDatabase(t, WithRetrievalOptions(retrieval.WithEvidenceLimit(1)))
		results, err := db.Answer(ctx, snapshot.SampleProfile(), sampleQuestion)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		for _, r := range results {
			assert.LessOrEqual(t, len(r.Evidence), 1, "scheme %s", r.SchemeID)
		}
		assert.Len(t, results[0].Evidence, 1)
	})

	t.Run("explicit limit overrides configured limit", func(t *testing.T) {
		db, _ := newSampleDatabase(t, WithRetrievalOptions(retrieval.WithEvidenceLimit(1)))
		results, err := db.AnswerTopK(ctx, snapshot.SampleProfile(), sampleQuestion, 5)
		require.NoError(t, err)
		assert.Len(t, results[0].Evidence, 2)
	})
}

func TestDatabase_AnswerErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty question", func(t *testing.T) {
		db, _ := newSampleDatabase(t)
		_, err := db.Answer(ctx, core.UserProfile{}, "  ")
		assert.ErrorIs(t, err, retrieval.ErrEmptyQuery)
	})

	t.Run("no snapshot", func(t *testing.T) {
		db, err := NewDatabase("", WithInMemory(), WithEmbedder(mock.NewMockEmbedder()))
		require.NoError(t, err)
		defer db.Close()

		_, err = db.Answer(ctx, core.UserProfile{}, "pension")
		assert.ErrorIs(t, err, snapshot.ErrNoSnapshot)
	})

	t.Run("embedder failure", func(t *testing.T) {
		db, embedder := newSampleDatabase(t)
		boom := errors.New("connection refused")
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, boom
		}

		_, err := db.Answer(ctx, core.UserProfile{}, "something new")
		assert.ErrorIs(t, err, ai.ErrEmbeddingUnavailable)
		assert.ErrorIs(t, err, boom)
	})
}

func TestDatabase_Ingest(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	db, err := NewDatabase("", WithInMemory(), WithEmbedder(embedder))
	require.NoError(t, err)
	defer db.Close()

	m, err := ingestion.ParseManifest([]byte(`
documents:
  - id: kl-guidelines
    title: Kerala Grant
    pages:
      - page: 1
        text: Students resident in Kerala aged 17 or more may apply.
schemes:
  - id: kerala-grant
    name: Kerala Higher Education Grant
    jurisdictions: [Kerala]
    criteria:
      - id: kl-age
        field: age
        op: ">="
        value: 17
        sources: [{document: kl-guidelines, page: 1}]
`))
	require.NoError(t, err)

	info, err := db.Ingest(context.Background(), m)
	require.NoError(t, err)

	snap, err := db.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, info.Version, snap.Version)

	results, err := db.Answer(context.Background(), core.UserProfile{"age": 18, "state": "Kerala"}, "grant")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, core.LabelEligible, results[0].Label)
}

func TestDatabase_ReloadKeepsSnapshotOnFailure(t *testing.T) {
	db, _ := newSampleDatabase(t)
	before, err := db.Snapshot()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = db.Reload(ctx)
	require.Error(t, err)

	after, err := db.Snapshot()
	require.NoError(t, err)
	assert.Same(t, before, after)
}

// failingCloseRepository fails Close after closing the wrapped repository.
type failingCloseRepository struct {
	storage.DatasetRepository
	err error
}

func (r *failingCloseRepository) Close() error {
	r.DatasetRepository.Close()
	return r.err
}

func TestDatabase_Close(t *testing.T) {
	t.Run("closes cleanly", func(t *testing.T) {
		db, err := NewDatabase(t.TempDir())
		require.NoError(t, err)
		require.NotNil(t, db)

		assert.NoError(t, db.Close())
		assert.True(t, db.backend.IsClosed())
	})

	t.Run("backend closes when repository close fails", func(t *testing.T) {
		db, err := NewDatabase(t.TempDir())
		require.NoError(t, err)

		boom := errors.New("sequence release failed")
		db.datasetRepo = &failingCloseRepository{DatasetRepository: db.datasetRepo, err: boom}

		err = db.Close()
		assert.ErrorIs(t, err, boom)
		assert.True(t, db.backend.IsClosed())
	})
}
