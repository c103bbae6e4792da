package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/yojana"
	"github.com/poiesic/yojana/ai/mock"
	"github.com/poiesic/yojana/api"
	"github.com/poiesic/yojana/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const question = "scholarship for SC students"

func init() {
	gin.SetMode(gin.TestMode)
}

func newDatabase(t *testing.T, seed bool) (*yojana.Database, *mock.MockEmbedder) {
	t.Helper()
	embedder := mock.NewMockEmbedder().WithVector(question, 1, 0, 0, 0)
	db, err := yojana.NewDatabase("", yojana.WithInMemory(), yojana.WithEmbedder(embedder))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	if seed {
		_, err = db.DatasetRepository().SaveDataset(context.Background(), snapshot.SampleDataset())
		require.NoError(t, err)
		_, err = db.Reload(context.Background())
		require.NoError(t, err)
	}
	return db, embedder
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestEligibility(t *testing.T) {
	db, _ := newDatabase(t, true)
	router := api.NewRouter(db, nil)

	rec := do(t, router, http.MethodPost, "/v1/eligibility", map[string]any{
		"profile":  map[string]any{"age": 22, "income": 140000, "category": "SC", "state": "Rajasthan"},
		"question": question,
		"top_k":    1,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(api.RequestIDHeader))

	resp := decode[map[string]any](t, rec)
	assert.Equal(t, rec.Header().Get(api.RequestIDHeader), resp["request_id"])

	results := resp["results"].([]any)
	require.Len(t, results, 4, "Kerala scheme is filtered out")
	first := results[0].(map[string]any)
	assert.Equal(t, string(snapshot.SamplePostMatric), first["scheme_id"])
	assert.Equal(t, "ELIGIBLE", first["label"])
	assert.Equal(t, []any{}, first["missing_fields"])

	criteria := first["criteria"].([]any)
	require.Len(t, criteria, 3)
	age := criteria[0].(map[string]any)
	assert.Equal(t, "Applicant must be at least 18 years old.", age["description"])
	assert.Equal(t, "SATISFIED", age["verdict"])
	prov := age["provenance"].([]any)[0].(map[string]any)
	assert.Equal(t, "pms-guidelines", prov["document"])
	assert.Equal(t, float64(2), prov["page"])

	evidence := first["evidence"].([]any)
	require.Len(t, evidence, 1, "top_k bounds evidence")
	ev := evidence[0].(map[string]any)
	assert.Equal(t, "pms-guidelines", ev["document"])
	assert.Equal(t, "pms-guidelines_p2", ev["section"])
	assert.InDelta(t, 1.0, ev["score"], 1e-6)
	assert.NotEmpty(t, ev["snippet"])
	assert.Contains(t, first["explanation"], "[ok]")
}

func TestEligibility_MissingFieldsReported(t *testing.T) {
	db, _ := newDatabase(t, true)
	router := api.NewRouter(db, nil)

	rec := do(t, router, http.MethodPost, "/v1/eligibility", api.EligibilityRequest{
		Profile:  map[string]any{"age": 30},
		Question: question,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[api.EligibilityResponse](t, rec)
	require.NotEmpty(t, resp.Results)
	for _, r := range resp.Results {
		if r.SchemeID == snapshot.SamplePostMatric {
			assert.Equal(t, []string{"category", "income"}, r.MissingFields)
			assert.Equal(t, "INSUFFICIENT_INFO", r.Label.String())
		}
	}
}

func TestEligibility_Errors(t *testing.T) {
	t.Run("empty question", func(t *testing.T) {
		db, _ := newDatabase(t, true)
		rec := do(t, api.NewRouter(db, nil), http.MethodPost, "/v1/eligibility", api.EligibilityRequest{Question: " "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "empty_query", decode[api.ErrorEnvelope](t, rec).Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		db, _ := newDatabase(t, true)
		req := httptest.NewRequest(http.MethodPost, "/v1/eligibility", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		api.NewRouter(db, nil).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("top_k out of range", func(t *testing.T) {
		db, _ := newDatabase(t, true)
		rec := do(t, api.NewRouter(db, nil), http.MethodPost, "/v1/eligibility", api.EligibilityRequest{Question: question, TopK: api.MaxTopK + 1})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_top_k", decode[api.ErrorEnvelope](t, rec).Error.Code)
	})

	t.Run("embedder failure", func(t *testing.T) {
		db, embedder := newDatabase(t, true)
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("connection refused")
		}
		rec := do(t, api.NewRouter(db, nil), http.MethodPost, "/v1/eligibility", api.EligibilityRequest{Question: "pension"})
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "embedding_unavailable", decode[api.ErrorEnvelope](t, rec).Error.Code)
	})

	t.Run("wrong embedding dimension", func(t *testing.T) {
		db, embedder := newDatabase(t, true)
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1, 0}, nil
		}
		rec := do(t, api.NewRouter(db, nil), http.MethodPost, "/v1/eligibility", api.EligibilityRequest{Question: "pension"})
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "embedding_dimension", decode[api.ErrorEnvelope](t, rec).Error.Code)
	})

	t.Run("no snapshot", func(t *testing.T) {
		db, _ := newDatabase(t, false)
		rec := do(t, api.NewRouter(db, nil), http.MethodPost, "/v1/eligibility", api.EligibilityRequest{Question: question})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "no_snapshot", decode[api.ErrorEnvelope](t, rec).Error.Code)
	})
}

func TestHealth(t *testing.T) {
	empty, _ := newDatabase(t, false)
	rec := do(t, api.NewRouter(empty, nil), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, api.HealthResponse{Status: "ok"}, decode[api.HealthResponse](t, rec))

	seeded, _ := newDatabase(t, true)
	snap, err := seeded.Snapshot()
	require.NoError(t, err)
	rec = do(t, api.NewRouter(seeded, nil), http.MethodGet, "/healthz", nil)
	assert.Equal(t, api.HealthResponse{Status: "ok", Ready: true, Snapshot: string(snap.Version)}, decode[api.HealthResponse](t, rec))
}

func TestReload(t *testing.T) {
	db, _ := newDatabase(t, false)
	router := api.NewRouter(db, nil)

	rec := do(t, router, http.MethodPost, "/v1/admin/reload", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no_dataset", decode[api.ErrorEnvelope](t, rec).Error.Code)

	info, err := db.DatasetRepository().SaveDataset(context.Background(), snapshot.SampleDataset())
	require.NoError(t, err)

	rec = do(t, router, http.MethodPost, "/v1/admin/reload", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[api.ReloadResponse](t, rec)
	assert.Equal(t, string(info.Version), resp.Version)
	assert.Equal(t, info.Nodes, resp.Nodes)
	assert.Equal(t, info.Chunks, resp.Chunks)

	rec = do(t, router, http.MethodPost, "/v1/eligibility", api.EligibilityRequest{Question: question})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestID(t *testing.T) {
	db, _ := newDatabase(t, false)
	router := api.NewRouter(db, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(api.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(api.RequestIDHeader))

	a := do(t, router, http.MethodGet, "/healthz", nil).Header().Get(api.RequestIDHeader)
	b := do(t, router, http.MethodGet, "/healthz", nil).Header().Get(api.RequestIDHeader)
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
