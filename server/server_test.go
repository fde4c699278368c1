package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hubenschmidt/go-chromastore/chroma"
	"github.com/hubenschmidt/go-chromastore/core"
	"github.com/hubenschmidt/go-chromastore/monitor"
	"github.com/hubenschmidt/go-chromastore/tools"
	"github.com/hubenschmidt/go-chromastore/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lengthEmbedder struct{}

func (lengthEmbedder) GetEmbedding(ctx context.Context, text string) ([]float64, error) {
	return []float64{float64(len(text)), 1}, nil
}

func newTestServer(t *testing.T, client vector.Client) (http.Handler, *monitor.InMemoryCollector) {
	t.Helper()
	store, err := chroma.New(chroma.Config{Client: client, Embedder: lengthEmbedder{}, TextField: "text", Namespace: "default"})
	require.NoError(t, err)

	collector := monitor.NewInMemoryCollector()
	srv, err := New(Config{Store: store, Registry: tools.NewRegistry(), Collector: collector})
	require.NoError(t, err)
	return srv.Handler(), collector
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t, vector.NewMemoryClient())

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAddTextsAndQuery(t *testing.T) {
	client := vector.NewMemoryClient()
	h, collector := newTestServer(t, client)

	rec := do(t, h, http.MethodPost, "/texts", `{"texts": ["a", "bbbb"], "ids": ["x", "y"], "metadatas": [{"source": "wiki"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var added AddTextsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	assert.Equal(t, []string{"x", "y"}, added.IDs)
	assert.Equal(t, 2, client.Count("default"))

	rec = do(t, h, http.MethodPost, "/query", `{"query": "c", "top_k": 1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "a", res.Documents[0].Content)
	assert.Equal(t, "wiki", res.Documents[0].Metadata["source"])

	rec = do(t, h, http.MethodPost, "/query", `{"query": "c", "namespace": "empty"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Empty(t, res.Documents)

	s := collector.Summary()
	assert.Equal(t, 1, s.Adds)
	assert.Equal(t, 2, s.Queries)
	assert.Equal(t, 2, s.TextsAdded)
	assert.Equal(t, []string{"default", "empty"}, s.Namespaces)
}

func TestAddTexts_Errors(t *testing.T) {
	h, collector := newTestServer(t, vector.NewMemoryClient())

	rec := do(t, h, http.MethodPost, "/texts", `{"texts": ["a", "b"], "ids": ["x"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var e ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Contains(t, e.Error, "invalid argument")

	rec = do(t, h, http.MethodPost, "/texts", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, 1, collector.Summary().Failures)
}

func TestQuery_MissingTextField(t *testing.T) {
	client := vector.NewMemoryClient()
	require.NoError(t, client.SetItems(context.Background(), []vector.Item{
		{ID: "x", Embedding: []float64{1, 1}, Metadata: map[string]any{"body": "a"}},
	}, "default"))

	h, _ := newTestServer(t, client)

	rec := do(t, h, http.MethodPost, "/query", `{"query": "a"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestTools(t *testing.T) {
	h, _ := newTestServer(t, vector.NewMemoryClient())

	rec := do(t, h, http.MethodGet, "/tools", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var infos []core.ToolSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	assert.Equal(t, []string{"add_texts", "get_matching_text", "index_url"}, names)

	rec = do(t, h, http.MethodPost, "/tools/add_texts", `{"texts": ["a"], "ids": ["x"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out ToolResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Indexed 1 texts: [x]", out.Result)

	rec = do(t, h, http.MethodPost, "/tools/missing", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/tools/add_texts", `{"texts": ["a", "b"], "ids": ["x"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/tools/get_matching_text", `{"query": 42}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNew_ToolsBoundToOwnStore(t *testing.T) {
	newServer := func(client vector.Client) http.Handler {
		store, err := chroma.New(chroma.Config{Client: client, Embedder: lengthEmbedder{}, TextField: "text"})
		require.NoError(t, err)
		srv, err := New(Config{Store: store})
		require.NoError(t, err)
		return srv.Handler()
	}

	clientA, clientB := vector.NewMemoryClient(), vector.NewMemoryClient()
	hA := newServer(clientA)
	newServer(clientB)

	rec := do(t, hA, http.MethodPost, "/tools/add_texts", `{"texts": ["a"], "ids": ["x"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, 1, clientA.Count(""))
	assert.Equal(t, 0, clientB.Count(""))
}

func TestMetricsSummaryAndCORS(t *testing.T) {
	h, _ := newTestServer(t, vector.NewMemoryClient())

	rec := do(t, h, http.MethodGet, "/metrics/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var s monitor.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Zero(t, s.Adds)

	rec = do(t, h, http.MethodOptions, "/texts", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
