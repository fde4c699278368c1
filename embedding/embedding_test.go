package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/hubenschmidt/go-chromastore/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIEmbedder_GetEmbeddings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req.Model)
		assert.Equal(t, []string{"a", "b"}, req.Input)

		// out of order on purpose
		w.Write([]byte(`{"data":[{"index":1,"embedding":[0,1]},{"index":0,"embedding":[1,0]}],"usage":{"prompt_tokens":2,"total_tokens":2}}`))
	}))
	defer srv.Close()

	e := NewOpenAIEmbedderWithConfig(ClientConfig{OpenAIKey: "sk-test", Model: "text-embedding-3-small", BaseURL: srv.URL})

	got, err := e.GetEmbeddings(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, got)
}

func TestOpenAIEmbedder_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	e := NewOpenAIEmbedderWithConfig(ClientConfig{OpenAIKey: "k", Model: "m", BaseURL: srv.URL})

	_, err := e.GetEmbedding(context.Background(), "a")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "OpenAI", apiErr.Provider)
}

func TestOpenAIEmbedder_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	e := NewOpenAIEmbedderWithConfig(ClientConfig{OpenAIKey: "k", Model: "m", BaseURL: srv.URL})

	_, err := e.GetEmbedding(context.Background(), "a")
	assert.Error(t, err)
}

func TestOllamaEmbedder_GetEmbeddings(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/embed", r.URL.Path)

		var req struct {
			Model string `json:"model"`
			Input string `json:"input"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)

		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float64{{float64(len(req.Input)), 1}},
		})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL+"/v1/", "nomic-embed-text")

	got, err := e.GetEmbeddings(context.Background(), []string{"a", "bcd"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 1}, {3, 1}}, got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOllamaEmbedder_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embeddings":[]}`))
	}))
	defer srv.Close()

	_, err := NewOllamaEmbedder(srv.URL, "m").GetEmbedding(context.Background(), "a")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ClientConfig
		want    any
		wantErr error
	}{
		{"openai key", ClientConfig{Model: "text-embedding-3-small", OpenAIKey: "k"}, &OpenAIEmbedder{}, nil},
		{"ollama prefix", ClientConfig{Model: "ollama/nomic-embed-text", OpenAIKey: "k", OllamaURL: "http://localhost:11434"}, &OllamaEmbedder{}, nil},
		{"ollama fallback", ClientConfig{Model: "nomic-embed-text", OllamaURL: "http://localhost:11434"}, &OllamaEmbedder{}, nil},
		{"ollama prefix without url", ClientConfig{Model: "ollama/x", OpenAIKey: "k"}, nil, core.ErrNoEmbedder},
		{"nothing configured", ClientConfig{Model: "text-embedding-3-small"}, nil, core.ErrNoEmbedder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, e)
		})
	}

	e, err := New(ClientConfig{Model: "ollama/nomic-embed-text", OllamaURL: "http://localhost:11434/v1"})
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", e.(*OllamaEmbedder).model)
	assert.Equal(t, "http://localhost:11434", e.(*OllamaEmbedder).baseURL)
}
