package chromastore

import (
	"path/filepath"
	"testing"

	"github.com/hubenschmidt/go-chromastore/config"
	"github.com/hubenschmidt/go-chromastore/core"
	"github.com/hubenschmidt/go-chromastore/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	cfg := &config.Config{
		DatabaseDSN: "memory",
		EmbedModel:  "ollama/nomic-embed-text",
		OllamaURL:   "http://localhost:11434",
		TextField:   "text",
		Namespace:   "docs",
	}

	store, client, err := Open(cfg)
	require.NoError(t, err)
	defer client.Close()

	assert.IsType(t, &vector.MemoryClient{}, client)
	assert.Equal(t, "text", store.TextField())
	assert.Equal(t, "docs", store.Namespace())
}

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{
		DatabaseDSN: filepath.Join(t.TempDir(), "items.db"),
		Dimension:   768,
		EmbedModel:  "text-embedding-3-small",
		OpenAIKey:   "sk-test",
		TextField:   "text",
	}

	_, client, err := Open(cfg)
	require.NoError(t, err)
	defer client.Close()
	assert.IsType(t, &vector.SQLiteClient{}, client)
}

func TestOpen_Errors(t *testing.T) {
	_, _, err := Open(&config.Config{EmbedModel: "text-embedding-3-small", TextField: "text"})
	assert.ErrorIs(t, err, core.ErrNoEmbedder)

	_, _, err = Open(&config.Config{DatabaseDSN: "memory", OpenAIKey: "k", EmbedModel: "m"})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, _, err = Open(&config.Config{DatabaseDSN: "redis://localhost", OpenAIKey: "k", EmbedModel: "m", TextField: "text"})
	assert.ErrorIs(t, err, core.ErrUnsupportedDSN)
}
