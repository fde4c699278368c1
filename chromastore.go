// Package chromastore is a vector store that embeds text with a hosted or local model and
// keeps the vectors in an embedding database.
//
// Example usage:
//
//	cfg, _ := config.Load("")
//	store, client, err := chromastore.Open(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	ids, err := store.AddTexts(ctx, []string{"Go is expressive", "Go is concise"},
//	    chromastore.WithNamespace("notes"))
//	docs, err := store.GetMatchingText(ctx, "what is Go like?", 5,
//	    chromastore.WithNamespace("notes"))
package chromastore

import (
	"fmt"

	"github.com/hubenschmidt/go-chromastore/chroma"
	"github.com/hubenschmidt/go-chromastore/config"
	"github.com/hubenschmidt/go-chromastore/embedding"
	"github.com/hubenschmidt/go-chromastore/monitor"
	"github.com/hubenschmidt/go-chromastore/server"
	"github.com/hubenschmidt/go-chromastore/tools"
	"github.com/hubenschmidt/go-chromastore/vector"
)

// Store aliases
type (
	VectorStore = chroma.VectorStore
	Store       = chroma.Store
	StoreConfig = chroma.Config
	Document    = chroma.Document
	Option      = chroma.Option
)

// NewStore creates a vector store adapter over a client and embedder.
func NewStore(cfg StoreConfig) (*Store, error) {
	return chroma.New(cfg)
}

var (
	WithNamespace = chroma.WithNamespace
	WithIDs       = chroma.WithIDs
	WithMetadatas = chroma.WithMetadatas
	WithBatchSize = chroma.WithBatchSize
)

// Client aliases
type (
	Client      = vector.Client
	Item        = vector.Item
	QueryResult = vector.QueryResult
)

// NewClient picks a client by DSN: memory, postgres:// or a SQLite path.
func NewClient(dsn string, dimension int) (Client, error) {
	return vector.NewClient(dsn, dimension)
}

// NewMemoryClient creates a new in-memory client.
func NewMemoryClient() *vector.MemoryClient {
	return vector.NewMemoryClient()
}

// NewPgVectorClient creates a new pgvector-based client.
func NewPgVectorClient(dsn string, dimension int) (*vector.PgVectorClient, error) {
	return vector.NewPgVectorClient(dsn, dimension)
}

// NewSQLiteClient creates a new SQLite-based client.
func NewSQLiteClient(path string, dimension int) (*vector.SQLiteClient, error) {
	return vector.NewSQLiteClient(path, dimension)
}

// Embedding aliases
type (
	Embedder       = embedding.Embedder
	BatchEmbedder  = embedding.BatchEmbedder
	EmbedderConfig = embedding.ClientConfig
)

// NewEmbedder picks an embedding provider for the configured model.
func NewEmbedder(cfg EmbedderConfig) (BatchEmbedder, error) {
	return embedding.New(cfg)
}

// Tool aliases
type (
	Tool         = tools.Tool
	ToolRegistry = tools.Registry
)

// Server aliases
type (
	Server       = server.Server
	ServerConfig = server.Config
)

// NewServer creates a new API server.
func NewServer(cfg ServerConfig) (*Server, error) {
	return server.New(cfg)
}

// Monitor aliases
type (
	MetricsCollector  = monitor.Collector
	InMemoryCollector = monitor.InMemoryCollector
)

// Open wires a Store from cfg: the client chosen by the DSN and the embedder chosen by the
// model. The caller closes the returned client.
func Open(cfg *config.Config) (*Store, Client, error) {
	embedder, err := embedding.New(embedding.ClientConfig{
		Model:     cfg.EmbedModel,
		OpenAIKey: cfg.OpenAIKey,
		BaseURL:   cfg.OpenAIURL,
		OllamaURL: cfg.OllamaURL,
		Timeout:   cfg.Timeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("embedder: %w", err)
	}

	client, err := vector.NewClient(cfg.DatabaseDSN, cfg.Dimension)
	if err != nil {
		return nil, nil, fmt.Errorf("vector client: %w", err)
	}

	store, err := chroma.New(chroma.Config{
		Client:    client,
		Embedder:  embedder,
		TextField: cfg.TextField,
		Namespace: cfg.Namespace,
	})
	if err != nil {
		client.Close()
		return nil, nil, err
	}

	return store, client, nil
}
