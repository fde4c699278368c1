// Package vector provides namespaced embedding storage and similarity search.
package vector

import (
	"context"
	"errors"
)

// ErrDimensionMismatch is returned when an embedding does not match the client's dimension.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Item is a single record written to a Client.
type Item struct {
	ID        string         `json:"id"`
	Embedding []float64      `json:"embedding"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// QueryResult is a record returned by a similarity search.
type QueryResult struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"` // cosine similarity
	Metadata map[string]any `json:"metadata"`
}

// Client is an embedding database partitioned into namespaces.
type Client interface {
	// SetItems stores items in the namespace, replacing existing ones by ID.
	SetItems(ctx context.Context, items []Item, namespace string) error

	// QueryByEmbedding returns up to topK items in the namespace ordered by similarity.
	QueryByEmbedding(ctx context.Context, embedding []float64, topK int, namespace string) ([]QueryResult, error)

	// Close releases resources.
	Close() error
}
