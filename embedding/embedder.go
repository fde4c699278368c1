// Package embedding turns text into vectors through hosted or local embedding models.
package embedding

import (
	"context"
	"fmt"
)

// Embedder produces an embedding vector for a single text.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float64, error)
}

// BatchEmbedder can also embed several texts in one request.
type BatchEmbedder interface {
	Embedder
	GetEmbeddings(ctx context.Context, texts []string) ([][]float64, error)
}

// ClientConfig configures an embedding provider.
type ClientConfig struct {
	Model     string
	OpenAIKey string
	BaseURL   string // Optional: overrides the OpenAI API base URL
	OllamaURL string
	Timeout   int // seconds
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Model:   "text-embedding-3-small",
		Timeout: 60,
	}
}

// APIError is returned when a provider answers with a non-200 status.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}
