package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OllamaEmbedder handles Ollama's native embedding API.
type OllamaEmbedder struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaEmbedder creates an embedder for Ollama's native embedding API.
func NewOllamaEmbedder(baseURL, model string) *OllamaEmbedder {
	host := strings.TrimSuffix(baseURL, "/")
	// Handle both /v1 suffix and bare host
	host = strings.TrimSuffix(host, "/v1")
	return &OllamaEmbedder{
		baseURL: host,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// GetEmbedding generates an embedding for a single input.
func (e *OllamaEmbedder) GetEmbedding(ctx context.Context, text string) ([]float64, error) {
	results, err := e.GetEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return results[0], nil
}

// GetEmbeddings generates embeddings for multiple inputs.
func (e *OllamaEmbedder) GetEmbeddings(ctx context.Context, texts []string) ([][]float64, error) {
	results := make([][]float64, 0, len(texts))

	// Ollama's /api/embed endpoint processes one input at a time
	for _, text := range texts {
		embedding, err := e.embedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		results = append(results, embedding)
	}

	return results, nil
}

func (e *OllamaEmbedder) embedOne(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(map[string]any{
		"model": e.model,
		"input": text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &APIError{Provider: "Ollama", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings in response")
	}
	return result.Embeddings[0], nil
}

type ollamaEmbedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}
