package server

import (
	"github.com/hubenschmidt/go-chromastore/chroma"
)

type AddTextsRequest struct {
	Texts     []string         `json:"texts"`
	Metadatas []map[string]any `json:"metadatas,omitempty"`
	IDs       []string         `json:"ids,omitempty"`
	Namespace *string          `json:"namespace,omitempty"`
	BatchSize int              `json:"batch_size,omitempty"`
}

type AddTextsResponse struct {
	IDs []string `json:"ids"`
}

type QueryRequest struct {
	Query     string  `json:"query"`
	TopK      int     `json:"top_k,omitempty"`
	Namespace *string `json:"namespace,omitempty"`
}

type QueryResponse struct {
	Documents []chroma.Document `json:"documents"`
}

type ToolResponse struct {
	Result string `json:"result"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
