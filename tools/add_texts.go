package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hubenschmidt/go-chromastore/chroma"
	"github.com/hubenschmidt/go-chromastore/core"
)

// AddTextsTool adds texts to the vector store.
type AddTextsTool struct {
	store chroma.VectorStore
}

// NewAddTextsTool creates a new add texts tool.
func NewAddTextsTool(store chroma.VectorStore) *AddTextsTool {
	return &AddTextsTool{store: store}
}

func (t *AddTextsTool) Name() string {
	return "add_texts"
}

func (t *AddTextsTool) Description() string {
	return "Add texts to the knowledge base for future similarity searches."
}

func (t *AddTextsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"texts": {
				"type": "array",
				"items": {"type": "string"},
				"description": "The texts to index"
			},
			"metadatas": {
				"type": "array",
				"items": {"type": "object"},
				"description": "Optional metadata per text, matched by position"
			},
			"ids": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Optional identifiers, one per text"
			},
			"namespace": {
				"type": "string",
				"description": "Optional namespace to store the texts in"
			}
		},
		"required": ["texts"]
	}`)
}

func (t *AddTextsTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var req struct {
		Texts     []string         `json:"texts"`
		Metadatas []map[string]any `json:"metadatas"`
		IDs       []string         `json:"ids"`
		Namespace *string          `json:"namespace"`
	}
	if err := json.Unmarshal(args, &req); err != nil {
		return "", fmt.Errorf("%w: parse args: %v", core.ErrInvalidArgument, err)
	}

	opts := []chroma.Option{chroma.WithMetadatas(req.Metadatas)}
	if len(req.IDs) > 0 {
		opts = append(opts, chroma.WithIDs(req.IDs...))
	}
	if req.Namespace != nil {
		opts = append(opts, chroma.WithNamespace(*req.Namespace))
	}

	ids, err := t.store.AddTexts(ctx, req.Texts, opts...)
	if err != nil {
		return "", fmt.Errorf("add texts: %w", err)
	}

	return fmt.Sprintf("Indexed %d texts: %v", len(ids), ids), nil
}
