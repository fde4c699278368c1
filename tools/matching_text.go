package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hubenschmidt/go-chromastore/chroma"
	"github.com/hubenschmidt/go-chromastore/core"
)

// MatchingTextTool searches the vector store for texts similar to a query.
type MatchingTextTool struct {
	store chroma.VectorStore
}

// NewMatchingTextTool creates a new matching text tool.
func NewMatchingTextTool(store chroma.VectorStore) *MatchingTextTool {
	return &MatchingTextTool{store: store}
}

func (t *MatchingTextTool) Name() string {
	return "get_matching_text"
}

func (t *MatchingTextTool) Description() string {
	return "Search for texts similar to a query using semantic similarity. Returns the most relevant passages."
}

func (t *MatchingTextTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {
				"type": "string",
				"description": "The search query to find similar texts"
			},
			"top_k": {
				"type": "integer",
				"description": "Maximum number of results to return (default: 5)"
			},
			"namespace": {
				"type": "string",
				"description": "Optional namespace to search in"
			}
		},
		"required": ["query"]
	}`)
}

func (t *MatchingTextTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var req struct {
		Query     string  `json:"query"`
		TopK      int     `json:"top_k"`
		Namespace *string `json:"namespace"`
	}
	if err := json.Unmarshal(args, &req); err != nil {
		return "", fmt.Errorf("%w: parse args: %v", core.ErrInvalidArgument, err)
	}

	var opts []chroma.Option
	if req.Namespace != nil {
		opts = append(opts, chroma.WithNamespace(*req.Namespace))
	}

	docs, err := t.store.GetMatchingText(ctx, req.Query, req.TopK, opts...)
	if err != nil {
		return "", fmt.Errorf("get matching text: %w", err)
	}

	if len(docs) == 0 {
		return "No similar texts found.", nil
	}

	return formatDocuments(docs), nil
}

func formatDocuments(docs []chroma.Document) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d relevant texts:\n\n", len(docs)))

	for i, d := range docs {
		sb.WriteString(fmt.Sprintf("--- Text %d ---\n", i+1))
		sb.WriteString(d.Content)
		sb.WriteString("\n\n")
	}

	return sb.String()
}
