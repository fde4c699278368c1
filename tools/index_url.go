package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hubenschmidt/go-chromastore/chroma"
	"github.com/hubenschmidt/go-chromastore/core"
)

const defaultChunkSize = 1000

// IndexURLTool fetches a page and adds its text to the vector store in chunks.
type IndexURLTool struct {
	store     chroma.VectorStore
	chunkSize int
}

type indexURLArgs struct {
	URL       string  `json:"url"`
	Timeout   int     `json:"timeout,omitempty"`
	Namespace *string `json:"namespace,omitempty"`
}

func NewIndexURLTool(store chroma.VectorStore) *IndexURLTool {
	return &IndexURLTool{
		store:     store,
		chunkSize: defaultChunkSize,
	}
}

func (t *IndexURLTool) Name() string {
	return "index_url"
}

func (t *IndexURLTool) Description() string {
	return "Fetches content from a URL and adds it to the knowledge base"
}

func (t *IndexURLTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"url": {
				"type": "string",
				"description": "The URL to fetch"
			},
			"timeout": {
				"type": "integer",
				"description": "Timeout in seconds (default: 30)"
			},
			"namespace": {
				"type": "string",
				"description": "Optional namespace to store the content in"
			}
		},
		"required": ["url"]
	}`)
}

func (t *IndexURLTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var params indexURLArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return "", fmt.Errorf("%w: parse args: %v", core.ErrInvalidArgument, err)
	}

	timeout := 30 * time.Second
	if params.Timeout > 0 {
		timeout = time.Duration(params.Timeout) * time.Second
	}

	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, params.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	chunks := chunkText(string(body), t.chunkSize)
	if len(chunks) == 0 {
		return fmt.Sprintf("No content found at %s.", params.URL), nil
	}

	metadatas := make([]map[string]any, len(chunks))
	for i := range chunks {
		metadatas[i] = map[string]any{"source": params.URL, "chunk": i}
	}

	opts := []chroma.Option{chroma.WithMetadatas(metadatas)}
	if params.Namespace != nil {
		opts = append(opts, chroma.WithNamespace(*params.Namespace))
	}

	if _, err := t.store.AddTexts(ctx, chunks, opts...); err != nil {
		return "", fmt.Errorf("add texts: %w", err)
	}

	return fmt.Sprintf("Indexed %d chunks from %s.", len(chunks), params.URL), nil
}

// runeCut returns the largest rune boundary in s at or before n, but at least one rune.
func runeCut(s string, n int) int {
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		_, cut = utf8.DecodeRuneInString(s)
	}
	return cut
}

// chunkText packs blank-line separated paragraphs into chunks of at most size bytes.
// A paragraph longer than size is split on its own.
func chunkText(text string, size int) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		for len(para) > size {
			flush()
			cut := runeCut(para, size)
			chunks = append(chunks, para[:cut])
			para = para[cut:]
		}

		if current.Len() > 0 && current.Len()+2+len(para) > size {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()

	return chunks
}
