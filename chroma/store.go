// Package chroma backs a generic vector store interface with an embedding database client.
//
// Store assigns ids, folds the source text into each record's metadata and forwards
// everything else to its collaborators: an embedding.Embedder turns text into vectors and a
// vector.Client persists and searches them.
//
//	store, err := chroma.New(chroma.Config{
//	    Client:    vector.NewMemoryClient(),
//	    Embedder:  embedder,
//	    TextField: "text",
//	})
//	ids, err := store.AddTexts(ctx, []string{"a", "b"}, chroma.WithNamespace("docs"))
//	docs, err := store.GetMatchingText(ctx, "query", 5, chroma.WithNamespace("docs"))
package chroma

import (
	"context"
	"fmt"
	"maps"

	"github.com/google/uuid"
	"github.com/hubenschmidt/go-chromastore/core"
	"github.com/hubenschmidt/go-chromastore/embedding"
	"github.com/hubenschmidt/go-chromastore/vector"
)

// Document is a stored text and its metadata.
type Document struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// VectorStore adds texts and retrieves the ones most similar to a query.
type VectorStore interface {
	// AddTexts embeds and stores texts, returning the id assigned to each.
	AddTexts(ctx context.Context, texts []string, opts ...Option) ([]string, error)

	// GetMatchingText returns up to topK documents most similar to query.
	GetMatchingText(ctx context.Context, query string, topK int, opts ...Option) ([]Document, error)
}

// Config configures a new Store.
type Config struct {
	Client    vector.Client
	Embedder  embedding.Embedder
	TextField string // metadata key holding the source text
	Namespace string // default namespace, may be empty
}

// Store implements VectorStore on top of a vector.Client.
type Store struct {
	client    vector.Client
	embedder  embedding.Embedder
	textField string
	namespace string
}

var _ VectorStore = (*Store)(nil)

// New creates a Store. Client, Embedder and TextField are required.
func New(cfg Config) (*Store, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("%w: client is required", core.ErrInvalidConfig)
	}
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", core.ErrInvalidConfig)
	}
	if cfg.TextField == "" {
		return nil, fmt.Errorf("%w: text field is required", core.ErrInvalidConfig)
	}

	return &Store{
		client:    cfg.Client,
		embedder:  cfg.Embedder,
		textField: cfg.TextField,
		namespace: cfg.Namespace,
	}, nil
}

// TextField returns the metadata key that holds each record's source text.
func (s *Store) TextField() string {
	return s.textField
}

// Namespace returns the default namespace.
func (s *Store) Namespace() string {
	return s.namespace
}

func (s *Store) resolveNamespace(o callOptions) string {
	if o.namespace != nil {
		return *o.namespace
	}
	return s.namespace
}

// AddTexts embeds each text once and writes all records with a single SetItems call.
//
// Without WithIDs a random UUID is generated per text. Supplying fewer ids than texts fails
// with core.ErrInvalidArgument before anything is embedded; surplus ids are ignored and not
// returned. Errors from the embedder or client are returned as they are.
func (s *Store) AddTexts(ctx context.Context, texts []string, opts ...Option) ([]string, error) {
	o := resolveOptions(opts)
	namespace := s.resolveNamespace(o)

	ids := o.ids
	if len(ids) == 0 {
		ids = make([]string, len(texts))
		for i := range texts {
			ids[i] = uuid.NewString()
		}
	}
	if len(ids) < len(texts) {
		err := core.NewStoreError("add_texts", namespace,
			fmt.Errorf("%w: number of ids (%d) must match number of texts (%d)", core.ErrInvalidArgument, len(ids), len(texts)))
		return nil, core.WithContext(err, "texts", len(texts))
	}
	ids = ids[:len(texts)]

	if len(texts) == 0 {
		return []string{}, nil
	}

	embeddings, err := s.embed(ctx, texts, o.batchSize)
	if err != nil {
		return nil, err
	}

	items := make([]vector.Item, len(texts))
	for i, text := range texts {
		var metadata map[string]any
		if i < len(o.metadatas) {
			metadata = maps.Clone(o.metadatas[i])
		}
		if metadata == nil {
			metadata = make(map[string]any, 1)
		}
		metadata[s.textField] = text

		items[i] = vector.Item{
			ID:        ids[i],
			Embedding: embeddings[i],
			Metadata:  metadata,
		}
	}

	if err := s.client.SetItems(ctx, items, namespace); err != nil {
		return nil, err
	}

	return append([]string(nil), ids...), nil
}

// embed returns one vector per text. Batch-capable embedders receive texts in chunks of
// batchSize; others are called once per text.
func (s *Store) embed(ctx context.Context, texts []string, batchSize int) ([][]float64, error) {
	embeddings := make([][]float64, 0, len(texts))

	batcher, ok := s.embedder.(embedding.BatchEmbedder)
	if !ok {
		for _, text := range texts {
			vec, err := s.embedder.GetEmbedding(ctx, text)
			if err != nil {
				return nil, err
			}
			embeddings = append(embeddings, vec)
		}
		return embeddings, nil
	}

	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		vecs, err := batcher.GetEmbeddings(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(vecs) != end-start {
			return nil, fmt.Errorf("embedder returned %d embeddings for %d texts", len(vecs), end-start)
		}
		embeddings = append(embeddings, vecs...)
	}
	return embeddings, nil
}

// GetMatchingText embeds query and returns the client's nearest records as documents.
//
// A result whose metadata lacks the text field fails the whole call with
// core.ErrMissingTextField.
func (s *Store) GetMatchingText(ctx context.Context, query string, topK int, opts ...Option) ([]Document, error) {
	o := resolveOptions(opts)
	namespace := s.resolveNamespace(o)
	if topK <= 0 {
		topK = DefaultTopK
	}

	vec, err := s.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := s.client.QueryByEmbedding(ctx, vec, topK, namespace)
	if err != nil {
		return nil, err
	}

	documents := make([]Document, 0, len(results))
	for _, r := range results {
		value, ok := r.Metadata[s.textField]
		if !ok {
			err := core.NewStoreError("get_matching_text", namespace,
				fmt.Errorf("%w: key %q in result %s", core.ErrMissingTextField, s.textField, r.ID))
			return nil, core.WithContext(err, "id", r.ID)
		}

		text, ok := value.(string)
		if !ok {
			text = fmt.Sprint(value)
		}
		documents = append(documents, Document{
			Content:  text,
			Metadata: r.Metadata,
		})
	}

	return documents, nil
}
