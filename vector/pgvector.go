package vector

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hubenschmidt/go-chromastore/vector/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PgVectorClient is a PostgreSQL-based client using pgvector.
type PgVectorClient struct {
	db        *sql.DB
	dimension int
}

// NewPgVectorClient opens a pgvector-backed client and applies its migration.
// The dimension parameter specifies the embedding dimension (e.g., 1536 for OpenAI).
func NewPgVectorClient(dsn string, dimension int) (*PgVectorClient, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("pgvector requires a positive dimension, got %d", dimension)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	client := NewPgVectorClientFromDB(db, dimension)
	if err := client.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return client, nil
}

// NewPgVectorClientFromDB wraps an existing connection. No migration is run.
func NewPgVectorClientFromDB(db *sql.DB, dimension int) *PgVectorClient {
	return &PgVectorClient{db: db, dimension: dimension}
}

// Migrate creates the items table and its HNSW index.
func (c *PgVectorClient) Migrate(ctx context.Context) error {
	data, err := migrations.Postgres.ReadFile("postgres/001_init.sql")
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	ddl := strings.ReplaceAll(string(data), "{{dimension}}", strconv.Itoa(c.dimension))
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("exec migration: %w", err)
	}
	return nil
}

// SetItems upserts all items in a single transaction.
func (c *PgVectorClient) SetItems(ctx context.Context, items []Item, namespace string) error {
	if len(items) == 0 {
		return nil
	}
	for _, item := range items {
		if len(item.Embedding) != c.dimension {
			return fmt.Errorf("item %s: %w: expected %d, got %d", item.ID, ErrDimensionMismatch, c.dimension, len(item.Embedding))
		}
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		metadata, err := marshalMetadata(item.Metadata)
		if err != nil {
			return fmt.Errorf("item %s: %w", item.ID, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO chroma_items (namespace, id, embedding, metadata)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (namespace, id) DO UPDATE SET
				embedding = EXCLUDED.embedding,
				metadata = EXCLUDED.metadata`,
			namespace, item.ID, formatEmbedding(item.Embedding), metadata)
		if err != nil {
			return fmt.Errorf("upsert item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// QueryByEmbedding orders the namespace by cosine distance.
func (c *PgVectorClient) QueryByEmbedding(ctx context.Context, embedding []float64, topK int, namespace string) ([]QueryResult, error) {
	var limit any
	if topK > 0 {
		limit = topK
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, metadata, 1 - (embedding <=> $1) AS score
		FROM chroma_items
		WHERE namespace = $2
		ORDER BY embedding <=> $1
		LIMIT $3`,
		formatEmbedding(embedding), namespace, limit)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var r QueryResult
		var metadata []byte
		if err := rows.Scan(&r.ID, &metadata, &r.Score); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if r.Metadata, err = unmarshalMetadata(metadata); err != nil {
			return nil, fmt.Errorf("item %s: %w", r.ID, err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// Delete removes items by ID from the namespace.
func (c *PgVectorClient) Delete(ctx context.Context, ids []string, namespace string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, namespace)
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	query := fmt.Sprintf("DELETE FROM chroma_items WHERE namespace = $1 AND id IN (%s)", strings.Join(placeholders, ","))
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (c *PgVectorClient) Close() error {
	return c.db.Close()
}

func marshalMetadata(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return data, nil
}

func unmarshalMetadata(data []byte) (map[string]any, error) {
	m := make(map[string]any)
	if len(data) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return m, nil
}
