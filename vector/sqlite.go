package vector

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hubenschmidt/go-chromastore/vector/migrations"
	_ "modernc.org/sqlite"
)

// SQLiteClient stores items in SQLite and ranks them in process.
type SQLiteClient struct {
	db        *sql.DB
	dimension int
}

// NewSQLiteClient opens (creating if needed) a SQLite database at path.
// A dimension of 0 accepts embeddings of any length.
func NewSQLiteClient(path string, dimension int) (*SQLiteClient, error) {
	if path == "" {
		path = "data/chromastore.db"
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := runSQLiteMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteClient{db: db, dimension: dimension}, nil
}

func runSQLiteMigrations(db *sql.DB) error {
	data, err := migrations.SQLite.ReadFile("sqlite/001_init.sql")
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	_, err = db.Exec(string(data))
	if err != nil {
		return fmt.Errorf("exec migration: %w", err)
	}
	return nil
}

// SetItems upserts all items in a single transaction.
func (c *SQLiteClient) SetItems(ctx context.Context, items []Item, namespace string) error {
	if len(items) == 0 {
		return nil
	}
	if c.dimension > 0 {
		for _, item := range items {
			if len(item.Embedding) != c.dimension {
				return fmt.Errorf("item %s: %w: expected %d, got %d", item.ID, ErrDimensionMismatch, c.dimension, len(item.Embedding))
			}
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
			INSERT OR REPLACE INTO chroma_items (namespace, id, embedding, metadata)
			VALUES (?, ?, ?, ?)`,
			namespace, item.ID, encodeEmbedding(item.Embedding), string(metadata))
		if err != nil {
			return fmt.Errorf("upsert item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// QueryByEmbedding loads the namespace and ranks it by cosine similarity.
func (c *SQLiteClient) QueryByEmbedding(ctx context.Context, embedding []float64, topK int, namespace string) ([]QueryResult, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, embedding, metadata
		FROM chroma_items WHERE namespace = ?`, namespace)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := make(map[string]Item)
	for rows.Next() {
		var item Item
		var blob []byte
		var metadata string
		if err := rows.Scan(&item.ID, &blob, &metadata); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if item.Embedding, err = decodeEmbedding(blob); err != nil {
			return nil, fmt.Errorf("item %s: %w", item.ID, err)
		}
		if item.Metadata, err = unmarshalMetadata([]byte(metadata)); err != nil {
			return nil, fmt.Errorf("item %s: %w", item.ID, err)
		}
		items[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return truncate(rank(items, embedding), topK), nil
}

// Delete removes items by ID from the namespace.
func (c *SQLiteClient) Delete(ctx context.Context, ids []string, namespace string) error {
	for _, id := range ids {
		_, err := c.db.ExecContext(ctx, `DELETE FROM chroma_items WHERE namespace = ? AND id = ?`, namespace, id)
		if err != nil {
			return fmt.Errorf("delete item %s: %w", id, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}
