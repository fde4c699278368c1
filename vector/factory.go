package vector

import (
	"fmt"
	"log"
	"strings"

	"github.com/hubenschmidt/go-chromastore/core"
)

// NewClient creates a client based on the DSN.
// - Empty DSN or "memory": in-memory client
// - postgres:// or postgresql://: PostgreSQL with pgvector
// - Any other scheme: core.ErrUnsupportedDSN
// - Anything else: SQLite at the specified path
func NewClient(dsn string, dimension int) (Client, error) {
	if dsn == "" || dsn == "memory" {
		log.Printf("[vector] Using in-memory client")
		return NewMemoryClient(), nil
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		c, err := NewPgVectorClient(dsn, dimension)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		log.Printf("[vector] Initialized pgvector client (dimension: %d)", dimension)
		return c, nil
	}

	if scheme, _, ok := strings.Cut(dsn, "://"); ok {
		return nil, fmt.Errorf("%w: scheme %q", core.ErrUnsupportedDSN, scheme)
	}

	c, err := NewSQLiteClient(dsn, dimension)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	log.Printf("[vector] Initialized sqlite client at %s", dsn)
	return c, nil
}
