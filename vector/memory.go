package vector

import (
	"context"
	"maps"
	"sync"
)

// MemoryClient is an in-memory Client for development and testing.
type MemoryClient struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]Item
}

// NewMemoryClient creates a new in-memory client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		namespaces: make(map[string]map[string]Item),
	}
}

// SetItems stores items, updating existing ones by ID.
func (c *MemoryClient) SetItems(ctx context.Context, items []Item, namespace string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ns, ok := c.namespaces[namespace]
	if !ok {
		ns = make(map[string]Item)
		c.namespaces[namespace] = ns
	}

	for _, item := range items {
		item.Embedding = append([]float64(nil), item.Embedding...)
		item.Metadata = maps.Clone(item.Metadata)
		ns[item.ID] = item
	}
	return nil
}

// QueryByEmbedding ranks the namespace by brute-force cosine similarity.
func (c *MemoryClient) QueryByEmbedding(ctx context.Context, embedding []float64, topK int, namespace string) ([]QueryResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	results := rank(c.namespaces[namespace], embedding)
	return truncate(results, topK), nil
}

// Delete removes items by ID from the namespace.
func (c *MemoryClient) Delete(ctx context.Context, ids []string, namespace string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ns := c.namespaces[namespace]
	for _, id := range ids {
		delete(ns, id)
	}
	return nil
}

// Close is a no-op for the in-memory client.
func (c *MemoryClient) Close() error {
	return nil
}

// Count returns the number of items in the namespace.
func (c *MemoryClient) Count(namespace string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.namespaces[namespace])
}
