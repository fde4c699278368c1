package vector

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteClient(t *testing.T, dimension int) *SQLiteClient {
	t.Helper()
	c, err := NewSQLiteClient(filepath.Join(t.TempDir(), "data", "items.db"), dimension)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSQLiteClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLiteClient(t, 2)

	err := c.SetItems(ctx, []Item{
		{ID: "x", Embedding: []float64{1, 0}, Metadata: map[string]any{"text": "a", "source": "wiki"}},
		{ID: "y", Embedding: []float64{0, 1}, Metadata: map[string]any{"text": "b"}},
	}, "ns")
	require.NoError(t, err)

	results, err := c.QueryByEmbedding(ctx, []float64{0.1, 1}, 1, "ns")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "y", results[0].ID)
	assert.Equal(t, "b", results[0].Metadata["text"])

	results, err = c.QueryByEmbedding(ctx, []float64{1, 0}, 0, "ns")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "x", results[0].ID)
	assert.Equal(t, "wiki", results[0].Metadata["source"])
}

func TestSQLiteClient_NamespacesAndUpsert(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLiteClient(t, 0)

	require.NoError(t, c.SetItems(ctx, []Item{{ID: "x", Embedding: []float64{1}, Metadata: map[string]any{"text": "old"}}}, "one"))
	require.NoError(t, c.SetItems(ctx, []Item{{ID: "x", Embedding: []float64{1}, Metadata: map[string]any{"text": "new"}}}, "one"))
	require.NoError(t, c.SetItems(ctx, []Item{{ID: "x", Embedding: []float64{1}, Metadata: map[string]any{"text": "other"}}}, "two"))

	results, err := c.QueryByEmbedding(ctx, []float64{1}, 10, "one")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new", results[0].Metadata["text"])

	require.NoError(t, c.Delete(ctx, []string{"x"}, "one"))
	results, err = c.QueryByEmbedding(ctx, []float64{1}, 10, "one")
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = c.QueryByEmbedding(ctx, []float64{1}, 10, "two")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "other", results[0].Metadata["text"])
}

func TestSQLiteClient_DimensionMismatch(t *testing.T) {
	c := newTestSQLiteClient(t, 3)

	err := c.SetItems(context.Background(), []Item{{ID: "x", Embedding: []float64{1}}}, "")
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
