package vector

import (
	"path/filepath"
	"testing"

	"github.com/hubenschmidt/go-chromastore/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	c, err := NewClient("", 0)
	require.NoError(t, err)
	assert.IsType(t, &MemoryClient{}, c)

	c, err = NewClient("memory", 0)
	require.NoError(t, err)
	assert.IsType(t, &MemoryClient{}, c)

	c, err = NewClient(filepath.Join(t.TempDir(), "items.db"), 4)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteClient{}, c)
	require.NoError(t, c.Close())

	_, err = NewClient("mysql://localhost/db", 4)
	assert.ErrorIs(t, err, core.ErrUnsupportedDSN)
}
