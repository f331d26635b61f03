package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	s := NewSnapshot(filepath.Join(t.TempDir(), "catalog.json.gz"))
	require.True(t, s.Enabled())

	require.NoError(t, s.Write([]byte(sampleBody)))

	products, at, ok := s.Load()
	require.True(t, ok)
	assert.False(t, at.IsZero())
	require.Len(t, products, 2)
	assert.Equal(t, "Red Shoe", products[0].Title)
}

func TestSnapshot_WriteReplaces(t *testing.T) {
	s := NewSnapshot(filepath.Join(t.TempDir(), "catalog.json.gz"))

	require.NoError(t, s.Write([]byte(`[{"id": 1, "title": "Old"}]`)))
	require.NoError(t, s.Write([]byte(`[{"id": 2, "title": "New"}]`)))

	products, _, ok := s.Load()
	require.True(t, ok)
	require.Len(t, products, 1)
	assert.Equal(t, "New", products[0].Title)
}

func TestSnapshot_MissingFile(t *testing.T) {
	s := NewSnapshot(filepath.Join(t.TempDir(), "absent.gz"))
	_, _, ok := s.Load()
	assert.False(t, ok)
}

func TestSnapshot_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0o644))

	_, _, ok := NewSnapshot(path).Load()
	assert.False(t, ok)
}

func TestSnapshot_Disabled(t *testing.T) {
	s := NewSnapshot("")
	assert.False(t, s.Enabled())
	assert.NoError(t, s.Write([]byte("ignored")))
	_, _, ok := s.Load()
	assert.False(t, ok)
}
