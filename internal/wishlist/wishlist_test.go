package wishlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	saved  [][]int64
	loaded []int64
}

func (m *mockRepo) Load(_ context.Context) ([]int64, error) { return m.loaded, nil }

func (m *mockRepo) Save(_ context.Context, ids []int64) error {
	m.saved = append(m.saved, ids)
	return nil
}

func TestToggle_AddsThenRemoves(t *testing.T) {
	repo := &mockRepo{}
	s := NewStore(repo)
	ctx := context.Background()

	added, err := s.Toggle(ctx, 7)
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, s.Contains(7))
	assert.Equal(t, 1, s.Count())

	added, err = s.Toggle(ctx, 7)
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, s.Contains(7))
	assert.Equal(t, 0, s.Count())

	// Every toggle persisted the full set.
	require.Len(t, repo.saved, 2)
	assert.Equal(t, []int64{7}, repo.saved[0])
	assert.Empty(t, repo.saved[1])
}

func TestIDs_Sorted(t *testing.T) {
	s := NewStore(&mockRepo{})
	ctx := context.Background()

	for _, id := range []int64{9, 3, 5} {
		_, err := s.Toggle(ctx, id)
		require.NoError(t, err)
	}

	assert.Equal(t, []int64{3, 5, 9}, s.IDs())
}

func TestLoad(t *testing.T) {
	s := NewStore(&mockRepo{loaded: []int64{2, 4}})
	require.NoError(t, s.Load(context.Background()))

	assert.True(t, s.Contains(2))
	assert.True(t, s.Contains(4))
	assert.False(t, s.Contains(3))
}
