package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveGetList(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "db", "history.db"))
	require.NoError(t, err)
	defer s.Close()

	base := time.Unix(1_700_000_000, 0)
	runs := []Run{
		{ID: "a", Schema: "s.json", Seed: 1, Valid: true, Document: []byte(`{"seqno":1}`), CreatedAt: base},
		{ID: "b", Schema: "s.json", Seed: math.MaxUint64, Valid: false, Issues: 2, CreatedAt: base.Add(time.Second)},
	}
	for _, r := range runs {
		require.NoError(t, s.Save(ctx, r))
	}

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `{"seqno":1}`, string(got.Document))
	assert.True(t, got.Valid)
	assert.True(t, got.CreatedAt.Equal(base))

	list, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID, "newest first")
	assert.Equal(t, uint64(math.MaxUint64), list[0].Seed)
	assert.Equal(t, 2, list[0].Issues)
	assert.False(t, list[0].Valid)
	assert.Nil(t, list[0].Document)
}

func TestStore_GetMissing(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DuplicateID(t *testing.T) {
	ctx := context.Background()
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(ctx, Run{ID: "x", Schema: "s"}))
	assert.Error(t, s.Save(ctx, Run{ID: "x", Schema: "s"}))
}
