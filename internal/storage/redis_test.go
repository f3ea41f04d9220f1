package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleLog("game-1")))

	loaded, err := store.Load(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, "game-1", loaded.Meta.GameID)
	assert.Equal(t, []string{"alice"}, loaded.Config.Players)
}

func TestRedisStoreLoadMissing(t *testing.T) {
	store := newRedisStore(t)

	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreListAndDelete(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleLog("a")))
	require.NoError(t, store.Save(ctx, sampleLog("b")))

	metas, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, metas, 2)

	require.NoError(t, store.Delete(ctx, "a"))
	metas, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, metas, 1)
	assert.Equal(t, "b", metas[0].GameID)

	assert.ErrorIs(t, store.Delete(ctx, "a"), ErrNotFound)
}

func TestRedisStoreOverwrite(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	first := sampleLog("game-1")
	require.NoError(t, store.Save(ctx, first))

	updated := sampleLog("game-1")
	updated.Turns = append(updated.Turns, updated.Turns[0])
	require.NoError(t, store.Save(ctx, updated))

	loaded, err := store.Load(ctx, "game-1")
	require.NoError(t, err)
	assert.Len(t, loaded.Turns, 2)

	// Индекс не дублируется
	metas, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, metas, 1)
}
