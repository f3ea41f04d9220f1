package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emberdelve-server/internal/domain"
)

func sampleLog(id string) *domain.GameLog {
	return &domain.GameLog{
		Meta: domain.LogMeta{
			GameID:       id,
			GameName:     "Тестовая партия",
			CreatedAt:    1700000000000,
			RulesVersion: "1.0.0",
		},
		Config: domain.GameConfig{DungeonSeed: 1, RNGSeed: 2, Players: []string{"alice"}},
		Turns: []domain.TurnRecord{
			{
				Turn:   0,
				Action: domain.Action{Type: domain.ActionJoin, ActorID: "alice"},
				Events: []domain.Event{{Type: domain.EventSpawned, ActorID: "alice"}},
			},
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleLog("game-1")))

	loaded, err := store.Load(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, "game-1", loaded.Meta.GameID)
	require.Len(t, loaded.Turns, 1)
	assert.Equal(t, domain.ActionJoin, loaded.Turns[0].Action.Type)
}

func TestFileStoreLoadMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreList(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleLog("a")))
	require.NoError(t, store.Save(ctx, sampleLog("b")))

	metas, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, metas, 2)
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleLog("gone")))
	require.NoError(t, store.Delete(ctx, "gone"))

	_, err = store.Load(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "gone"), ErrNotFound)
}

func TestFileStoreRejectsPathTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	bad := sampleLog("../escape")
	assert.Error(t, store.Save(context.Background(), bad))

	_, err = store.Load(context.Background(), "a/b")
	assert.Error(t, err)
}
