package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notely/pkg/adapters/sqlite"
	"github.com/aretw0/notely/pkg/core"
)

func TestStore_GetSet(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, sqlite.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Get(ctx, core.NotesKey)
	assert.ErrorIs(t, err, core.ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, core.NotesKey, []byte(`[]`)))
	require.NoError(t, store.Set(ctx, core.NotesKey, []byte(`[{"id":"1"}]`)))

	got, err := store.Get(ctx, core.NotesKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))

	at, err := store.UpdatedAt(ctx, core.NotesKey)
	require.NoError(t, err)
	assert.False(t, at.IsZero())
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "notely.db")

	store, err := sqlite.Open(ctx, sqlite.Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, core.TagsKey, []byte(`[{"id":"t","label":"x"}]`)))
	require.NoError(t, store.Close())

	reopened, err := sqlite.Open(ctx, sqlite.Config{Path: path, ReadOnly: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(ctx, core.TagsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"t","label":"x"}]`, string(got))
	assert.ErrorIs(t, reopened.Set(ctx, core.TagsKey, nil), core.ErrReadOnly)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := sqlite.Open(context.Background(), sqlite.Config{})
	assert.Error(t, err)
}
