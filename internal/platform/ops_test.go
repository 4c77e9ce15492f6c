package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notely/internal/platform"
	"github.com/aretw0/notely/pkg/adapters/badger"
	"github.com/aretw0/notely/pkg/adapters/fs"
	"github.com/aretw0/notely/pkg/adapters/memory"
	redisstore "github.com/aretw0/notely/pkg/adapters/redis"
	"github.com/aretw0/notely/pkg/adapters/sqlite"
	"github.com/aretw0/notely/pkg/core"
	"github.com/aretw0/notely/pkg/git"
)

func closeStore(t *testing.T, store core.Store) {
	t.Helper()
	if c, ok := store.(interface{ Close() error }); ok {
		t.Cleanup(func() { _ = c.Close() })
	}
}

func TestInit_FS(t *testing.T) {
	ctx := context.Background()

	t.Run("AutoInit creates directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes")

		store, err := platform.Init(ctx, path, platform.WithAutoInit(true), platform.WithForceTemp(true))
		require.NoError(t, err)

		fsStore, ok := store.(*fs.Store)
		require.True(t, ok, "expected fs store")
		assert.Equal(t, path, fsStore.Path)

		info, err := os.Stat(filepath.Join(path, ".notely"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		state := fsStore.State().(fs.StoreState)
		assert.False(t, state.Versioning, "fresh stores start unversioned")
	})

	t.Run("missing directory without AutoInit fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing")
		_, err := platform.Init(ctx, path, platform.WithMustExist(true), platform.WithForceTemp(true))
		assert.Error(t, err)
	})

	t.Run("versioning", func(t *testing.T) {
		if !git.IsInstalled() {
			t.Skip("git not installed")
		}
		path := filepath.Join(t.TempDir(), "versioned")
		store, err := platform.Init(ctx, path,
			platform.WithAutoInit(true), platform.WithVersioning(true), platform.WithForceTemp(true))
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(path, ".git"))
		require.NoError(t, err)
		assert.True(t, store.(*fs.Store).State().(fs.StoreState).Versioning)

		// Reopening detects the repository without the option.
		reopened, err := platform.Init(ctx, path, platform.WithForceTemp(true))
		require.NoError(t, err)
		assert.True(t, reopened.(*fs.Store).State().(fs.StoreState).Versioning)
	})

	t.Run("custom system dir", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom")
		_, err := platform.Init(ctx, path,
			platform.WithAutoInit(true), platform.WithSystemDir(".meta"), platform.WithForceTemp(true))
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(path, ".meta"))
		assert.NoError(t, err)
	})
}

func TestInit_Adapters(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, err := platform.Init(ctx, "", platform.WithAdapter(platform.AdapterMemory))
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, store)
	})

	t.Run("sqlite directory gets a database file", func(t *testing.T) {
		dir := t.TempDir()
		store, err := platform.Init(ctx, dir, platform.WithAdapter(platform.AdapterSQLite))
		require.NoError(t, err)
		closeStore(t, store)
		assert.IsType(t, &sqlite.Store{}, store)
		_, err = os.Stat(filepath.Join(dir, platform.SQLiteFileName))
		assert.NoError(t, err)
	})

	t.Run("badger", func(t *testing.T) {
		store, err := platform.Init(ctx, t.TempDir(), platform.WithAdapter(platform.AdapterBadger))
		require.NoError(t, err)
		closeStore(t, store)
		assert.IsType(t, &badger.Store{}, store)
	})

	t.Run("redis by uri", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, err := platform.Init(ctx, "redis://"+mr.Addr(), platform.WithAdapter(platform.AdapterRedis))
		require.NoError(t, err)
		closeStore(t, store)
		assert.IsType(t, &redisstore.Store{}, store)
	})

	t.Run("redis by client", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		store, err := platform.Init(ctx, "",
			platform.WithAdapter(platform.AdapterRedis), platform.WithRedisClient(client), platform.WithRedisPrefix("x:"))
		require.NoError(t, err)
		closeStore(t, store)
		require.NoError(t, store.Set(ctx, core.TagsKey, []byte(`[]`)))
		assert.True(t, mr.Exists("x:TAGS"))
	})

	t.Run("injected store wins", func(t *testing.T) {
		injected := memory.New()
		store, err := platform.Init(ctx, "", platform.WithAdapter("nope"), platform.WithStore(injected))
		require.NoError(t, err)
		assert.Same(t, injected, store)
	})

	t.Run("unknown adapter", func(t *testing.T) {
		_, err := platform.Init(ctx, "", platform.WithAdapter("s3"))
		assert.ErrorContains(t, err, "unknown adapter")
	})
}
