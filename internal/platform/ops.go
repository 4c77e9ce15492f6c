package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/aretw0/notely/pkg/adapters/badger"
	"github.com/aretw0/notely/pkg/adapters/fs"
	"github.com/aretw0/notely/pkg/adapters/memory"
	redisstore "github.com/aretw0/notely/pkg/adapters/redis"
	"github.com/aretw0/notely/pkg/adapters/sqlite"
	"github.com/aretw0/notely/pkg/core"
)

// SQLiteFileName is the database file created when the sqlite URI is a directory.
const SQLiteFileName = "notely.db"

// Init opens and prepares the store selected by the options.
// The uri argument is adapter-specific: a directory for fs and badger,
// a database file (or directory) for sqlite, a connection string for redis.
// It is ignored by the memory adapter.
func Init(ctx context.Context, uri string, opts ...Option) (core.Store, error) {
	return initStore(ctx, uri, apply(opts))
}

func initStore(ctx context.Context, uri string, o *options) (core.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	switch o.adapter {
	case AdapterFS, "":
		return initFS(ctx, uri, o)
	case AdapterMemory:
		return memory.New(), nil
	case AdapterRedis:
		return initRedis(ctx, uri, o)
	case AdapterSQLite:
		path := resolvePath(uri, o)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, SQLiteFileName)
		}
		return sqlite.Open(ctx, sqlite.Config{
			Path:     path,
			ReadOnly: o.flag("read_only", false),
			Logger:   o.logger,
		})
	case AdapterBadger:
		cfg := badger.DefaultConfig(resolvePath(uri, o))
		cfg.ReadOnly = o.flag("read_only", false)
		cfg.Logger = o.logger
		return badger.Open(cfg)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// resolvePath applies dev safety to a file-backed store location.
func resolvePath(path string, o *options) string {
	isReadOnly := o.flag("read_only", false)
	// Read-only access is inherently safe.
	bypassSafety := isReadOnly || !o.flag("dev_safety", true)
	useTemp := o.flag("temp_dir", false) || (IsDevRun() && !bypassSafety)
	resolved := ResolveStorePath(path, useTemp)

	if o.logger != nil && IsDevRun() {
		switch {
		case isReadOnly:
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
		case bypassSafety:
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		default:
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		}
	}
	if o.logger != nil && useTemp && resolved != path {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}
	return resolved
}

// initFS handles the initialization logic for the filesystem adapter.
func initFS(ctx context.Context, path string, o *options) (core.Store, error) {
	autoInit := o.flag("auto_init", false)
	isReadOnly := o.flag("read_only", false)
	useTemp := o.flag("temp_dir", false)
	systemDir, _ := o.config["system_dir"].(string)
	if systemDir == "" {
		systemDir = ".notely"
	}
	errorHandler, _ := o.config["error_handler"].(func(error))

	resolvedPath := resolvePath(path, o)

	// Versioning follows the directory unless configured: an existing .git
	// means versioned, a fresh auto-initialized store starts unversioned.
	versioning, explicit := o.config["versioning"].(bool)
	if !explicit {
		_, err := os.Stat(filepath.Join(resolvedPath, ".git"))
		versioning = err == nil
		if !versioning && o.logger != nil {
			o.logger.Debug("auto-detected unversioned store", "reason", ".git missing")
		}
	}

	store := fs.NewStore(fs.Config{
		Path:         resolvedPath,
		SystemDir:    systemDir,
		AutoInit:     autoInit,
		MustExist:    o.flag("must_exist", false) || (!autoInit && !useTemp),
		Versioning:   versioning,
		ReadOnly:     isReadOnly,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	})
	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func initRedis(ctx context.Context, uri string, o *options) (core.Store, error) {
	client := o.redisClient
	if client == nil {
		redisOpts, err := redisstore.ParseOptions(uri)
		if err != nil {
			return nil, err
		}
		client = redis.NewClient(redisOpts)
	}
	prefix, _ := o.config["redis_prefix"].(string)
	store := redisstore.New(client, redisstore.Config{
		Prefix:   prefix,
		ReadOnly: o.flag("read_only", false),
		Logger:   o.logger,
	})
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("redis unreachable: %w", err)
	}
	return store, nil
}
