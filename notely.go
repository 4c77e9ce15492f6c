package notely

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/aretw0/notely/internal/platform"
	"github.com/aretw0/notely/pkg/core"
	"github.com/aretw0/notely/pkg/notebook"
)

// --- Types ---

// Service is the notebook service returned by New.
type Service = notebook.Service

// Note, Tag and the derived views, re-exported for callers that only import notely.
type (
	Note        = core.Note
	Tag         = core.Tag
	NoteData    = core.NoteData
	NoteView    = core.NoteView
	NoteSummary = core.NoteSummary
	Query       = core.Query
	Event       = core.Event
)

// --- Configuration ---

// Option defines a functional option for configuring notely.
type Option = platform.Option

// Adapter names.
const (
	AdapterFS     = platform.AdapterFS
	AdapterMemory = platform.AdapterMemory
	AdapterRedis  = platform.AdapterRedis
	AdapterSQLite = platform.AdapterSQLite
	AdapterBadger = platform.AdapterBadger
)

// WithAutoInit creates the store directory (and git repository when versioning) if missing.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning enables or disables git versioning of the fs adapter.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the store directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore injects a custom key-value store.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithSystemDir sets the hidden directory name of the fs adapter.
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithEventBuffer sets the per-subscriber event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithPermissiveTags accepts tags whose id is already registered.
func WithPermissiveTags(enabled bool) Option {
	return platform.WithPermissiveTags(enabled)
}

// WithErrorHandler receives background persistence and watch failures.
func WithErrorHandler(fn func(error)) Option {
	return platform.WithErrorHandler(fn)
}

// WithReadOnly rejects every mutation.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the temp-dir sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithRedisClient supplies the client of the redis adapter.
func WithRedisClient(client *redis.Client) Option {
	return platform.WithRedisClient(client)
}

// WithRedisPrefix sets the key prefix of the redis adapter.
func WithRedisPrefix(prefix string) Option {
	return platform.WithRedisPrefix(prefix)
}

// WithIDGenerator replaces the UUID generator for note and tag ids.
func WithIDGenerator(fn func() string) Option {
	return platform.WithIDGenerator(fn)
}

// --- Factory ---

// New opens the store at uri and returns a loaded Service.
func New(ctx context.Context, uri string, opts ...Option) (*Service, error) {
	return platform.New(ctx, uri, opts...)
}

// Init opens and prepares a store without loading a Service.
func Init(ctx context.Context, uri string, opts ...Option) (core.Store, error) {
	return platform.Init(ctx, uri, opts...)
}

// FindStoreRoot walks up from dir to the nearest directory holding
// a .notely directory or a notely.yaml file.
func FindStoreRoot(dir string) (string, error) {
	return platform.FindRoot(dir)
}
