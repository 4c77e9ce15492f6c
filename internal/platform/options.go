package platform

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/aretw0/notely/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterMemory = "memory"
	AdapterRedis  = "redis"
	AdapterSQLite = "sqlite"
	AdapterBadger = "badger"
)

// options holds the internal configuration for a notebook.
type options struct {
	store       core.Store
	logger      *slog.Logger
	adapter     string
	config      map[string]interface{}
	redisClient *redis.Client
	newID       func() string
}

// Option defines a functional option for configuring notely.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: AdapterFS,
		config:  make(map[string]interface{}),
	}
}

func apply(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithAutoInit enables automatic initialization of the store
// (creates the directory and runs git init when versioning).
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithVersioning enables or disables git versioning of the fs adapter.
// When not set, versioning follows the presence of a .git directory.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config["versioning"] = enabled
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist ensures the store directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore injects a ready key-value store. The adapter setting is then ignored.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the storage adapter by name. Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithSystemDir sets the hidden directory of the fs adapter. Defaults to ".notely".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithEventBuffer sets the per-subscriber event buffer. Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithPermissiveTags lets AddTag register an id that already exists.
func WithPermissiveTags(enabled bool) Option {
	return func(o *options) {
		o.config["permissive_tags"] = enabled
	}
}

// WithErrorHandler registers a callback for failures that are not returned
// to a caller: slot writes after a mutation and store watch errors.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["error_handler"] = fn
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Mutations return ErrReadOnly.
// 2. Initialization (Mkdir, Git Init, schema) is skipped.
// 3. Dev Safety Lock (go run temp dir) is BYPASSED (uses real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default (true), file-backed adapters are re-rooted in a temporary directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithRedisClient supplies the client for the redis adapter, bypassing the URI.
func WithRedisClient(client *redis.Client) Option {
	return func(o *options) {
		o.redisClient = client
	}
}

// WithRedisPrefix sets the key prefix of the redis adapter.
func WithRedisPrefix(prefix string) Option {
	return func(o *options) {
		o.config["redis_prefix"] = prefix
	}
}

// WithIDGenerator replaces the random UUID generator for note and tag ids.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		o.newID = fn
	}
}

func (o *options) flag(name string, def bool) bool {
	if v, ok := o.config[name].(bool); ok {
		return v
	}
	return def
}
