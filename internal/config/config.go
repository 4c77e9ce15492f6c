// Package config reads the optional notely.yaml project file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/notely/internal/platform"
)

// Config is the content of notely.yaml. Zero fields keep the defaults.
type Config struct {
	// Adapter is one of fs, memory, redis, sqlite, badger.
	Adapter string `yaml:"adapter,omitempty"`
	// Path is the store location for file-backed adapters, relative to the file.
	Path           string      `yaml:"path,omitempty"`
	Versioning     *bool       `yaml:"versioning,omitempty"`
	PermissiveTags bool        `yaml:"permissive_tags,omitempty"`
	SystemDir      string      `yaml:"system_dir,omitempty"`
	Redis          RedisConfig `yaml:"redis,omitempty"`
	HTTP           HTTPConfig  `yaml:"http,omitempty"`
}

// RedisConfig configures the redis adapter.
type RedisConfig struct {
	URL    string `yaml:"url,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`
}

// HTTPConfig configures `notely serve`.
type HTTPConfig struct {
	Addr            string        `yaml:"addr,omitempty"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Adapter: platform.AdapterFS,
		Path:    ".",
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

// Load reads path and fills unset fields from Default. A missing file is
// not an error and yields the defaults. Relative store paths are resolved
// against the file's directory.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var file Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.merge(file)

	if cfg.Path != "" && !filepath.IsAbs(cfg.Path) {
		cfg.Path = filepath.Join(filepath.Dir(path), cfg.Path)
	}
	return cfg, cfg.Validate()
}

func (c *Config) merge(f Config) {
	if f.Adapter != "" {
		c.Adapter = f.Adapter
	}
	if f.Path != "" {
		c.Path = f.Path
	}
	if f.Versioning != nil {
		c.Versioning = f.Versioning
	}
	c.PermissiveTags = f.PermissiveTags
	if f.SystemDir != "" {
		c.SystemDir = f.SystemDir
	}
	if f.Redis.URL != "" {
		c.Redis.URL = f.Redis.URL
	}
	if f.Redis.Prefix != "" {
		c.Redis.Prefix = f.Redis.Prefix
	}
	if f.HTTP.Addr != "" {
		c.HTTP.Addr = f.HTTP.Addr
	}
	if f.HTTP.ShutdownTimeout > 0 {
		c.HTTP.ShutdownTimeout = f.HTTP.ShutdownTimeout
	}
}

// Validate checks the adapter name and its required settings.
func (c Config) Validate() error {
	switch c.Adapter {
	case platform.AdapterFS, platform.AdapterMemory, platform.AdapterSQLite, platform.AdapterBadger:
		return nil
	case platform.AdapterRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("adapter redis requires redis.url")
		}
		return nil
	default:
		return fmt.Errorf("unknown adapter %q", c.Adapter)
	}
}

// URI returns the adapter-specific location handed to platform.Init.
func (c Config) URI() string {
	if c.Adapter == platform.AdapterRedis {
		return c.Redis.URL
	}
	return c.Path
}

// Options translates the file settings into platform options.
func (c Config) Options() []platform.Option {
	opts := []platform.Option{
		platform.WithAdapter(c.Adapter),
		platform.WithPermissiveTags(c.PermissiveTags),
	}
	if c.Versioning != nil {
		opts = append(opts, platform.WithVersioning(*c.Versioning))
	}
	if c.SystemDir != "" {
		opts = append(opts, platform.WithSystemDir(c.SystemDir))
	}
	if c.Redis.Prefix != "" {
		opts = append(opts, platform.WithRedisPrefix(c.Redis.Prefix))
	}
	return opts
}

// Write stores c at path.
func Write(path string, c Config) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
