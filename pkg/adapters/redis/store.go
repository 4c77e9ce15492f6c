// Package redis implements core.Store on a Redis server. Every Set is
// announced on a pub/sub channel so other processes sharing the keyspace
// can watch for changes.
package redis

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/lifecycle"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/aretw0/notely/pkg/core"
)

// DefaultPrefix namespaces notely keys.
const DefaultPrefix = "notely:"

// Config holds the configuration for the redis store.
type Config struct {
	// Prefix is prepended to every key. Empty means DefaultPrefix.
	Prefix   string
	ReadOnly bool
	Logger   *slog.Logger
}

// Store implements core.Store and core.Watchable.
type Store struct {
	client *redis.Client
	config Config
	origin string
}

type change struct {
	Origin string `json:"origin"`
	Key    string `json:"key"`
}

var (
	_ core.Store     = (*Store)(nil)
	_ core.Watchable = (*Store)(nil)
)

// New wraps an existing client. The store takes ownership and Close closes it.
func New(client *redis.Client, config Config) *Store {
	if config.Prefix == "" {
		config.Prefix = DefaultPrefix
	}
	return &Store{client: client, config: config, origin: uuid.NewString()}
}

// ParseOptions accepts a redis:// URL or a "host:port,password=...,ssl=true"
// connection string.
func ParseOptions(conn string) (*redis.Options, error) {
	if conn == "" {
		return nil, errors.New("empty redis connection string")
	}
	if opts, err := redis.ParseURL(conn); err == nil {
		return opts, nil
	}
	parts := strings.Split(conn, ",")
	opts := &redis.Options{Addr: parts[0]}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(kv[0]) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.ToLower(kv[1]) == "true" {
				opts.TLSConfig = &tls.Config{}
			}
		}
	}
	return opts, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Get implements core.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.config.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Set implements core.Store.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	msg, err := json.Marshal(change{Origin: s.origin, Key: key})
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.config.Prefix+key, value, 0)
		pipe.Publish(ctx, s.channel(), msg)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Watch implements core.Watchable. Changes published by this Store are skipped.
func (s *Store) Watch(ctx context.Context) (<-chan string, error) {
	sub := s.client.Subscribe(ctx, s.channel())
	// Wait for the subscription to be confirmed so no change is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan string)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-ch:
				if !ok {
					return nil
				}
				var c change
				if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
					s.logWarn("unable to parse change", "error", err)
					continue
				}
				if c.Origin == s.origin {
					continue
				}
				select {
				case out <- c.Key:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logWarn("redis watch panic", "error", err)
	}))
	return out, nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "redis-store"
}

func (s *Store) channel() string {
	return s.config.Prefix + "changes"
}

func (s *Store) logWarn(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Warn(msg, args...)
	}
}
