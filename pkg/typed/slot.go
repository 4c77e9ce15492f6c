// Package typed provides type-safe access to JSON values held in a core.Store.
package typed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/notely/pkg/core"
)

// Slot wraps a single key of a core.Store holding a JSON-encoded T.
type Slot[T any] struct {
	store core.Store
	key   string
}

// NewSlot creates a typed slot over key.
func NewSlot[T any](store core.Store, key string) *Slot[T] {
	return &Slot[T]{store: store, key: key}
}

// Key returns the store key of the slot.
func (s *Slot[T]) Key() string {
	return s.key
}

// Read returns the decoded value, or an error wrapping core.ErrKeyNotFound
// when the slot does not exist.
func (s *Slot[T]) Read(ctx context.Context) (T, error) {
	var v T
	raw, err := s.store.Get(ctx, s.key)
	if err != nil {
		return v, fmt.Errorf("failed to read %s: %w", s.key, err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("failed to decode %s: %w", s.key, err)
	}
	return v, nil
}

// Load returns the decoded value. When the key is absent, def is written to
// the store and returned, so the slot exists after the first read.
func (s *Slot[T]) Load(ctx context.Context, def T) (T, error) {
	v, err := s.Read(ctx)
	if errors.Is(err, core.ErrKeyNotFound) {
		if err := s.Save(ctx, def); err != nil {
			return def, fmt.Errorf("failed to seed %s: %w", s.key, err)
		}
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return v, nil
}

// Save encodes v and replaces the slot value.
func (s *Slot[T]) Save(ctx context.Context, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.key, err)
	}
	return s.store.Set(ctx, s.key, raw)
}
