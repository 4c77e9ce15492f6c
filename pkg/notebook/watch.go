package notebook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notely/pkg/core"
)

// ErrNotWatchable is returned by WatchStore when the store cannot report external changes.
var ErrNotWatchable = errors.New("store does not support watching")

// WatchStore reloads a slot whenever the store reports it changed outside
// this Service, publishing an EventReload for it. It returns once the watch
// is established; reloading runs until ctx is done.
func (s *Service) WatchStore(ctx context.Context) error {
	w, ok := s.store.(core.Watchable)
	if !ok {
		return ErrNotWatchable
	}

	keys, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch store: %w", err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case key, ok := <-keys:
				if !ok {
					return nil
				}
				if err := s.Reload(ctx, key); err != nil {
					s.report(err)
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.report(fmt.Errorf("store watch panic: %w", err))
	}))
	return nil
}

// Reload re-reads a single slot from the store, replacing that half of the
// snapshot. Keys other than the notes and tags slots are ignored.
func (s *Service) Reload(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kind core.Kind
	switch key {
	case core.NotesKey:
		notes, err := readOnlyLoad(ctx, s.notes)
		if err != nil {
			return err
		}
		s.state = core.State{Notes: notes, Tags: s.state.Tags}
		kind = core.KindNote
	case core.TagsKey:
		tags, err := readOnlyLoad(ctx, s.tags)
		if err != nil {
			return err
		}
		s.state = core.State{Notes: s.state.Notes, Tags: tags}
		kind = core.KindTag
	default:
		return nil
	}

	// The store now holds the authoritative copy of this slot.
	delete(s.dirty, key)
	s.config.Logger.Debug("slot reloaded", "key", key)
	s.publishEvent(core.Event{Type: core.EventReload, Kind: kind, Timestamp: time.Now().Unix()})
	return nil
}

func (s *Service) report(err error) {
	s.config.Logger.Error("notebook background error", "error", err)
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
	}
}
