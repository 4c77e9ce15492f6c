package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/notely/pkg/core"
)

var _ core.Watchable = (*Store)(nil)

// Watch implements core.Watchable. It emits the key of every slot whose file
// changed on disk outside this Store. Bursts are coalesced per slot, writes
// made through Set are suppressed, and the channel closes when ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan string, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.Path, err)
	}
	// Optional: only present when versioning.
	_ = watcher.Add(filepath.Join(s.Path, ".git"))

	s.setWatcherActive(true)
	out := make(chan string)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer s.setWatcherActive(false)
		defer watcher.Close()
		return s.watchLoop(ctx, watcher, out)
	}, lifecycle.WithErrorHandler(func(err error) {
		s.reportWatchError(fmt.Errorf("watcher panic: %w", err))
	}))

	return out, nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, out chan<- string) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(s.config.Debounce)
	timer.Stop()
	defer timer.Stop()
	gitLocked := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if isGitIndexLock(event.Name) {
				if event.Has(fsnotify.Create) {
					gitLocked = true
					s.logDebug("git operations detected, pausing watcher")
				} else if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					gitLocked = false
					s.logDebug("git operations finished, rescanning slots")
					if keys, err := s.Keys(); err == nil {
						for _, k := range keys {
							pending[k] = struct{}{}
						}
						timer.Reset(s.config.Debounce)
					}
				}
				continue
			}

			key, ok := keyFromName(filepath.Base(event.Name))
			if !ok || filepath.Dir(event.Name) != filepath.Clean(s.Path) {
				continue
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			pending[key] = struct{}{}
			if !gitLocked {
				timer.Reset(s.config.Debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.reportWatchError(err)

		case <-timer.C:
			if gitLocked {
				continue
			}
			for key := range pending {
				delete(pending, key)
				if !s.changedExternally(key) {
					continue
				}
				s.logDebug("slot changed on disk", "key", key)
				select {
				case out <- key:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}

func isGitIndexLock(name string) bool {
	return filepath.Base(name) == "index.lock" && filepath.Base(filepath.Dir(name)) == ".git"
}

func (s *Store) reportWatchError(err error) {
	if s.config.Logger != nil {
		s.config.Logger.Error("fsnotify error", "error", err)
	}
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
	}
}

func (s *Store) logDebug(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, args...)
	}
}
