// Package fs implements core.Store on a directory: one JSON file per slot,
// written atomically and optionally versioned with git.
package fs

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/notely/pkg/core"
	"github.com/aretw0/notely/pkg/git"
)

// SlotExt is the file extension of slot files.
const SlotExt = ".json"

// Config holds the configuration for the filesystem store.
type Config struct {
	Path       string
	SystemDir  string // e.g. ".notely"
	AutoInit   bool   // git init when Versioning is on and Path is not a repository
	MustExist  bool
	Versioning bool
	ReadOnly   bool
	Logger     *slog.Logger
	// ErrorHandler receives watcher failures, which are otherwise only logged.
	ErrorHandler func(error)
	// Debounce coalesces bursts of filesystem events per slot. Zero means 50ms.
	Debounce time.Duration
}

// Store implements core.Store on the filesystem.
type Store struct {
	Path   string
	git    *git.Client
	config Config

	mu            sync.RWMutex
	written       map[string][32]byte // last content hash per slot, seen by this process
	watcherActive bool
	lastWrite     *time.Time
}

// NewStore creates a filesystem-backed store. It does no I/O until Initialize.
func NewStore(config Config) *Store {
	if config.SystemDir == "" {
		config.SystemDir = ".notely"
	}
	if config.Debounce <= 0 {
		config.Debounce = 50 * time.Millisecond
	}
	return &Store{
		Path:    config.Path,
		git:     git.NewClient(config.Path, filepath.Join(config.SystemDir, "git.lock"), config.Logger),
		config:  config,
		written: make(map[string][32]byte),
	}
}

// Initialize prepares the directory (mkdir, system dir, git init).
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("store path does not exist: %s", s.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", s.Path)
		}
	}
	if s.config.ReadOnly {
		return nil
	}

	if err := os.MkdirAll(filepath.Join(s.Path, s.config.SystemDir), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	if n, err := sweepTemp(s.Path); err != nil {
		return fmt.Errorf("failed to clean temp files: %w", err)
	} else if n > 0 && s.config.Logger != nil {
		s.config.Logger.Warn("removed leftovers of interrupted writes", "count", n)
	}

	if !s.config.Versioning {
		return nil
	}
	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}

	wasNewRepo := false
	if !s.git.IsRepo(ctx) {
		if !s.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", s.Path)
		}
		if err := s.git.Init(ctx); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	mod, err := s.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}
	if mod && wasNewRepo {
		if err := s.git.Add(ctx, ".gitignore"); err != nil {
			return fmt.Errorf("failed to add .gitignore: %w", err)
		}
		if err := s.git.Commit(ctx, fmt.Sprintf("chore: configure %s ignore", s.config.SystemDir)); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}
	return nil
}

func (s *Store) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(s.Path, ".gitignore")
	ignoreEntry := s.config.SystemDir + "/"

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == ignoreEntry {
			return false, nil
		}
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}
	if _, err := f.WriteString(ignoreEntry + "\n"); err != nil {
		return false, err
	}
	return true, nil
}

// Get implements core.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.slotPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, core.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	s.mu.Lock()
	s.written[key] = sha256.Sum256(data)
	s.mu.Unlock()
	return data, nil
}

// Set implements core.Store. With versioning enabled the slot file is
// committed, using the change reason from ctx as message when present.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	path, err := s.slotPath(key)
	if err != nil {
		return err
	}

	if s.config.Versioning {
		unlock, err := s.git.Lock(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire git lock: %w", err)
		}
		defer unlock()
	}

	if err := replaceFile(path, value); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	s.recordWrite(key, value)

	if !s.config.Versioning {
		return nil
	}

	filename := key + SlotExt
	if err := s.git.Add(ctx, filename); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}
	changed, err := s.git.HasStagedChanges(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect index: %w", err)
	}
	if !changed {
		return nil
	}

	msg := "update " + key
	if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
		msg = val
	}
	if err := s.git.Commit(ctx, msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

// History returns the commit messages touching a slot, newest first.
// It requires versioning.
func (s *Store) History(ctx context.Context, key string) ([]string, error) {
	if !s.config.Versioning {
		return nil, fmt.Errorf("history requires versioning")
	}
	if _, err := s.slotPath(key); err != nil {
		return nil, err
	}
	return s.git.Log(ctx, key+SlotExt)
}

// Keys lists the slots present on disk, sorted.
func (s *Store) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.Path)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		if key, ok := keyFromName(e.Name()); ok && !e.IsDir() {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *Store) slotPath(key string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("invalid slot key %q", key)
	}
	return filepath.Join(s.Path, key+SlotExt), nil
}

func validKey(key string) bool {
	return key != "" && !strings.HasPrefix(key, ".") && !strings.ContainsAny(key, `/\`) && key != ".."
}

func keyFromName(name string) (string, bool) {
	if filepath.Ext(name) != SlotExt || isTempFile(name) {
		return "", false
	}
	key := strings.TrimSuffix(name, SlotExt)
	return key, validKey(key)
}

func (s *Store) recordWrite(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written[key] = sha256.Sum256(value)
	now := time.Now()
	s.lastWrite = &now
}

// changedExternally reports whether the slot on disk differs from what this
// process last read or wrote, and remembers the new content if so.
func (s *Store) changedExternally(key string) bool {
	path, err := s.slotPath(key)
	if err != nil {
		return false
	}
	data, err := os.ReadFile(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	prev, known := s.written[key]
	if err != nil {
		if known {
			delete(s.written, key)
			return true
		}
		return false
	}
	sum := sha256.Sum256(data)
	if known && sum == prev {
		return false
	}
	s.written[key] = sum
	return true
}
