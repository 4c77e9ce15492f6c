package notebook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/notely/pkg/core"
	"github.com/aretw0/notely/pkg/typed"
)

const defaultEventBuffer = 100

// Config holds the behavior switches of a Service.
type Config struct {
	Logger *slog.Logger
	// PermissiveTags allows AddTag to register an id that already exists,
	// as older data sets may contain such duplicates.
	PermissiveTags bool
	ReadOnly       bool
	// EventBuffer is the channel size handed to each subscriber. Zero means 100.
	EventBuffer int
	// ErrorHandler receives slot write and reload failures, which are not
	// returned to the mutating caller.
	ErrorHandler func(error)
	// NewID generates note and tag ids. Defaults to random UUIDs.
	NewID func() string
}

// Service handles the notes and tags of one store.
type Service struct {
	mu     sync.RWMutex
	store  core.Store
	notes  *typed.Slot[[]core.Note]
	tags   *typed.Slot[[]core.Tag]
	state  core.State
	loaded bool
	dirty  map[string]bool
	config Config

	subMu   sync.Mutex
	subs    map[int]chan core.Event
	nextSub int
}

// NewService creates a Service over store. Call Load before serving reads.
func NewService(store core.Store, cfg Config) *Service {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	return &Service{
		store:  store,
		notes:  typed.NewSlot[[]core.Note](store, core.NotesKey),
		tags:   typed.NewSlot[[]core.Tag](store, core.TagsKey),
		dirty:  make(map[string]bool),
		config: cfg,
		subs:   make(map[int]chan core.Event),
	}
}

// Store returns the underlying key-value store.
func (s *Service) Store() core.Store {
	return s.store
}

// Load reads both slots, seeding empty collections when they do not exist yet.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Service) loadLocked(ctx context.Context) error {
	if s.config.ReadOnly {
		// Seeding would write; read what is there and fall back to empty.
		notes, err := readOnlyLoad(ctx, s.notes)
		if err != nil {
			return err
		}
		tags, err := readOnlyLoad(ctx, s.tags)
		if err != nil {
			return err
		}
		s.state = core.State{Notes: notes, Tags: tags}
		s.loaded = true
		return nil
	}

	notes, err := s.notes.Load(ctx, []core.Note{})
	if err != nil {
		return err
	}
	tags, err := s.tags.Load(ctx, []core.Tag{})
	if err != nil {
		return err
	}
	s.state = core.State{Notes: notes, Tags: tags}
	s.loaded = true
	s.config.Logger.Debug("notebook loaded", "notes", len(notes), "tags", len(tags))
	return nil
}

func readOnlyLoad[T any](ctx context.Context, slot *typed.Slot[[]T]) ([]T, error) {
	v, err := slot.Read(ctx)
	if errors.Is(err, core.ErrKeyNotFound) {
		return []T{}, nil
	}
	return v, err
}

// --- Reads ---

// Snapshot returns a deep copy of the current state.
func (s *Service) Snapshot() core.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Notes returns the stored notes.
func (s *Service) Notes() []core.Note {
	return s.Snapshot().Notes
}

// Tags returns the tag registry.
func (s *Service) Tags() []core.Tag {
	return s.Snapshot().Tags
}

// Tag looks a tag up by id.
func (s *Service) Tag(id string) (core.Tag, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.FindTag(id)
}

// Views materializes every note.
func (s *Service) Views() []core.NoteView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Views()
}

// View materializes the note with the given id.
func (s *Service) View(id string) (core.NoteView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.state.FindNote(id)
	if !ok {
		return core.NoteView{}, false
	}
	return core.MaterializeNote(n, s.state.Tags), true
}

// Filter materializes the notes and narrows them with q.
func (s *Service) Filter(q core.Query) []core.NoteView {
	return core.Filter(s.Views(), q)
}

// Summaries is Filter projected to list cards.
func (s *Service) Summaries(q core.Query) []core.NoteSummary {
	return core.Summaries(s.Filter(q))
}

// --- Mutations ---

// CreateNote stores a new note under a generated id.
func (s *Service) CreateNote(ctx context.Context, data core.NoteData) (core.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(ctx); err != nil {
		return core.Note{}, err
	}

	next, note := s.state.CreateNote(s.config.NewID(), data)
	s.commit(ctx, next, core.EventCreate, core.KindNote, note.ID)
	return note, nil
}

// UpdateNote replaces title, markdown and tags of a note. A missing id is a no-op.
func (s *Service) UpdateNote(ctx context.Context, id string, data core.NoteData) (core.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(ctx); err != nil {
		return core.OutcomeRejected, err
	}

	next, out := s.state.UpdateNote(id, data)
	if out == core.OutcomeApplied {
		s.commit(ctx, next, core.EventModify, core.KindNote, id)
	}
	return out, nil
}

// DeleteNote removes a note. A missing id is a no-op.
func (s *Service) DeleteNote(ctx context.Context, id string) (core.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(ctx); err != nil {
		return core.OutcomeRejected, err
	}

	next, out := s.state.DeleteNote(id)
	if out == core.OutcomeApplied {
		s.commit(ctx, next, core.EventDelete, core.KindNote, id)
	}
	return out, nil
}

// AddTag registers a caller-formed tag.
// Unless PermissiveTags is set, an id that is already registered yields ErrDuplicateTag.
func (s *Service) AddTag(ctx context.Context, tag core.Tag) (core.Outcome, error) {
	if tag.ID == "" {
		return core.OutcomeRejected, core.ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(ctx); err != nil {
		return core.OutcomeRejected, err
	}

	next, out := s.state.AddTag(tag, !s.config.PermissiveTags)
	if out == core.OutcomeRejected {
		return out, fmt.Errorf("add tag %s: %w", tag.ID, core.ErrDuplicateTag)
	}
	s.commit(ctx, next, core.EventCreate, core.KindTag, tag.ID)
	return out, nil
}

// NewTag registers a tag with a generated id.
func (s *Service) NewTag(ctx context.Context, label string) (core.Tag, error) {
	tag := core.Tag{ID: s.config.NewID(), Label: label}
	if _, err := s.AddTag(ctx, tag); err != nil {
		return core.Tag{}, err
	}
	return tag, nil
}

// UpdateTag relabels a tag. A missing id is a no-op.
func (s *Service) UpdateTag(ctx context.Context, id, label string) (core.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(ctx); err != nil {
		return core.OutcomeRejected, err
	}

	next, out := s.state.UpdateTag(id, label)
	if out == core.OutcomeApplied {
		s.commit(ctx, next, core.EventModify, core.KindTag, id)
	}
	return out, nil
}

// DeleteTag removes a tag from the registry. Notes referencing it keep the id.
func (s *Service) DeleteTag(ctx context.Context, id string) (core.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(ctx); err != nil {
		return core.OutcomeRejected, err
	}

	next, out := s.state.DeleteTag(id)
	if out == core.OutcomeApplied {
		s.commit(ctx, next, core.EventDelete, core.KindTag, id)
	}
	return out, nil
}

// Flush rewrites every slot whose last write failed.
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, key := range s.dirtyKeys() {
		if err := s.save(ctx, key); err != nil {
			errs = append(errs, err)
			continue
		}
		delete(s.dirty, key)
	}
	return errors.Join(errs...)
}

// Close flushes pending writes and closes the store when it holds resources.
func (s *Service) Close(ctx context.Context) error {
	err := s.Flush(ctx)
	if c, ok := s.store.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

// Dirty reports whether a slot write is pending.
func (s *Service) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dirty) > 0
}

func (s *Service) writable(ctx context.Context) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if !s.loaded {
		return s.loadLocked(ctx)
	}
	return nil
}

// commit swaps the snapshot, persists the slot of kind and publishes the event.
// Must be called with s.mu held.
func (s *Service) commit(ctx context.Context, next core.State, t core.EventType, kind core.Kind, id string) {
	key := core.NotesKey
	if kind == core.KindTag {
		key = core.TagsKey
	}
	if _, ok := ctx.Value(core.ChangeReasonKey).(string); !ok {
		ctx = context.WithValue(ctx, core.ChangeReasonKey, fmt.Sprintf("%s %s %s", strings.ToLower(string(t)), kind, id))
	}

	s.state = next
	defer s.publish(t, kind, id)
	if err := s.save(ctx, key); err != nil {
		s.dirty[key] = true
		s.config.Logger.Warn("slot write failed, in-memory state kept", "key", key, "error", err)
		if s.config.ErrorHandler != nil {
			s.config.ErrorHandler(fmt.Errorf("persist %s: %w", key, err))
		}
		return
	}
	delete(s.dirty, key)
}

func (s *Service) save(ctx context.Context, key string) error {
	switch key {
	case core.NotesKey:
		return s.notes.Save(ctx, s.state.Notes)
	case core.TagsKey:
		return s.tags.Save(ctx, s.state.Tags)
	default:
		return fmt.Errorf("unknown slot %q", key)
	}
}

func (s *Service) dirtyKeys() []string {
	keys := make([]string, 0, len(s.dirty))
	for k := range s.dirty {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// --- Events ---

// Subscribe returns a channel receiving every applied change until ctx is done,
// at which point the channel is closed. A subscriber that falls behind by more
// than the event buffer misses events rather than blocking writers.
func (s *Service) Subscribe(ctx context.Context) <-chan core.Event {
	ch := make(chan core.Event, s.config.EventBuffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	context.AfterFunc(ctx, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	})
	return ch
}

func (s *Service) publish(t core.EventType, kind core.Kind, id string) {
	s.publishEvent(core.Event{Type: t, Kind: kind, ID: id, Timestamp: time.Now().Unix()})
}

func (s *Service) publishEvent(e core.Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- e:
		default:
			s.config.Logger.Debug("subscriber buffer full, event dropped", "event", e.String())
		}
	}
}

func (s *Service) subscriberCount() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}
