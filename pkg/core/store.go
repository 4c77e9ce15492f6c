package core

import "context"

// Store is the key-value collaborator the notebook persists its slots to.
// Values are opaque bytes; the typed package handles the JSON codec.
type Store interface {
	// Get returns the raw value of key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value of key.
	Set(ctx context.Context, key string, value []byte) error
}

// Watchable is implemented by stores that can report slots changed by
// another writer (another process, a text editor).
type Watchable interface {
	// Watch emits the key of every slot changed outside this process until ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}

type contextKey string

// ChangeReasonKey is the context key for passing a change reason (the commit
// message of versioned stores) along with a slot write.
const ChangeReasonKey contextKey = "change_reason"
