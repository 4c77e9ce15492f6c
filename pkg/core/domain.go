// Package core holds the notely domain: notes, tags, the immutable State
// snapshot with its reducers, and the pure view and filter functions.
package core

import "fmt"

// Slot keys under which the two collections are persisted.
const (
	NotesKey = "NOTES"
	TagsKey  = "TAGS"
)

// Tag is a labeled category. ID is immutable once created; Label is freely editable.
type Tag struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Note is the stored form of a note. TagIDs references Tag.ID values and is
// not checked for integrity: a dangling id is dropped when the note is viewed.
type Note struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Markdown string   `json:"markdown"`
	TagIDs   []string `json:"tagIds"`
}

// NoteData is the caller-supplied payload for creating or replacing a note.
type NoteData struct {
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
	Tags     []Tag  `json:"tags"`
}

// NoteView is the derived form of a note with its tag ids resolved.
// It is never persisted.
type NoteView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
	Tags     []Tag  `json:"tags"`
}

// NoteSummary is the list-card projection of a NoteView.
type NoteSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Tags  []Tag  `json:"tags"`
}

// EventType represents the type of change in the notebook.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
	EventReload EventType = "RELOAD"
)

// Kind names the collection an event refers to.
type Kind string

const (
	KindNote Kind = "note"
	KindTag  Kind = "tag"
)

// Event represents an applied change.
type Event struct {
	Type      EventType `json:"type"`
	Kind      Kind      `json:"kind,omitempty"`
	ID        string    `json:"id,omitempty"`
	Timestamp int64     `json:"timestamp"` // Unix timestamp
}

func (e Event) String() string {
	if e.Kind == "" {
		return string(e.Type)
	}
	if e.ID == "" {
		return fmt.Sprintf("%s %s", e.Type, e.Kind)
	}
	return fmt.Sprintf("%s %s %s", e.Type, e.Kind, e.ID)
}
