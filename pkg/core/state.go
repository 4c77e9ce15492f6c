package core

import "slices"

// Outcome reports what a reducer did with a mutation.
type Outcome uint8

const (
	// OutcomeApplied means a new snapshot was produced.
	OutcomeApplied Outcome = iota
	// OutcomeMissing means no record matched the id; the snapshot is unchanged.
	OutcomeMissing
	// OutcomeRejected means the mutation would break an invariant; the snapshot is unchanged.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeMissing:
		return "missing"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of both collections.
//
// Reducers never write through the receiver's slices: each applied mutation
// returns a State backed by freshly allocated slices, so a snapshot handed
// out earlier stays valid.
type State struct {
	Notes []Note `json:"notes"`
	Tags  []Tag  `json:"tags"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	notes := make([]Note, len(s.Notes))
	for i, n := range s.Notes {
		notes[i] = n.clone()
	}
	return State{Notes: notes, Tags: slices.Clone(s.Tags)}
}

func (n Note) clone() Note {
	n.TagIDs = slices.Clone(n.TagIDs)
	return n
}

// FindTag returns the first tag with the given id.
func (s State) FindTag(id string) (Tag, bool) {
	for _, t := range s.Tags {
		if t.ID == id {
			return t, true
		}
	}
	return Tag{}, false
}

// FindNote returns the note with the given id.
func (s State) FindNote(id string) (Note, bool) {
	for _, n := range s.Notes {
		if n.ID == id {
			return n.clone(), true
		}
	}
	return Note{}, false
}

// --- Tag Registry ---

// AddTag appends a caller-formed tag. With unique set, a tag whose id is
// already registered is rejected; otherwise it is appended and lookups keep
// resolving to the first match.
func (s State) AddTag(tag Tag, unique bool) (State, Outcome) {
	if unique {
		if _, ok := s.FindTag(tag.ID); ok {
			return s, OutcomeRejected
		}
	}
	tags := make([]Tag, 0, len(s.Tags)+1)
	tags = append(tags, s.Tags...)
	tags = append(tags, tag)
	return State{Notes: s.Notes, Tags: tags}, OutcomeApplied
}

// UpdateTag replaces the label of every tag matching id.
func (s State) UpdateTag(id, label string) (State, Outcome) {
	if !slices.ContainsFunc(s.Tags, func(t Tag) bool { return t.ID == id }) {
		return s, OutcomeMissing
	}
	tags := make([]Tag, len(s.Tags))
	for i, t := range s.Tags {
		if t.ID == id {
			t.Label = label
		}
		tags[i] = t
	}
	return State{Notes: s.Notes, Tags: tags}, OutcomeApplied
}

// DeleteTag removes every tag matching id. Notes keep their TagIDs.
func (s State) DeleteTag(id string) (State, Outcome) {
	if !slices.ContainsFunc(s.Tags, func(t Tag) bool { return t.ID == id }) {
		return s, OutcomeMissing
	}
	tags := make([]Tag, 0, len(s.Tags))
	for _, t := range s.Tags {
		if t.ID != id {
			tags = append(tags, t)
		}
	}
	return State{Notes: s.Notes, Tags: tags}, OutcomeApplied
}

// --- Note Store ---

// CreateNote appends a note built from data under the given id.
// Title and markdown are stored verbatim.
func (s State) CreateNote(id string, data NoteData) (State, Note) {
	note := Note{
		ID:       id,
		Title:    data.Title,
		Markdown: data.Markdown,
		TagIDs:   TagIDs(data.Tags),
	}
	notes := make([]Note, 0, len(s.Notes)+1)
	notes = append(notes, s.Notes...)
	notes = append(notes, note)
	return State{Notes: notes, Tags: s.Tags}, note.clone()
}

// UpdateNote replaces title, markdown and tag ids of the note matching id.
func (s State) UpdateNote(id string, data NoteData) (State, Outcome) {
	idx := slices.IndexFunc(s.Notes, func(n Note) bool { return n.ID == id })
	if idx < 0 {
		return s, OutcomeMissing
	}
	notes := slices.Clone(s.Notes)
	notes[idx] = Note{
		ID:       id,
		Title:    data.Title,
		Markdown: data.Markdown,
		TagIDs:   TagIDs(data.Tags),
	}
	return State{Notes: notes, Tags: s.Tags}, OutcomeApplied
}

// DeleteNote removes the note matching id. The Tag Registry is untouched.
func (s State) DeleteNote(id string) (State, Outcome) {
	if !slices.ContainsFunc(s.Notes, func(n Note) bool { return n.ID == id }) {
		return s, OutcomeMissing
	}
	notes := make([]Note, 0, len(s.Notes))
	for _, n := range s.Notes {
		if n.ID != id {
			notes = append(notes, n)
		}
	}
	return State{Notes: notes, Tags: s.Tags}, OutcomeApplied
}

// TagIDs returns the ids of tags in order, dropping repeats.
func TagIDs(tags []Tag) []string {
	ids := make([]string, 0, len(tags))
	for _, t := range tags {
		if !slices.Contains(ids, t.ID) {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
