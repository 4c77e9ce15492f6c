package core

import "slices"

// Materialize joins every note with the registry tags it references.
// Tags appear in registry order; ids with no registry entry are dropped.
func Materialize(notes []Note, tags []Tag) []NoteView {
	views := make([]NoteView, len(notes))
	for i, n := range notes {
		views[i] = MaterializeNote(n, tags)
	}
	return views
}

// MaterializeNote resolves a single note against the registry.
func MaterializeNote(note Note, tags []Tag) NoteView {
	resolved := make([]Tag, 0, len(note.TagIDs))
	for _, t := range tags {
		if slices.Contains(note.TagIDs, t.ID) {
			resolved = append(resolved, t)
		}
	}
	return NoteView{
		ID:       note.ID,
		Title:    note.Title,
		Markdown: note.Markdown,
		Tags:     resolved,
	}
}

// Views materializes the snapshot.
func (s State) Views() []NoteView {
	return Materialize(s.Notes, s.Tags)
}

// Summaries drops the markdown body from each view.
func Summaries(views []NoteView) []NoteSummary {
	out := make([]NoteSummary, len(views))
	for i, v := range views {
		out[i] = NoteSummary{ID: v.ID, Title: v.Title, Tags: v.Tags}
	}
	return out
}
