package core

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Query narrows a list of note views.
type Query struct {
	// Title matches as a case-insensitive substring. Empty matches everything.
	Title string
	// Tags must all be present on a note (compared by id). Empty matches everything.
	Tags []Tag
}

// IsZero reports whether q matches every note.
func (q Query) IsZero() bool {
	return q.Title == "" && len(q.Tags) == 0
}

// Filter keeps the views passing both the title and the tag predicate,
// preserving input order.
func Filter(views []NoteView, q Query) []NoteView {
	needle := strings.ToLower(q.Title)
	out := make([]NoteView, 0, len(views))
	for _, v := range views {
		if needle != "" && !strings.Contains(strings.ToLower(v.Title), needle) {
			continue
		}
		if !hasAllTags(v.Tags, q.Tags) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func hasAllTags(have, required []Tag) bool {
	for _, r := range required {
		found := false
		for _, h := range have {
			if h.ID == r.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// MatchTags returns the registry tags whose label matches a doublestar glob,
// compared case-insensitively. Registry order is preserved.
func MatchTags(tags []Tag, pattern string) ([]Tag, error) {
	pattern = strings.ToLower(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid tag pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	var out []Tag
	for _, t := range tags {
		ok, err := doublestar.Match(pattern, strings.ToLower(t.Label))
		if err != nil {
			return nil, fmt.Errorf("match tag %s: %w", t.ID, err)
		}
		if ok {
			out = append(out, t)
		}
	}
	return out, nil
}
