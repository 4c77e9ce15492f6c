package core_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notely/pkg/core"
)

var (
	urgent = core.Tag{ID: "urgent", Label: "Urgent"}
	home   = core.Tag{ID: "home", Label: "Home"}
)

func TestMaterialize_RegistryOrderAndDanglingIDs(t *testing.T) {
	a := core.Tag{ID: "a", Label: "alpha"}
	b := core.Tag{ID: "b", Label: "beta"}
	note := core.Note{ID: "n", Title: "x", TagIDs: []string{"b", "a"}}

	views := core.Materialize([]core.Note{note}, []core.Tag{a, b})
	require.Len(t, views, 1)
	assert.Equal(t, []core.Tag{a, b}, views[0].Tags)

	// Deleting b from the registry drops it from the next view only.
	state := core.State{Notes: []core.Note{note}, Tags: []core.Tag{a, b}}
	state, _ = state.DeleteTag("b")
	views = state.Views()
	assert.Equal(t, []core.Tag{a}, views[0].Tags)
	assert.Equal(t, []string{"b", "a"}, state.Notes[0].TagIDs)
}

func TestFilter(t *testing.T) {
	first := core.NoteView{ID: "1", Title: "Groceries", Tags: []core.Tag{urgent}}
	second := core.NoteView{ID: "2", Title: "Groceries", Tags: []core.Tag{urgent, home}}
	third := core.NoteView{ID: "3", Title: "Reading list"}
	views := []core.NoteView{first, second, third}

	tests := []struct {
		name  string
		query core.Query
		want  []core.NoteView
	}{
		{"empty query keeps all", core.Query{}, views},
		{"and semantics", core.Query{Tags: []core.Tag{urgent, home}}, []core.NoteView{second}},
		{"single tag", core.Query{Tags: []core.Tag{urgent}}, []core.NoteView{first, second}},
		{"case-insensitive substring", core.Query{Title: "gro"}, []core.NoteView{first, second}},
		{"upper-case query", core.Query{Title: "LIST"}, []core.NoteView{third}},
		{"both predicates", core.Query{Title: "groc", Tags: []core.Tag{home}}, []core.NoteView{second}},
		{"no match", core.Query{Title: "xyz"}, []core.NoteView{}},
		{"tag matched by id only", core.Query{Tags: []core.Tag{{ID: "home", Label: "renamed"}}}, []core.NoteView{second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.Filter(views, tt.query)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScenario_CreateMaterializeFilter(t *testing.T) {
	work := core.Tag{ID: "t1", Label: "work"}

	s, out := core.State{}.AddTag(work, true)
	require.Equal(t, core.OutcomeApplied, out)
	s, note := s.CreateNote("n1", core.NoteData{Title: "Plan", Markdown: "...", Tags: []core.Tag{work}})

	assert.Equal(t, []string{"t1"}, note.TagIDs)

	views := s.Views()
	require.Len(t, views, 1)
	assert.Equal(t, []core.Tag{work}, views[0].Tags)

	assert.Len(t, core.Filter(views, core.Query{Title: "plan"}), 1)
	assert.Empty(t, core.Filter(views, core.Query{Title: "xyz"}))
}

func TestMatchTags(t *testing.T) {
	tags := []core.Tag{
		{ID: "1", Label: "work/meetings"},
		{ID: "2", Label: "Work/Reports"},
		{ID: "3", Label: "home"},
	}

	got, err := core.MatchTags(tags, "work/*")
	require.NoError(t, err)
	assert.Equal(t, tags[:2], got)

	got, err = core.MatchTags(tags, "h?me")
	require.NoError(t, err)
	assert.Equal(t, tags[2:], got)

	_, err = core.MatchTags(tags, "[")
	assert.Error(t, err)
}

func TestSummaries(t *testing.T) {
	got := core.Summaries([]core.NoteView{{ID: "1", Title: "a", Markdown: "body", Tags: []core.Tag{home}}})
	assert.Equal(t, []core.NoteSummary{{ID: "1", Title: "a", Tags: []core.Tag{home}}}, got)
}
