package core_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notely/pkg/core"
)

func seed() core.State {
	return core.State{
		Notes: []core.Note{
			{ID: "n1", Title: "Groceries", Markdown: "milk", TagIDs: []string{"t1"}},
			{ID: "n2", Title: "Plan", Markdown: "...", TagIDs: []string{"t1", "t2"}},
		},
		Tags: []core.Tag{
			{ID: "t1", Label: "urgent"},
			{ID: "t2", Label: "home"},
			{ID: "t3", Label: "work"},
		},
	}
}

func TestUpdateTag_OnlyTouchesTarget(t *testing.T) {
	before := seed()
	pristine := before.Clone()

	after, out := before.UpdateTag("t2", "house")
	require.Equal(t, core.OutcomeApplied, out)

	want := pristine.Clone()
	want.Tags[1].Label = "house"
	if diff := cmp.Diff(want, after); diff != "" {
		t.Errorf("UpdateTag mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(pristine, before); diff != "" {
		t.Errorf("receiver was mutated (-want +got):\n%s", diff)
	}
}

func TestUpdateTag_Missing(t *testing.T) {
	before := seed()
	after, out := before.UpdateTag("nope", "x")
	assert.Equal(t, core.OutcomeMissing, out)
	assert.Equal(t, before, after)
}

func TestAddTag(t *testing.T) {
	t.Run("appends", func(t *testing.T) {
		s, out := core.State{}.AddTag(core.Tag{ID: "t1", Label: "work"}, true)
		require.Equal(t, core.OutcomeApplied, out)
		assert.Equal(t, []core.Tag{{ID: "t1", Label: "work"}}, s.Tags)
	})

	t.Run("unique rejects duplicate id", func(t *testing.T) {
		before := seed()
		after, out := before.AddTag(core.Tag{ID: "t1", Label: "again"}, true)
		assert.Equal(t, core.OutcomeRejected, out)
		assert.Len(t, after.Tags, 3)
	})

	t.Run("permissive keeps first match", func(t *testing.T) {
		after, out := seed().AddTag(core.Tag{ID: "t1", Label: "again"}, false)
		require.Equal(t, core.OutcomeApplied, out)
		assert.Len(t, after.Tags, 4)
		tag, ok := after.FindTag("t1")
		require.True(t, ok)
		assert.Equal(t, "urgent", tag.Label)
	})
}

func TestDeleteTag_DoesNotCascade(t *testing.T) {
	before := seed()
	after, out := before.DeleteTag("t2")
	require.Equal(t, core.OutcomeApplied, out)

	assert.Len(t, after.Tags, 2)
	assert.Equal(t, before.Notes, after.Notes)
	n, _ := after.FindNote("n2")
	assert.Equal(t, []string{"t1", "t2"}, n.TagIDs)

	_, out = after.DeleteTag("t2")
	assert.Equal(t, core.OutcomeMissing, out)
}

func TestCreateNote(t *testing.T) {
	before := seed()
	after, note := before.CreateNote("n3", core.NoteData{
		Title:    "",
		Markdown: "",
		Tags:     []core.Tag{{ID: "t3", Label: "work"}, {ID: "t3", Label: "work"}},
	})

	assert.Len(t, after.Notes, len(before.Notes)+1)
	assert.Len(t, before.Notes, 2)
	assert.Equal(t, core.Note{ID: "n3", TagIDs: []string{"t3"}}, note)
	assert.Equal(t, before.Tags, after.Tags)
}

func TestUpdateNote(t *testing.T) {
	before := seed()
	after, out := before.UpdateNote("n1", core.NoteData{
		Title:    "Shopping",
		Markdown: "eggs",
		Tags:     []core.Tag{{ID: "t2"}},
	})
	require.Equal(t, core.OutcomeApplied, out)

	n, ok := after.FindNote("n1")
	require.True(t, ok)
	assert.Equal(t, core.Note{ID: "n1", Title: "Shopping", Markdown: "eggs", TagIDs: []string{"t2"}}, n)

	old, _ := before.FindNote("n1")
	assert.Equal(t, "Groceries", old.Title)

	_, out = before.UpdateNote("ghost", core.NoteData{})
	assert.Equal(t, core.OutcomeMissing, out)
}

func TestDeleteNote(t *testing.T) {
	before := seed()

	once, out := before.DeleteNote("n1")
	require.Equal(t, core.OutcomeApplied, out)
	assert.Len(t, once.Notes, 1)
	assert.Equal(t, before.Tags, once.Tags)

	twice, out := once.DeleteNote("n1")
	assert.Equal(t, core.OutcomeMissing, out)
	assert.Equal(t, once, twice)

	_, out = before.DeleteNote("absent")
	assert.Equal(t, core.OutcomeMissing, out)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "applied", core.OutcomeApplied.String())
	assert.Equal(t, "missing", core.OutcomeMissing.String())
	assert.Equal(t, "rejected", core.OutcomeRejected.String())
}
