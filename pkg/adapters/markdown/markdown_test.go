package markdown_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notely/pkg/adapters/markdown"
	"github.com/aretw0/notely/pkg/core"
)

func TestEncode(t *testing.T) {
	data, err := markdown.Encode(core.NoteView{
		ID:       "n1",
		Title:    "Plan",
		Markdown: "# Goals\n- ship\n",
		Tags:     []core.Tag{{ID: "t1", Label: "work"}},
	})
	require.NoError(t, err)

	want := "---\nid: n1\ntitle: Plan\ntags:\n  - work\n---\n# Goals\n- ship\n"
	assert.Equal(t, want, string(data))
}

func TestDecode(t *testing.T) {
	t.Run("with frontmatter", func(t *testing.T) {
		doc, err := markdown.Decode([]byte("---\ntitle: Plan\ntags: [work, home]\n---\nbody\n"))
		require.NoError(t, err)
		assert.Equal(t, "Plan", doc.Title)
		assert.Equal(t, []string{"work", "home"}, doc.Tags)
		assert.Equal(t, "body\n", doc.Body)
	})

	t.Run("empty body", func(t *testing.T) {
		doc, err := markdown.Decode([]byte("---\ntitle: Empty\n---"))
		require.NoError(t, err)
		assert.Equal(t, "Empty", doc.Title)
		assert.Empty(t, doc.Body)
	})

	t.Run("empty frontmatter", func(t *testing.T) {
		doc, err := markdown.Decode([]byte("---\n---\nbody\n"))
		require.NoError(t, err)
		assert.Empty(t, doc.Title)
		assert.Equal(t, "body\n", doc.Body)

		doc, err = markdown.Decode([]byte("---\n---"))
		require.NoError(t, err)
		assert.Empty(t, doc.Body)
	})

	t.Run("bare body", func(t *testing.T) {
		doc, err := markdown.Decode([]byte("just text"))
		require.NoError(t, err)
		assert.Equal(t, "just text", doc.Body)
	})

	t.Run("unterminated", func(t *testing.T) {
		_, err := markdown.Decode([]byte("---\ntitle: x\nbody"))
		assert.Error(t, err)
	})
}

func TestExportReadDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	views := []core.NoteView{
		{ID: "b", Title: "Second", Markdown: "two"},
		{ID: "a", Title: "First", Markdown: "one", Tags: []core.Tag{{ID: "t", Label: "x"}}},
	}

	n, err := markdown.Export(dir, views)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "loose.md"), []byte("no header"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("ignored"), 0644))

	docs, err := markdown.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, []string{"x"}, docs[0].Tags)
	assert.Equal(t, "one", docs[0].Body)
	assert.Equal(t, "b", docs[1].ID)
	assert.Equal(t, "loose", docs[2].ID)
	assert.Equal(t, "no header", docs[2].Body)
}

func TestExportRejectsUnsafeIDs(t *testing.T) {
	_, err := markdown.Export(t.TempDir(), []core.NoteView{{ID: "../escape"}})
	assert.Error(t, err)
}
