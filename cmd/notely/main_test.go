package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notely/internal/platform"
)

// runCLI executes the root command in-process and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	require.NoError(t, err, "notely %s", strings.Join(args, " "))
	return out
}

// newNotebook initializes a notebook and returns the flags that select it.
func newNotebook(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	mustRun(t, "init", dir)
	require.FileExists(t, filepath.Join(dir, platform.ConfigFileName))
	return []string{"--config", filepath.Join(dir, platform.ConfigFileName)}
}

func with(base []string, args ...string) []string {
	return append(append([]string{}, base...), args...)
}

func TestCLI_NotesAndTags(t *testing.T) {
	nb := newNotebook(t)

	assert.Equal(t, "t1\n", mustRun(t, with(nb, "tag", "add", "work", "--id", "t1")...))
	id := strings.TrimSpace(mustRun(t, with(nb, "note", "create", "--title", "Plan", "--markdown", "first steps", "--tag", "work")...))
	require.NotEmpty(t, id)

	assert.Equal(t, id+" - Plan [work]\n", mustRun(t, with(nb, "list")...))

	mustRun(t, with(nb, "tag", "rename", "work", "office")...)
	show := mustRun(t, with(nb, "note", "show", id)...)
	assert.Contains(t, show, "# Plan")
	assert.Contains(t, show, "tags: office")
	assert.Contains(t, show, "first steps")

	assert.Equal(t, id+" - Plan [office]\n", mustRun(t, with(nb, "list", "--tag-glob", "off*")...))
	assert.Empty(t, mustRun(t, with(nb, "list", "--tag-glob", "home*")...))
	assert.Empty(t, mustRun(t, with(nb, "list", "--tag", "missing")...))
	assert.Empty(t, mustRun(t, with(nb, "list", "--title", "xyz")...))

	mustRun(t, with(nb, "note", "edit", id, "--title", "Roadmap")...)
	assert.Equal(t, id+" - Roadmap [office]\n", mustRun(t, with(nb, "list")...))

	// Deleting the tag hides it from the note without touching the note.
	mustRun(t, with(nb, "tag", "delete", "t1")...)
	assert.Equal(t, id+" - Roadmap\n", mustRun(t, with(nb, "list")...))
	assert.Empty(t, mustRun(t, with(nb, "tag", "list")...))

	mustRun(t, with(nb, "note", "delete", id)...)
	mustRun(t, with(nb, "note", "delete", id)...)
	assert.Empty(t, mustRun(t, with(nb, "list")...))
}

func TestCLI_TagErrors(t *testing.T) {
	nb := newNotebook(t)

	mustRun(t, with(nb, "tag", "add", "work", "--id", "t1")...)
	_, err := runCLI(t, with(nb, "tag", "add", "again", "--id", "t1")...)
	assert.Error(t, err)

	_, err = runCLI(t, with(nb, "tag", "rename", "ghost", "x")...)
	assert.ErrorContains(t, err, "unknown tag")

	_, err = runCLI(t, with(nb, "note", "show", "ghost")...)
	assert.ErrorContains(t, err, "not found")

	assert.Equal(t, "t1\twork\n", mustRun(t, with(nb, "tag", "list", "--glob", "w*")...))
}

func TestCLI_ExportImport(t *testing.T) {
	src := newNotebook(t)
	mustRun(t, with(src, "note", "create", "--title", "Groceries", "--markdown", "milk", "--tag", "home")...)

	exportDir := filepath.Join(t.TempDir(), "export")
	assert.Contains(t, mustRun(t, with(src, "export", exportDir)...), "Exported 1 notes")
	entries, err := os.ReadDir(exportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	dst := newNotebook(t)
	assert.Equal(t, "Imported 1 notes\n", mustRun(t, with(dst, "import", exportDir)...))

	list := mustRun(t, with(dst, "list")...)
	assert.Contains(t, list, "Groceries [home]")
	assert.Contains(t, mustRun(t, with(dst, "tag", "list")...), "home")
}

func TestCLI_HistoryRequiresFS(t *testing.T) {
	_, err := runCLI(t, "--adapter", "memory", "--config", filepath.Join(t.TempDir(), "none.yaml"), "history")
	assert.ErrorContains(t, err, "fs adapter")

	_, err = runCLI(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "history", "bogus")
	assert.ErrorContains(t, err, "unknown collection")
}

func TestCLI_UnknownAdapter(t *testing.T) {
	_, err := runCLI(t, "--adapter", "mongo", "--config", filepath.Join(t.TempDir(), "none.yaml"), "list")
	assert.ErrorContains(t, err, "unknown adapter")
}

func TestCLI_Version(t *testing.T) {
	assert.True(t, strings.HasPrefix(mustRun(t, "version"), "notely version "))
}
