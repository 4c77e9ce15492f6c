// Package markdown renders notes as standalone markdown files with a YAML
// frontmatter header, and reads such files back.
package markdown

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/notely/pkg/core"
)

// Ext is the extension of exported files.
const Ext = ".md"

// Frontmatter is the metadata header of an exported note.
type Frontmatter struct {
	ID    string   `yaml:"id,omitempty"`
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags,omitempty"`
}

// Document is a parsed markdown file.
type Document struct {
	Frontmatter
	Body string
}

// Encode renders a view as frontmatter followed by the note body.
// Tags are written as labels.
func Encode(view core.NoteView) ([]byte, error) {
	meta := Frontmatter{ID: view.ID, Title: view.Title}
	for _, t := range view.Tags {
		meta.Tags = append(meta.Tags, t.Label)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	buf.WriteString("---\n")
	buf.WriteString(view.Markdown)
	return buf.Bytes(), nil
}

// Decode parses a file produced by Encode. A file without a frontmatter
// header is taken as a bare body.
func Decode(data []byte) (Document, error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !strings.HasPrefix(content, "---\n") {
		return Document{Body: content}, nil
	}

	rest := content[len("---\n"):]
	var header, body string
	found := false
	if b, ok := strings.CutPrefix(rest, "---\n"); ok {
		body, found = b, true
	} else if rest == "---" {
		found = true
	} else {
		header, body, found = strings.Cut(rest, "\n---\n")
	}
	if !found {
		if h, ok := strings.CutSuffix(rest, "\n---"); ok {
			header, body = h, ""
		} else {
			return Document{}, fmt.Errorf("unterminated frontmatter")
		}
	}

	var doc Document
	if err := yaml.Unmarshal([]byte(header), &doc.Frontmatter); err != nil {
		return Document{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	doc.Body = body
	return doc, nil
}

// Export writes one <id>.md file per view into dir, creating it if needed.
// It returns the number of files written.
func Export(dir string, views []core.NoteView) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create export directory: %w", err)
	}
	for i, v := range views {
		if v.ID == "" || strings.ContainsAny(v.ID, `/\`) || strings.HasPrefix(v.ID, ".") {
			return i, fmt.Errorf("note id %q is not a valid file name", v.ID)
		}
		data, err := Encode(v)
		if err != nil {
			return i, fmt.Errorf("note %s: %w", v.ID, err)
		}
		if err := os.WriteFile(filepath.Join(dir, v.ID+Ext), data, 0644); err != nil {
			return i, fmt.Errorf("failed to write note %s: %w", v.ID, err)
		}
	}
	return len(views), nil
}

// ReadDir parses every .md file directly under dir, in file name order.
// Documents without an id in their frontmatter get the file stem.
func ReadDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var docs []Document
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		doc, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		if doc.ID == "" {
			doc.ID = strings.TrimSuffix(e.Name(), Ext)
		}
		docs = append(docs, doc)
	}
	slices.SortFunc(docs, func(a, b Document) int { return strings.Compare(a.ID, b.ID) })
	return docs, nil
}
